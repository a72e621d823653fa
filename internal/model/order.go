package model

import "time"

type OrderType string

const (
	OrderTypeSubscription OrderType = "subscription"
	OrderTypeOnDemand     OrderType = "on_demand"
	OrderTypeAddon        OrderType = "addon"
)

type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

type VehicleType string

const (
	VehicleHatchSedan VehicleType = "hatchSedan"
	VehicleSuvMuv     VehicleType = "suvMuv"
)

const (
	GatewayPayU     = "payu"
	GatewayRazorpay = "razorpay"
)

type Order struct {
	ID          string    `gorm:"primaryKey;size:64;not null"`
	UserID      string    `gorm:"size:64;index;not null"`
	Type        OrderType `gorm:"size:32;not null"` // subscription, on_demand, addon
	TotalAmount int64     `gorm:"not null"`         // sum of items, rupees
	Currency    string    `gorm:"size:8;not null"`

	Status OrderStatus `gorm:"size:32;index;not null"` // created, paid, failed

	Gateway string `gorm:"size:16;not null"` // payu, razorpay
	// Correlation key generated at creation and echoed by the gateway on
	// every callback concerning this order. Set exactly once.
	GatewayTxnID     string `gorm:"size:64;uniqueIndex;not null"`
	GatewayPaymentID string `gorm:"size:64"` // assigned when payment concludes
	GatewayStatus    string `gorm:"size:32"` // raw gateway status
	PaymentMode      string `gorm:"size:32"` // UPI, CC, NB, ...

	// Subscription orders only; consumed by the provisioner at settlement.
	PlanName    string      `gorm:"size:64"`
	VehicleType VehicleType `gorm:"size:32"`

	ScheduledSlot string `gorm:"size:32"`
	ScheduledDate string `gorm:"size:32"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → order.id
	OrderID   string `gorm:"size:64;index;not null"`
	Name      string `gorm:"size:128;not null"`
	UnitPrice int64  `gorm:"not null"`
	Quantity  int32  `gorm:"not null"`

	CreatedAt time.Time
}

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

type Subscription struct {
	ID          string      `gorm:"primaryKey;size:64;not null"`
	UserID      string      `gorm:"size:64;index;not null"`
	PlanName    string      `gorm:"size:64;not null"`
	VehicleType VehicleType `gorm:"size:32;not null"`
	// Captured from the gateway-confirmed amount at settlement, never a
	// re-lookup of the live price table.
	MonthlyPrice int64              `gorm:"not null"`
	Status       SubscriptionStatus `gorm:"size:32;index;not null"`
	PaymentID    string             `gorm:"size:64"`
	// FK → order.id, the paid order this subscription derives from
	OrderID string `gorm:"size:64;index;not null"`

	StartDate        time.Time
	CurrentPeriodEnd time.Time
	CreatedAt        time.Time
}

// ServicePrice is one row of the seeded price catalog: a plan, wash or
// add-on price for one vehicle category.
type ServicePrice struct {
	Name        string      `gorm:"primaryKey;size:128;not null"`
	VehicleType VehicleType `gorm:"primaryKey;size:32;not null"`
	Category    OrderType   `gorm:"size:32;index;not null"`
	Price       int64       `gorm:"not null"` // rupees; monthly price for subscriptions
}
