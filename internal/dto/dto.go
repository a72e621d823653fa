package dto

type OrderItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int32  `json:"quantity"`
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CreateOrderRequest struct {
	Type          string       `json:"type"` // subscription, on_demand, addon
	Items         []*OrderItem `json:"items"`
	PlanName      string       `json:"plan_name,omitempty"`
	VehicleType   string       `json:"vehicle_type"`
	ScheduledSlot string       `json:"scheduled_slot,omitempty"`
	ScheduledDate string       `json:"scheduled_date,omitempty"`
	Customer      CustomerInfo `json:"customer"`
}

// CreateOrderResponse carries everything the browser needs to form-post the
// user to the gateway's hosted checkout page.
type CreateOrderResponse struct {
	OrderID    string            `json:"order_id"`
	TxnID      string            `json:"txn_id"`
	GatewayURL string            `json:"gateway_url"`
	Fields     map[string]string `json:"fields"`
}

type RazorpayOrderResponse struct {
	OrderID         string `json:"order_id"`
	RazorpayOrderID string `json:"razorpay_order_id"`
	Amount          int64  `json:"amount"` // paise
	Currency        string `json:"currency"`
}

type RazorpayVerifyRequest struct {
	OrderID           string `json:"order_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}
