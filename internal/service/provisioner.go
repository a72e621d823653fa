package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"koelnr-payments/internal/model"
	"koelnr-payments/internal/repository"
)

const billingPeriod = 30 * 24 * time.Hour

// ProvisionInput carries the settlement facts a subscription derives from.
// Amount is the gateway-confirmed decimal string, never a fresh price-table
// lookup, so a price change between checkout and settlement cannot drift
// into the subscription.
type ProvisionInput struct {
	UserID      string
	PlanName    string
	VehicleType model.VehicleType
	Amount      string
	PaymentID   string
	OrderID     string
}

// SubscriptionProvisioner creates the subscription that a paid
// subscription-type order entitles the customer to. It only ever runs
// inside the transaction that marks the order paid, so a half-applied
// state (paid order without subscription, or the reverse) cannot be
// observed.
type SubscriptionProvisioner struct {
	subscriptionRepo repository.SubscriptionRepository
	logger           *zap.Logger
	now              func() time.Time
}

func NewSubscriptionProvisioner(subscriptionRepo repository.SubscriptionRepository, logger *zap.Logger) *SubscriptionProvisioner {
	return &SubscriptionProvisioner{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
		now:              time.Now,
	}
}

func (p *SubscriptionProvisioner) Provision(ctx context.Context, tx *gorm.DB, in ProvisionInput) error {
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil {
		return fmt.Errorf("parse confirmed amount %q: %w", in.Amount, err)
	}

	start := p.now()
	sub := &model.Subscription{
		ID:               uuid.NewString(),
		UserID:           in.UserID,
		PlanName:         in.PlanName,
		VehicleType:      in.VehicleType,
		MonthlyPrice:     amount.IntPart(),
		Status:           model.SubscriptionActive,
		PaymentID:        in.PaymentID,
		OrderID:          in.OrderID,
		StartDate:        start,
		CurrentPeriodEnd: start.Add(billingPeriod),
	}

	if err := p.subscriptionRepo.Create(ctx, tx, sub); err != nil {
		return fmt.Errorf("store subscription: %w", err)
	}

	p.logger.Info("subscription provisioned",
		zap.String("subscription_id", sub.ID),
		zap.String("order_id", in.OrderID),
		zap.String("plan", in.PlanName),
	)
	return nil
}
