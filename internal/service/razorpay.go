package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"koelnr-payments/internal/dto"
	"koelnr-payments/internal/model"
	"koelnr-payments/internal/razorpay"
	"koelnr-payments/internal/repository"
)

// RazorpayService is the parallel checkout flow: the order is registered
// with Razorpay up front, the browser completes payment in the Checkout
// widget, and the client posts the signed result back for verification.
type RazorpayService interface {
	CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.RazorpayOrderResponse, error)
	VerifyPayment(ctx context.Context, userID string, req *dto.RazorpayVerifyRequest) (*SettleResult, error)
}

type razorpayServiceImpl struct {
	db          *gorm.DB
	client      *razorpay.Client
	orderRepo   repository.OrderRepository
	catalogRepo repository.CatalogRepository
	provisioner *SubscriptionProvisioner
	logger      *zap.Logger
}

func NewRazorpayService(
	db *gorm.DB,
	client *razorpay.Client,
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	provisioner *SubscriptionProvisioner,
	logger *zap.Logger,
) RazorpayService {
	return &razorpayServiceImpl{
		db:          db,
		client:      client,
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		provisioner: provisioner,
		logger:      logger,
	}
}

func (s *razorpayServiceImpl) CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.RazorpayOrderResponse, error) {
	order, items, err := buildOrder(ctx, s.catalogRepo, userID, req, model.GatewayRazorpay)
	if err != nil {
		return nil, err
	}

	rzpOrderID, err := s.client.CreateOrder(order.TotalAmount, order.ID, userID, string(order.Type), order.PlanName)
	if err != nil {
		return nil, err
	}
	order.GatewayTxnID = rzpOrderID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("razorpay order created",
		zap.String("order_id", order.ID),
		zap.String("razorpay_order_id", rzpOrderID),
	)

	return &dto.RazorpayOrderResponse{
		OrderID:         order.ID,
		RazorpayOrderID: rzpOrderID,
		Amount:          order.TotalAmount * 100,
		Currency:        order.Currency,
	}, nil
}

func (s *razorpayServiceImpl) VerifyPayment(ctx context.Context, userID string, req *dto.RazorpayVerifyRequest) (*SettleResult, error) {
	if !s.client.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		s.logger.Warn("razorpay signature verification failed",
			zap.String("razorpay_order_id", req.RazorpayOrderID),
		)
		return nil, ErrInvalidHash
	}

	order, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order.UserID != userID || order.GatewayTxnID != req.RazorpayOrderID {
		return nil, ErrOrderNotFound
	}

	result := &SettleResult{OrderID: order.ID}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applied, err := s.orderRepo.MarkPaid(ctx, tx, order.ID, req.RazorpayPaymentID, "captured", "")
		if err != nil {
			return fmt.Errorf("settle order: %w", err)
		}

		if !applied {
			// Re-read inside the transaction; the pre-check copy may
			// predate the settling writer.
			var current model.Order
			if err := tx.Where("id = ?", order.ID).First(&current).Error; err != nil {
				return fmt.Errorf("load order: %w", err)
			}
			result.Status = current.Status
			result.Applied = false
			return nil
		}

		result.Status = model.OrderStatusPaid
		result.Applied = true

		if order.Type == model.OrderTypeSubscription && order.PlanName != "" {
			amount := decimal.NewFromInt(order.TotalAmount).StringFixed(2)
			if err := s.provisioner.Provision(ctx, tx, ProvisionInput{
				UserID:      order.UserID,
				PlanName:    order.PlanName,
				VehicleType: order.VehicleType,
				Amount:      amount,
				PaymentID:   req.RazorpayPaymentID,
				OrderID:     order.ID,
			}); err != nil {
				return fmt.Errorf("provision subscription: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
