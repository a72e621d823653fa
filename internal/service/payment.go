package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"koelnr-payments/internal/dto"
	"koelnr-payments/internal/model"
	"koelnr-payments/internal/payu"
	"koelnr-payments/internal/repository"
)

var (
	// ErrInvalidHash means the callback payload failed signature
	// verification. Hard rejection: no state change, no retry.
	ErrInvalidHash = errors.New("invalid callback hash")
	// ErrOrderNotFound means the callback references an order id that does
	// not exist. Distinct from a signature failure.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidOrder covers malformed order-creation input.
	ErrInvalidOrder = errors.New("invalid order data")
)

// SettleResult reports what a callback path did to an order.
type SettleResult struct {
	OrderID string
	Status  model.OrderStatus
	// Applied is false when the order was already terminal and this call
	// was an idempotent no-op. Not an error.
	Applied bool
}

type PaymentService interface {
	CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	// HandleSuccess settles the order referenced by a verified success
	// redirect. Returns ErrInvalidHash without touching state on a bad hash.
	HandleSuccess(ctx context.Context, form url.Values) (*SettleResult, error)
	// HandleFailure settles a verified failure redirect and returns the
	// human-readable gateway reason for the failure page.
	HandleFailure(ctx context.Context, form url.Values) (*SettleResult, string, error)
	// HandleWebhook applies the async server-to-server notification.
	// Terminal status is derived from the gateway's own status field.
	HandleWebhook(ctx context.Context, form url.Values) (*SettleResult, error)
}

type paymentServiceImpl struct {
	db          *gorm.DB
	gateway     *payu.Gateway
	orderRepo   repository.OrderRepository
	catalogRepo repository.CatalogRepository
	provisioner *SubscriptionProvisioner
	logger      *zap.Logger
}

func NewPaymentService(
	db *gorm.DB,
	gateway *payu.Gateway,
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	provisioner *SubscriptionProvisioner,
	logger *zap.Logger,
) PaymentService {
	return &paymentServiceImpl{
		db:          db,
		gateway:     gateway,
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		provisioner: provisioner,
		logger:      logger,
	}
}

func (s *paymentServiceImpl) CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	order, items, err := buildOrder(ctx, s.catalogRepo, userID, req, model.GatewayPayU)
	if err != nil {
		return nil, err
	}

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

	amount := decimal.NewFromInt(order.TotalAmount).StringFixed(2)
	gatewayURL, fields := s.gateway.BuildCheckoutForm(payu.CheckoutOrder{
		TxnID:       order.GatewayTxnID,
		Amount:      amount,
		ProductInfo: productInfo(req),
		FirstName:   req.Customer.Name,
		Email:       req.Customer.Email,
		Phone:       req.Customer.Phone,
		OrderID:     order.ID,
		OrderType:   string(order.Type),
		PlanName:    order.PlanName,
		VehicleType: string(order.VehicleType),
		UserID:      userID,
	})

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("txn_id", order.GatewayTxnID),
		zap.Int64("total_amount", order.TotalAmount),
	)

	return &dto.CreateOrderResponse{
		OrderID:    order.ID,
		TxnID:      order.GatewayTxnID,
		GatewayURL: gatewayURL,
		Fields:     fields,
	}, nil
}

// buildOrder validates the request against the price catalog and assembles
// the order and its immutable line items. Shared by both gateway flows.
func buildOrder(ctx context.Context, catalogRepo repository.CatalogRepository, userID string, req *dto.CreateOrderRequest, gateway string) (*model.Order, []*model.OrderItem, error) {
	orderType := model.OrderType(req.Type)
	switch orderType {
	case model.OrderTypeSubscription, model.OrderTypeOnDemand, model.OrderTypeAddon:
	default:
		return nil, nil, fmt.Errorf("%w: unknown order type %q", ErrInvalidOrder, req.Type)
	}

	vehicle := model.VehicleType(req.VehicleType)
	if vehicle != model.VehicleHatchSedan && vehicle != model.VehicleSuvMuv {
		return nil, nil, fmt.Errorf("%w: unknown vehicle type %q", ErrInvalidOrder, req.VehicleType)
	}

	if len(req.Items) == 0 {
		return nil, nil, fmt.Errorf("%w: no items", ErrInvalidOrder)
	}
	if orderType == model.OrderTypeSubscription && req.PlanName == "" {
		return nil, nil, fmt.Errorf("%w: subscription order without plan name", ErrInvalidOrder)
	}

	orderID := uuid.NewString()
	totalAmount := int64(0)
	items := make([]*model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, nil, fmt.Errorf("%w: item quantity must be positive", ErrInvalidOrder)
		}

		listed, err := catalogRepo.FindPrice(ctx, item.Name, vehicle)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("%w: unknown item %q", ErrInvalidOrder, item.Name)
			}
			return nil, nil, fmt.Errorf("look up price: %w", err)
		}
		if listed.Price != item.Price {
			return nil, nil, fmt.Errorf("%w: price mismatch for %q", ErrInvalidOrder, item.Name)
		}

		totalAmount += item.Price * int64(item.Quantity)
		items[i] = &model.OrderItem{
			OrderID:   orderID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
		}
	}

	order := &model.Order{
		ID:            orderID,
		UserID:        userID,
		Type:          orderType,
		TotalAmount:   totalAmount,
		Currency:      "INR",
		Status:        model.OrderStatusCreated,
		Gateway:       gateway,
		GatewayTxnID:  uuid.NewString(),
		PlanName:      req.PlanName,
		VehicleType:   vehicle,
		ScheduledSlot: req.ScheduledSlot,
		ScheduledDate: req.ScheduledDate,
	}
	return order, items, nil
}

// verifyCallback is the single parse+verify routine shared by all three
// callback paths; the paths differ only in idempotency scope and response
// shape.
func (s *paymentServiceImpl) verifyCallback(form url.Values) (payu.CallbackResponse, error) {
	r := payu.ParseCallback(form)
	if !s.gateway.Verify(r) {
		s.logger.Warn("callback hash verification failed",
			zap.String("txn_id", r.TxnID),
		)
		return r, ErrInvalidHash
	}
	return r, nil
}

func (s *paymentServiceImpl) HandleSuccess(ctx context.Context, form url.Values) (*SettleResult, error) {
	r, err := s.verifyCallback(form)
	if err != nil {
		return nil, err
	}

	result, err := s.settle(ctx, r, model.OrderStatusPaid)
	if err != nil {
		return nil, err
	}

	if !result.Applied {
		s.logger.Info("success callback replay, order already settled",
			zap.String("order_id", result.OrderID),
			zap.String("status", string(result.Status)),
		)
	}
	return result, nil
}

func (s *paymentServiceImpl) HandleFailure(ctx context.Context, form url.Values) (*SettleResult, string, error) {
	r, err := s.verifyCallback(form)
	if err != nil {
		return nil, "", err
	}

	reason := r.ErrorMsg
	if reason == "" {
		reason = r.Error
	}
	if reason == "" {
		reason = "Payment failed"
	}

	result, err := s.settle(ctx, r, model.OrderStatusFailed)
	if err != nil {
		return nil, "", err
	}
	return result, reason, nil
}

func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, form url.Values) (*SettleResult, error) {
	r, err := s.verifyCallback(form)
	if err != nil {
		return nil, err
	}

	// The webhook trusts only the gateway's own status field, regardless
	// of which path settled the order first.
	status := model.OrderStatusFailed
	if r.Status == "success" {
		status = model.OrderStatusPaid
	}

	result, err := s.settle(ctx, r, status)
	if err != nil {
		return nil, err
	}

	if !result.Applied {
		s.logger.Info("webhook replay, order already settled",
			zap.String("order_id", result.OrderID),
			zap.String("status", string(result.Status)),
		)
	}
	return result, nil
}

// settle applies the terminal transition for a verified callback inside a
// single transaction. The conditional update in the order repository is the
// tie-break between racing paths: first committer wins, everyone else sees
// an already-terminal order and no-ops.
func (s *paymentServiceImpl) settle(ctx context.Context, r payu.CallbackResponse, status model.OrderStatus) (*SettleResult, error) {
	orderID := r.UDF1
	if orderID == "" {
		return nil, ErrOrderNotFound
	}

	result := &SettleResult{OrderID: orderID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.Where("id = ?", orderID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("load order: %w", err)
		}

		var (
			applied bool
			err     error
		)
		if status == model.OrderStatusPaid {
			applied, err = s.orderRepo.MarkPaid(ctx, tx, orderID, r.MihPayID, r.Status, r.Mode)
		} else {
			applied, err = s.orderRepo.MarkFailed(ctx, tx, orderID, r.Status)
		}
		if err != nil {
			return fmt.Errorf("settle order: %w", err)
		}

		if !applied {
			// Already terminal; report the stored status, not ours. The
			// first read may predate the settling writer, so read again.
			if err := tx.Where("id = ?", orderID).First(&order).Error; err != nil {
				return fmt.Errorf("load order: %w", err)
			}
			result.Status = order.Status
			result.Applied = false
			return nil
		}

		result.Status = status
		result.Applied = true

		if status == model.OrderStatusPaid &&
			r.UDF2 == string(model.OrderTypeSubscription) && r.UDF3 != "" && r.UDF4 != "" {
			if err := s.provisioner.Provision(ctx, tx, ProvisionInput{
				UserID:      r.UDF5,
				PlanName:    r.UDF3,
				VehicleType: model.VehicleType(r.UDF4),
				Amount:      r.Amount,
				PaymentID:   r.MihPayID,
				OrderID:     orderID,
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

func productInfo(req *dto.CreateOrderRequest) string {
	if req.PlanName != "" {
		return req.PlanName
	}
	return req.Items[0].Name
}
