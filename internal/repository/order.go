package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"koelnr-payments/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByTxnID(ctx context.Context, txnID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]*model.OrderItem, error)
	MarkPaid(ctx context.Context, tx *gorm.DB, id, paymentID, gatewayStatus, mode string) (bool, error)
	MarkFailed(ctx context.Context, tx *gorm.DB, id, gatewayStatus string) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByTxnID(ctx context.Context, txnID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("gateway_txn_id = ?", txnID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, orderID string) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

// MarkPaid moves an order created → paid and records the gateway payment
// details. The status guard plus RowsAffected makes this a compare-and-swap:
// whichever callback path runs it first wins, every later caller sees
// applied == false. This is the only concurrency control between the three
// callback paths, which may run in different processes.
func (r *orderRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, id, paymentID, gatewayStatus, mode string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, model.OrderStatusCreated).
		Updates(map[string]interface{}{
			"status":          model.OrderStatusPaid,
			"gateway_payment_id": paymentID,
			"gateway_status":     gatewayStatus,
			"payment_mode":    mode,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// MarkFailed moves an order created → failed. Same compare-and-swap shape
// as MarkPaid; a webhook that already settled the order makes this a no-op.
func (r *orderRepoImpl) MarkFailed(ctx context.Context, tx *gorm.DB, id, gatewayStatus string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, model.OrderStatusCreated).
		Updates(map[string]interface{}{
			"status":      model.OrderStatusFailed,
			"gateway_status": gatewayStatus,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
