package repository

import (
	"context"

	"gorm.io/gorm"

	"koelnr-payments/internal/model"
)

type SubscriptionRepository interface {
	// Create runs inside the caller's transaction so the subscription and
	// the order's paid transition commit or roll back together.
	Create(ctx context.Context, tx *gorm.DB, sub *model.Subscription) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Subscription, error)
	FindActiveByUser(ctx context.Context, userID string) (*model.Subscription, error)
	Cancel(ctx context.Context, id, userID string) error
	CountByOrderID(ctx context.Context, orderID string) (int64, error)
}

type subscriptionRepoImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepoImpl{
		db: db,
	}
}

func (r *subscriptionRepoImpl) Create(ctx context.Context, tx *gorm.DB, sub *model.Subscription) error {
	return tx.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepoImpl) FindByOrderID(ctx context.Context, orderID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&sub).Error

	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *subscriptionRepoImpl) FindActiveByUser(ctx context.Context, userID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.SubscriptionActive).
		Order("created_at DESC").
		First(&sub).Error

	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *subscriptionRepoImpl) Cancel(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", model.SubscriptionCancelled)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *subscriptionRepoImpl) CountByOrderID(ctx context.Context, orderID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("order_id = ?", orderID).
		Count(&count).Error

	return count, err
}
