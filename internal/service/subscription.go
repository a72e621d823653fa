package service

import (
	"context"

	"koelnr-payments/internal/model"
	"koelnr-payments/internal/repository"
)

type SubscriptionService interface {
	GetActive(ctx context.Context, userID string) (*model.Subscription, error)
	Cancel(ctx context.Context, userID, subscriptionID string) error
}

type subscriptionServiceImpl struct {
	subscriptionRepo repository.SubscriptionRepository
}

func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionServiceImpl{
		subscriptionRepo: subscriptionRepo,
	}
}

func (s *subscriptionServiceImpl) GetActive(ctx context.Context, userID string) (*model.Subscription, error) {
	return s.subscriptionRepo.FindActiveByUser(ctx, userID)
}

func (s *subscriptionServiceImpl) Cancel(ctx context.Context, userID, subscriptionID string) error {
	return s.subscriptionRepo.Cancel(ctx, subscriptionID, userID)
}
