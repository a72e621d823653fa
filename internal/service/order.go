package service

import (
	"context"
	"fmt"

	"koelnr-payments/internal/model"
	"koelnr-payments/internal/repository"
)

type OrderService interface {
	ListByUser(ctx context.Context, userID string) ([]*model.Order, error)
	GetWithItems(ctx context.Context, userID, orderID string) (*model.Order, []*model.OrderItem, error)
}

type orderServiceImpl struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderServiceImpl{
		orderRepo: orderRepo,
	}
}

func (s *orderServiceImpl) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderServiceImpl) GetWithItems(ctx context.Context, userID, orderID string) (*model.Order, []*model.OrderItem, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.UserID != userID {
		return nil, nil, ErrOrderNotFound
	}

	items, err := s.orderRepo.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("get order items: %w", err)
	}

	return order, items, nil
}
