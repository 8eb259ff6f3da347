package service

import (
	"context"
	"fmt"
	"storefront-order-service/internal/model"
	"storefront-order-service/internal/repository"
)

// OrderQueryService is the read side over settled orders.
type OrderQueryService interface {
	ListForUser(ctx context.Context, userID string) ([]*model.Order, error)
	ListForSeller(ctx context.Context) ([]*model.Order, error)
}

type orderQueryServiceImpl struct {
	orderRepo repository.OrderRepository
}

func NewOrderQueryService(orderRepo repository.OrderRepository) OrderQueryService {
	return &orderQueryServiceImpl{
		orderRepo: orderRepo,
	}
}

func (s *orderQueryServiceImpl) ListForUser(ctx context.Context, userID string) ([]*model.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidOrder)
	}
	return s.list(ctx, repository.SettledFilter{UserID: userID})
}

func (s *orderQueryServiceImpl) ListForSeller(ctx context.Context) ([]*model.Order, error) {
	return s.list(ctx, repository.SettledFilter{})
}

func (s *orderQueryServiceImpl) list(ctx context.Context, filter repository.SettledFilter) ([]*model.Order, error) {
	orders, err := s.orderRepo.FindSettled(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: find settled orders: %w", ErrPersistence, err)
	}
	if orders == nil {
		orders = []*model.Order{}
	}
	return orders, nil
}
