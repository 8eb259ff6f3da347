package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"storefront-order-service/internal/model"
	"storefront-order-service/internal/pricing"
	"storefront-order-service/internal/repository"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlaceOrderInput struct {
	UserID    string
	Items     []pricing.LineItem
	AddressID string
}

type OrderService interface {
	PlaceOrderCOD(ctx context.Context, in *PlaceOrderInput) (*model.Order, error)
	PlaceOrderOnline(ctx context.Context, in *PlaceOrderInput, origin string) (*model.CheckoutSession, error)
}

type orderServiceImpl struct {
	products  pricing.ProductResolver
	orderRepo repository.OrderRepository
	checkout  CheckoutGateway
}

func NewOrderService(
	products pricing.ProductResolver,
	orderRepo repository.OrderRepository,
	checkout CheckoutGateway,
) OrderService {
	return &orderServiceImpl{
		products:  products,
		orderRepo: orderRepo,
		checkout:  checkout,
	}
}

func (s *orderServiceImpl) PlaceOrderCOD(ctx context.Context, in *PlaceOrderInput) (*model.Order, error) {
	order, _, err := s.placeOrder(ctx, in, model.PaymentTypeCOD)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "cod order placed", "order_id", order.ID, "user_id", order.UserID, "amount", order.Amount)
	return order, nil
}

func (s *orderServiceImpl) PlaceOrderOnline(ctx context.Context, in *PlaceOrderInput, origin string) (*model.CheckoutSession, error) {
	order, quote, err := s.placeOrder(ctx, in, model.PaymentTypeOnline)
	if err != nil {
		return nil, err
	}

	origin = strings.TrimRight(origin, "/")
	session, err := s.checkout.CreateSession(ctx, order, quote.Lines,
		origin+"/loader?next=my-orders",
		origin+"/cart",
	)
	if err != nil {
		return nil, fmt.Errorf("create checkout session for order %s: %w", order.ID, err)
	}

	slog.InfoContext(ctx, "online order placed",
		"order_id", order.ID, "user_id", order.UserID, "amount", order.Amount, "session_id", session.ID)
	return session, nil
}

// placeOrder validates, prices and persists the order. Validation failures
// return before any lookup or write.
func (s *orderServiceImpl) placeOrder(ctx context.Context, in *PlaceOrderInput, paymentType model.PaymentType) (*model.Order, *pricing.Quote, error) {
	if in.UserID == "" {
		return nil, nil, fmt.Errorf("%w: missing user", ErrInvalidOrder)
	}
	if err := pricing.Validate(in.Items, in.AddressID); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidOrder, err)
	}

	quote, err := pricing.Compute(ctx, in.Items, s.products)
	if err != nil {
		return nil, nil, classifyPricingError(err)
	}

	items := make([]model.OrderItem, len(in.Items))
	for i, item := range in.Items {
		items[i] = model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	order := &model.Order{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		Items:       items,
		AddressID:   in.AddressID,
		Amount:      quote.Amount,
		PaymentType: paymentType,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("%w: store order: %w", ErrPersistence, err)
	}

	return order, quote, nil
}

func classifyPricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrInvalidItems),
		errors.Is(err, pricing.ErrInvalidAddress),
		errors.Is(err, pricing.ErrInvalidLine),
		errors.Is(err, pricing.ErrAmountTooLarge):
		return fmt.Errorf("%w: %w", ErrInvalidOrder, err)
	case errors.Is(err, pricing.ErrUnknownProduct),
		errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: price order: %w", ErrPersistence, err)
	}
}
