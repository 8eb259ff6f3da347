package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"storefront-order-service/internal/client"
	"storefront-order-service/internal/model"
	"storefront-order-service/internal/repository"

	"gorm.io/gorm"
)

type WebhookService interface {
	// HandleWebhook returns ErrSignature when the payload cannot be
	// authenticated. Once authenticated, it always returns nil: side-effect
	// failures are logged and left to processor redelivery.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type webhookServiceImpl struct {
	stripeClient     client.StripeClient
	orderRepo        repository.OrderRepository
	userRepo         repository.UserRepository
	webhookEventRepo repository.WebhookEventRepository
}

func NewWebhookService(
	stripeClient client.StripeClient,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	webhookEventRepo repository.WebhookEventRepository,
) WebhookService {
	return &webhookServiceImpl{
		stripeClient:     stripeClient,
		orderRepo:        orderRepo,
		userRepo:         userRepo,
		webhookEventRepo: webhookEventRepo,
	}
}

func (s *webhookServiceImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.stripeClient.ConstructEvent(payload, signature)
	if err != nil {
		if errors.Is(err, client.ErrInvalidSignature) {
			return fmt.Errorf("%w: %v", ErrSignature, err)
		}
		// authenticated but undecodable: acknowledge, nothing to apply
		slog.ErrorContext(ctx, "decode webhook event", "error", err)
		return nil
	}

	logger := slog.With("event_id", event.EventID(), "event_type", event.EventType())

	processed, err := s.webhookEventRepo.Exists(ctx, event.EventID())
	if err != nil {
		logger.WarnContext(ctx, "check webhook event ledger", "error", err)
	}
	if processed {
		logger.InfoContext(ctx, "webhook event already processed")
		return nil
	}

	complete := true
	switch e := event.(type) {
	case model.CheckoutCompleted:
		complete = s.handleCheckoutCompleted(ctx, logger, e)
	case model.PaymentFailed:
		logger.WarnContext(ctx, "payment failed", "payment_intent_id", e.PaymentIntentID, "reason", e.Reason)
	default:
		logger.WarnContext(ctx, "unhandled webhook event type")
	}

	if complete {
		if err := s.webhookEventRepo.MarkProcessed(ctx, event.EventID(), event.EventType()); err != nil {
			logger.WarnContext(ctx, "record webhook event", "error", err)
		}
	}

	return nil
}

// handleCheckoutCompleted marks the order paid and clears the buyer's cart.
// Both steps run regardless of the other's outcome; it reports whether the
// event needs no further redelivery.
func (s *webhookServiceImpl) handleCheckoutCompleted(ctx context.Context, logger *slog.Logger, e model.CheckoutCompleted) bool {
	if e.OrderID == "" {
		logger.ErrorContext(ctx, "checkout session without order metadata", "session_id", e.SessionID)
		return true
	}
	logger = logger.With("order_id", e.OrderID, "user_id", e.UserID)

	complete := true

	changed, err := s.orderRepo.MarkPaid(ctx, e.OrderID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		logger.WarnContext(ctx, "mark paid: order not found")
	case err != nil:
		logger.ErrorContext(ctx, "mark order paid", "error", err)
		complete = false
	case changed:
		logger.InfoContext(ctx, "order marked paid")
	default:
		logger.InfoContext(ctx, "order already paid")
	}

	if e.UserID == "" {
		logger.WarnContext(ctx, "checkout session without user metadata")
		return complete
	}

	err = s.userRepo.ClearCart(ctx, e.UserID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		logger.WarnContext(ctx, "clear cart: user not found")
	case err != nil:
		logger.ErrorContext(ctx, "clear user cart", "error", err)
		complete = false
	}

	return complete
}
