package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"storefront-order-service/internal/config"
	"storefront-order-service/internal/model"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v76"
	stripeclient "github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

var (
	ErrInvalidSignature = errors.New("stripe signature verification failed")
	ErrMalformedEvent   = errors.New("malformed stripe event payload")
)

type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, req *model.CheckoutSessionRequest) (*model.CheckoutSession, error)
	ConstructEvent(payload []byte, signatureHeader string) (model.PaymentEvent, error)
}

type stripeClientImpl struct {
	secretKey     string
	webhookSecret string
	backends      *stripe.Backends

	once    sync.Once
	api     *stripeclient.API
	breaker *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
}

// NewStripeClient returns a process-wide client. The underlying API handle is
// built on first use and shared afterwards.
func NewStripeClient(stripeCfg *config.Stripe, breakerCfg *config.Breaker) StripeClient {
	return newStripeClient(stripeCfg, breakerCfg, nil)
}

func newStripeClient(stripeCfg *config.Stripe, breakerCfg *config.Breaker, backends *stripe.Backends) *stripeClientImpl {
	maxFailures := breakerCfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	return &stripeClientImpl{
		secretKey:     stripeCfg.SecretKey,
		webhookSecret: stripeCfg.WebhookSecret,
		backends:      backends,
		breaker: gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](gobreaker.Settings{
			Name:        "stripe-checkout",
			MaxRequests: 1,
			Timeout:     breakerCfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			IsSuccessful: func(err error) bool {
				return err == nil || !isStripeOutage(err)
			},
		}),
	}
}

// isStripeOutage reports whether err says Stripe itself is unhealthy or
// unreachable. Rejections of a single request (bad params, card errors)
// and caller cancellation do not count against the breaker.
func isStripeOutage(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return true
	}

	switch status := stripeErr.HTTPStatusCode; {
	case status >= http.StatusInternalServerError,
		status == http.StatusTooManyRequests,
		status == http.StatusUnauthorized,
		status == http.StatusForbidden:
		return true
	case status == 0:
		return stripeErr.Type == stripe.ErrorTypeAPI
	default:
		return false
	}
}

func (c *stripeClientImpl) client() *stripeclient.API {
	c.once.Do(func() {
		c.api = &stripeclient.API{}
		c.api.Init(c.secretKey, c.backends)
	})
	return c.api
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, req *model.CheckoutSessionRequest) (*model.CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(req.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmountMinor),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:  lineItems,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		Metadata:   req.Metadata,
	}
	params.Context = ctx

	session, err := c.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		return c.client().CheckoutSessions.New(params)
	})
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	return &model.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// ConstructEvent authenticates the raw payload against the Stripe-Signature
// header and decodes it into a PaymentEvent.
func (c *stripeClientImpl) ConstructEvent(payload []byte, signatureHeader string) (model.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, c.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	return decodeEvent(&event)
}

func decodeEvent(event *stripe.Event) (model.PaymentEvent, error) {
	switch string(event.Type) {
	case model.EventCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		return model.CheckoutCompleted{
			ID:        event.ID,
			SessionID: session.ID,
			OrderID:   session.Metadata["orderId"],
			UserID:    session.Metadata["userId"],
		}, nil

	case model.EventPaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		failed := model.PaymentFailed{
			ID:              event.ID,
			PaymentIntentID: intent.ID,
		}
		if intent.LastPaymentError != nil {
			failed.Reason = intent.LastPaymentError.Msg
		}
		return failed, nil

	default:
		return model.UnrecognizedEvent{
			ID:   event.ID,
			Type: string(event.Type),
		}, nil
	}
}

// SignWebhookPayload produces a valid Stripe-Signature header for payload.
// Used by tests and local tooling that replay events against the webhook.
func SignWebhookPayload(payload []byte, secret string) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Header
}
