package service

import (
	"context"
	"fmt"
	"storefront-order-service/internal/client"
	"storefront-order-service/internal/model"
	"storefront-order-service/internal/pricing"
)

type CheckoutGateway interface {
	CreateSession(ctx context.Context, order *model.Order, lines []pricing.PricedLine, successURL, cancelURL string) (*model.CheckoutSession, error)
}

type checkoutGatewayImpl struct {
	stripeClient client.StripeClient
	currency     string
}

func NewCheckoutGateway(stripeClient client.StripeClient, currency string) CheckoutGateway {
	return &checkoutGatewayImpl{
		stripeClient: stripeClient,
		currency:     currency,
	}
}

func (g *checkoutGatewayImpl) CreateSession(ctx context.Context, order *model.Order, lines []pricing.PricedLine, successURL, cancelURL string) (*model.CheckoutSession, error) {
	if order.PaymentType != model.PaymentTypeOnline {
		return nil, fmt.Errorf("%w: checkout session requested for %s order", ErrInvalidOrder, order.PaymentType)
	}

	lineItems := make([]model.CheckoutLineItem, len(lines))
	for i, line := range lines {
		lineItems[i] = model.CheckoutLineItem{
			Name:            line.Name,
			UnitAmountMinor: line.UnitAmountMinor(),
			Quantity:        line.Quantity,
		}
	}

	session, err := g.stripeClient.CreateCheckoutSession(ctx, &model.CheckoutSessionRequest{
		Currency:   g.currency,
		LineItems:  lineItems,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Metadata: map[string]string{
			"orderId": order.ID,
			"userId":  order.UserID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	return session, nil
}
