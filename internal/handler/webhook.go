package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"storefront-order-service/internal/dto"
	"storefront-order-service/internal/service"

	"github.com/labstack/echo/v4"
)

const stripeSignatureHeader = "Stripe-Signature"

// maxWebhookBody is the largest event payload accepted, in line with the
// limit used in Stripe's webhook examples.
const maxWebhookBody = 64 << 10

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// StripeWebhook : POST /stripe. The body must stay unparsed for signature checks.
func (h *WebhookHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			slog.WarnContext(ctx, "webhook body too large", "limit", tooLarge.Limit)
			return c.String(http.StatusRequestEntityTooLarge, "Webhook Error: payload too large")
		}
		return c.String(http.StatusBadRequest, "Webhook Error: unreadable body")
	}

	err = h.webhookService.HandleWebhook(ctx, body, c.Request().Header.Get(stripeSignatureHeader))
	if errors.Is(err, service.ErrSignature) {
		slog.WarnContext(ctx, "rejected webhook", "error", err)
		return c.String(http.StatusBadRequest, fmt.Sprintf("Webhook Error: %v", err))
	}
	if err != nil {
		// HandleWebhook only fails on authentication; anything else is still acknowledged
		slog.ErrorContext(ctx, "handle webhook", "error", err)
	}

	return c.JSON(http.StatusOK, dto.WebhookAck{Received: true})
}
