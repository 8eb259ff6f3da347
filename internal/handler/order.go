package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"storefront-order-service/internal/dto"
	"storefront-order-service/internal/middleware"
	"storefront-order-service/internal/pricing"
	"storefront-order-service/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
	queryService service.OrderQueryService
}

func NewOrderHandler(orderService service.OrderService, queryService service.OrderQueryService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		queryService: queryService,
	}
}

// PlaceOrderCOD : POST /api/order/cod
func (h *OrderHandler) PlaceOrderCOD(c echo.Context) error {
	ctx := c.Request().Context()

	in, err := bindPlaceOrder(c)
	if err != nil {
		return respondError(c, err)
	}

	if _, err := h.orderService.PlaceOrderCOD(ctx, in); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.Response{
		Success: true,
		Message: "Order Placed Successfully",
	})
}

// PlaceOrderStripe : POST /api/order/stripe
func (h *OrderHandler) PlaceOrderStripe(c echo.Context) error {
	ctx := c.Request().Context()

	in, err := bindPlaceOrder(c)
	if err != nil {
		return respondError(c, err)
	}

	session, err := h.orderService.PlaceOrderOnline(ctx, in, requestOrigin(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.CheckoutResponse{
		Success: true,
		URL:     session.URL,
	})
}

// UserOrders : GET /api/order/user
func (h *OrderHandler) UserOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.queryService.ListForUser(ctx, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.OrdersResponse{
		Success: true,
		Orders:  orders,
	})
}

// SellerOrders : GET /api/order/seller
func (h *OrderHandler) SellerOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.queryService.ListForSeller(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.OrdersResponse{
		Success: true,
		Orders:  orders,
	})
}

// bindPlaceOrder decodes the request; the authenticated user wins over any userId in the body.
func bindPlaceOrder(c echo.Context) (*service.PlaceOrderInput, error) {
	var req dto.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return nil, service.ErrInvalidOrder
	}

	userID := middleware.UserID(c)
	if userID == "" {
		userID = req.UserID
	}

	items := make([]pricing.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item == nil {
			return nil, service.ErrInvalidOrder
		}
		items = append(items, pricing.LineItem{
			ProductID: item.Product,
			Quantity:  item.Quantity,
		})
	}

	return &service.PlaceOrderInput{
		UserID:    userID,
		Items:     items,
		AddressID: req.Address,
	}, nil
}

func requestOrigin(c echo.Context) string {
	if origin := c.Request().Header.Get(echo.HeaderOrigin); origin != "" {
		return origin
	}
	return c.Scheme() + "://" + c.Request().Host
}

// respondError maps service errors onto the uniform envelope without leaking internals.
func respondError(c echo.Context, err error) error {
	ctx := c.Request().Context()

	switch {
	case errors.Is(err, service.ErrInvalidOrder):
		return c.JSON(http.StatusOK, dto.Response{Success: false, Message: "Invalid Data"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusOK, dto.Response{Success: false, Message: "Product not found"})
	case errors.Is(err, service.ErrGateway):
		slog.ErrorContext(ctx, "payment gateway failure", "error", err)
		return c.JSON(http.StatusBadGateway, dto.Response{Success: false, Message: "Payment service unavailable, please try again"})
	default:
		slog.ErrorContext(ctx, "order request failed", "error", err)
		return c.JSON(http.StatusOK, dto.Response{Success: false, Message: "Something went wrong, please try again"})
	}
}
