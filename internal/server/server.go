package server

import (
	"context"
	"net/http"
	"storefront-order-service/internal/config"
	"storefront-order-service/internal/handler"
	authmw "storefront-order-service/internal/middleware"
	"storefront-order-service/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type Server struct {
	echo           *echo.Echo
	orderHandler   *handler.OrderHandler
	webhookHandler *handler.WebhookHandler
	jwtSecret      []byte
	placeLimit     rate.Limit
}

func NewServer(
	cfg *config.Config,
	orderService service.OrderService,
	queryService service.OrderQueryService,
	webhookService service.WebhookService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.AllowedOrigins,
		AllowCredentials: len(cfg.HTTP.AllowedOrigins) > 0,
	}))

	s := &Server{
		echo:           e,
		orderHandler:   handler.NewOrderHandler(orderService, queryService),
		webhookHandler: handler.NewWebhookHandler(webhookService),
		jwtSecret:      []byte(cfg.Auth.JWTSecret),
		placeLimit:     rate.Limit(cfg.RateLimit.PerSecond),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- orders --------
	order := api.Group("/order")
	limiter := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(s.placeLimit))
	authUser := authmw.AuthUser(s.jwtSecret)

	order.POST("/cod", s.orderHandler.PlaceOrderCOD, limiter, authUser)
	order.POST("/stripe", s.orderHandler.PlaceOrderStripe, limiter, authUser)
	order.GET("/user", s.orderHandler.UserOrders, authUser)
	order.GET("/seller", s.orderHandler.SellerOrders, authmw.AuthSeller(s.jwtSecret))

	// -------- stripe webhooks --------
	s.echo.POST("/stripe", s.webhookHandler.StripeWebhook)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
