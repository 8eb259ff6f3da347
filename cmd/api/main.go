package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"storefront-order-service/internal/cache"
	"storefront-order-service/internal/client"
	"storefront-order-service/internal/config"
	"storefront-order-service/internal/logger"
	"storefront-order-service/internal/pricing"
	"storefront-order-service/internal/repository"
	"storefront-order-service/internal/server"
	"storefront-order-service/internal/service"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	envErr := godotenv.Load()

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		slog.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	log := logger.Init(&cfg.Log)
	if envErr != nil {
		log.Info("no .env file found (ok in prod)")
	}
	if cfg.Stripe.SecretKey == "" || cfg.Stripe.WebhookSecret == "" || cfg.Auth.JWTSecret == "" {
		log.Warn("stripe or auth secrets are not configured")
	}

	ctx := context.Background()

	db, err := client.InitDatabase(&cfg.Database)
	if err != nil {
		log.Error("failed to init database", "error", err)
		os.Exit(1)
	}

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	if err := productRepo.Seed(ctx); err != nil {
		log.Error("failed to seed products", "error", err)
		os.Exit(1)
	}

	var products pricing.ProductResolver = productRepo
	rdb, err := client.InitRedisClient(ctx, &cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, product cache disabled", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
		products = cache.NewProductCache(rdb, productRepo, cfg.Redis.ProductTTL)
		log.Info("product cache enabled", "addr", cfg.Redis.Addr)
	}

	stripeClient := client.NewStripeClient(&cfg.Stripe, &cfg.Breaker)

	orderService := service.NewOrderService(
		products,
		orderRepo,
		service.NewCheckoutGateway(stripeClient, cfg.Stripe.Currency),
	)
	queryService := service.NewOrderQueryService(orderRepo)
	webhookService := service.NewWebhookService(
		stripeClient,
		orderRepo,
		userRepo,
		webhookEventRepo,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(cfg, orderService, queryService, webhookService)

	log.Info("starting HTTP server", "addr", serverAddr, "environment", cfg.Environment.Name)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
