package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"storefront-order-service/internal/model"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// MaxProductTTL bounds how long a cached price can lag the catalogue. Orders
// are priced from this cache, so entries must stay short-lived.
const MaxProductTTL = 30 * time.Second

type ProductSource interface {
	FindByID(ctx context.Context, productID string) (*model.Product, error)
}

// ProductCache is a read-through cache of products keyed by id. Redis failures
// degrade to the underlying source. Entries expire after the configured TTL,
// clamped to MaxProductTTL, plus up to 10% jitter.
type ProductCache struct {
	client  *redis.Client
	source  ProductSource
	baseTTL time.Duration
}

func NewProductCache(client *redis.Client, source ProductSource, ttl time.Duration) *ProductCache {
	if ttl <= 0 || ttl > MaxProductTTL {
		ttl = MaxProductTTL
	}
	return &ProductCache{
		client:  client,
		source:  source,
		baseTTL: ttl,
	}
}

func (c *ProductCache) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	product, err := c.get(ctx, productID)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		slog.WarnContext(ctx, "product cache read failed", "product_id", productID, "error", err)
	}

	product, err = c.source.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := c.set(ctx, product); err != nil {
		slog.WarnContext(ctx, "product cache write failed", "product_id", productID, "error", err)
	}

	return product, nil
}

func (c *ProductCache) get(ctx context.Context, productID string) (*model.Product, error) {
	data, err := c.client.Get(ctx, cacheKey(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var product model.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("unmarshal product failed: %w", err)
	}

	return &product, nil
}

func (c *ProductCache) set(ctx context.Context, product *model.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}

	jitter := time.Duration(rand.Int63n(int64(c.baseTTL/10) + 1))
	if err := c.client.Set(ctx, cacheKey(product.ID), data, c.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cacheKey(productID string) string {
	return fmt.Sprintf("product:%s", productID)
}
