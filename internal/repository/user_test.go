package repository

import (
	"context"
	"testing"

	"storefront-order-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_ClearCart(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.User{
		ID:        "user-1",
		Email:     "a@example.com",
		CartItems: model.CartItems{"prod_apple": 2, "prod_milk": 1},
	}).Error)

	user := loadUser(t, db, "user-1")
	assert.Len(t, user.CartItems, 2)

	require.NoError(t, repo.ClearCart(ctx, "user-1"))
	require.NoError(t, repo.ClearCart(ctx, "user-1"))

	user = loadUser(t, db, "user-1")
	assert.NotNil(t, user.CartItems)
	assert.Empty(t, user.CartItems)
}

func TestUserRepository_ClearCart_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	err := repo.ClearCart(context.Background(), "ghost")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestWebhookEventRepository_MarkProcessed(t *testing.T) {
	db := newTestDB(t)
	repo := NewWebhookEventRepository(db)
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.MarkProcessed(ctx, "evt_1", model.EventCheckoutSessionCompleted))
	// a second record of the same event is absorbed
	require.NoError(t, repo.MarkProcessed(ctx, "evt_1", model.EventCheckoutSessionCompleted))

	exists, err = repo.Exists(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProductRepository_SeedIsRepeatable(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx))
	require.NoError(t, repo.Seed(ctx))

	var count int64
	require.NoError(t, db.Model(&model.Product{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	apple, err := repo.FindByID(ctx, "prod_apple")
	require.NoError(t, err)
	assert.EqualValues(t, 110, apple.OfferPrice)

	_, err = repo.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
