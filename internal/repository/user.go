package repository

import (
	"context"
	"storefront-order-service/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository interface {
	ClearCart(ctx context.Context, userID string) error
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{
		db: db,
	}
}

// ClearCart overwrites the cart snapshot with an empty map. Repeating it is harmless.
func (r *userRepoImpl) ClearCart(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"cart_items": model.CartItems{},
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
