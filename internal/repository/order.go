package repository

import (
	"context"
	"storefront-order-service/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettledFilter narrows FindSettled. An empty UserID matches every user.
type SettledFilter struct {
	UserID string
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	MarkPaid(ctx context.Context, orderID string) (bool, error)
	FindSettled(ctx context.Context, filter SettledFilter) ([]*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.IsPaid = false

	items := order.Items
	for i := range items {
		items[i].OrderID = order.ID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&items).Error
	})
}

// MarkPaid flips is_paid from false to true. It reports whether this call
// changed the row; repeating it on a paid order is a no-op.
func (r *orderRepoImpl) MarkPaid(ctx context.Context, orderID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND is_paid = ?", orderID, false).
		Updates(map[string]interface{}{
			"is_paid":    true,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, gorm.ErrRecordNotFound
	}

	return false, nil
}

func (r *orderRepoImpl) FindSettled(ctx context.Context, filter SettledFilter) ([]*model.Order, error) {
	var orders []*model.Order

	db := r.db.WithContext(ctx)
	query := db.
		Preload("Items.Product").
		Preload("Address").
		Where(db.Where("payment_type = ?", model.PaymentTypeCOD).Or("is_paid = ?", true))

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	err := query.Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}
