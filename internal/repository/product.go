package repository

import (
	"context"
	"storefront-order-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{ID: "prod_potato", Name: "Potato 500g", Category: "Vegetables", Price: 25, OfferPrice: 20, InStock: true},
		{ID: "prod_apple", Name: "Apple 1kg", Category: "Fruits", Price: 120, OfferPrice: 110, InStock: true},
		{ID: "prod_milk", Name: "Amul Milk 1L", Category: "Dairy", Price: 60, OfferPrice: 55, InStock: true},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}
