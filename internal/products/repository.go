package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhtdo/vietcart-backend/pkg/db/models"
)

// Repository loads catalog read models for promotion resolution.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed catalog repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// MinVariantPrice returns the lowest variant price in natural variant order.
// ok is false when the product has no variants, the contact-for-price case.
func MinVariantPrice(variants []models.ProductVariant) (price int64, ok bool) {
	if len(variants) == 0 {
		return 0, false
	}
	price = variants[0].PriceVND
	for _, variant := range variants[1:] {
		if variant.PriceVND < price {
			price = variant.PriceVND
		}
	}
	return price, true
}
