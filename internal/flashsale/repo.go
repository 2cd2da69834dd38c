package flashsale

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/minhtdo/vietcart-backend/pkg/db/models"
)

type Repository interface {
	// ListActive returns the flash sales whose window contains now, items
	// preloaded, soonest-ending first.
	ListActive(ctx context.Context, now time.Time) ([]models.FlashSale, error)
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) ListActive(ctx context.Context, now time.Time) ([]models.FlashSale, error) {
	var sales []models.FlashSale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("start_time <= ? AND end_time > ?", now, now).
		Order("end_time ASC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}
