package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariant carries the sellable price point. Position fixes the
// natural variant order used for min-price tie breaking.
type ProductVariant struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	PriceVND     int64     `gorm:"column:price_vnd;not null"`
	QuantitySold int       `gorm:"column:quantity_sold;not null;default:0"`
	Position     int       `gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
