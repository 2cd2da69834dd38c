package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog entry promotions resolve against. Pricing lives on
// the variants; a product with no variants has no displayable price.
type Product struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;not null"`
	SupplierID uuid.UUID `gorm:"column:supplier_id;type:uuid;not null"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID"`
}
