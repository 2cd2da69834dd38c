package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/minhtdo/vietcart-backend/pkg/enums"
)

// FlashSaleItem attaches a product to a flash sale with its discount terms.
// DiscountValue is a percent for percentage items and whole VND otherwise.
type FlashSaleItem struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	FlashSaleID   uuid.UUID          `gorm:"column:flash_sale_id;type:uuid;not null;index"`
	ProductID     uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue int64              `gorm:"column:discount_value;not null"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}
