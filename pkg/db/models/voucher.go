package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/minhtdo/vietcart-backend/pkg/enums"
	"github.com/minhtdo/vietcart-backend/pkg/types"
)

// Voucher is a claim-limited discount instrument. Exactly one of
// DiscountPercent / DiscountAmount drives the computation; resolution into a
// tagged DiscountSpec happens in the vouchers package. Empty applicable
// lists mean the voucher covers the whole catalog.
type Voucher struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Code                 string              `gorm:"column:code;not null;uniqueIndex"`
	Title                string              `gorm:"column:title;not null"`
	VoucherType          enums.VoucherType   `gorm:"column:voucher_type;not null"`
	DiscountPercent      *int64              `gorm:"column:discount_percent"`
	DiscountAmount       *int64              `gorm:"column:discount_amount"`
	MinOrderAmount       int64               `gorm:"column:min_order_amount;not null;default:0"`
	MaxDiscountAmount    int64               `gorm:"column:max_discount_amount;not null;default:0"`
	CreatorType          enums.CreatorType   `gorm:"column:creator_type;not null"`
	CreatorID            *uuid.UUID          `gorm:"column:creator_id;type:uuid"`
	ApplicableProducts   types.UUIDList      `gorm:"column:applicable_products;type:jsonb"`
	ApplicableCategories types.UUIDList      `gorm:"column:applicable_categories;type:jsonb"`
	ApplicablePayment    enums.PaymentMethod `gorm:"column:applicable_payment;not null;default:'all'"`
	StartDate            time.Time           `gorm:"column:start_date;not null"`
	EndDate              time.Time           `gorm:"column:end_date;not null"`
	TotalQuantity        int                 `gorm:"column:total_quantity;not null"`
	ClaimedCount         int                 `gorm:"column:claimed_count;not null;default:0"`
	PerUserLimit         int                 `gorm:"column:per_user_limit;not null;default:1"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// InWindow reports whether now falls inside [StartDate, EndDate).
func (v Voucher) InWindow(now time.Time) bool {
	return !now.Before(v.StartDate) && now.Before(v.EndDate)
}
