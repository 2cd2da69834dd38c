package models

import (
	"time"

	"github.com/google/uuid"
)

// ClaimedVoucher is a ledger entry reserving one use of a voucher for a
// profile. Rows are never deleted; expiry is computed from the voucher
// window and Used flips true exactly once, at the order submission that
// consumed the claim. RequestID makes claim replays idempotent per
// (voucher, profile, request).
type ClaimedVoucher struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	VoucherID uuid.UUID  `gorm:"column:voucher_id;type:uuid;not null;index;uniqueIndex:ux_claimed_vouchers_request,priority:1"`
	ProfileID uuid.UUID  `gorm:"column:profile_id;type:uuid;not null;index;uniqueIndex:ux_claimed_vouchers_request,priority:2"`
	RequestID string     `gorm:"column:request_id;not null;uniqueIndex:ux_claimed_vouchers_request,priority:3"`
	ClaimedAt time.Time  `gorm:"column:claimed_at;not null;autoCreateTime"`
	Used      bool       `gorm:"column:used;not null;default:false"`
	UsedAt    *time.Time `gorm:"column:used_at"`
}
