package vouchers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhtdo/vietcart-backend/pkg/db"
	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	"github.com/minhtdo/vietcart-backend/pkg/enums"
	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
)

// ClaimResult reports what a claim attempt did. Claimed covers both a fresh
// claim and an idempotent replay of the same request; AlreadyClaimed and
// OutOfStock are terminal outcomes, not errors.
type ClaimResult struct {
	Status enums.ClaimStatus
	Claim  *models.ClaimedVoucher
}

// ClaimVoucher reserves one use of a voucher for a profile inside tx. The
// quota decrement is a conditional update, so two concurrent claims on a
// one-left voucher serialize in the database and exactly one wins. A repeated
// requestID returns the original claim without touching the quota.
func ClaimVoucher(ctx context.Context, tx *gorm.DB, voucherID, profileID uuid.UUID, requestID string, now time.Time) (*ClaimResult, error) {
	if requestID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}

	var existing models.ClaimedVoucher
	err := tx.WithContext(ctx).
		First(&existing, "voucher_id = ? AND profile_id = ? AND request_id = ?", voucherID, profileID, requestID).Error
	if err == nil {
		return &ClaimResult{Status: enums.ClaimStatusClaimed, Claim: &existing}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to check claim replay")
	}

	var voucher models.Voucher
	if err := tx.WithContext(ctx).First(&voucher, "id = ?", voucherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load voucher")
	}
	if !voucher.InWindow(now) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "voucher is not claimable outside its window")
	}

	// The conditional update is the first write: it takes the voucher row
	// lock, so concurrent claims for the same profile serialize here and
	// the per-user count below never reads a stale ledger.
	res := tx.WithContext(ctx).Model(&models.Voucher{}).
		Where("id = ? AND claimed_count < total_quantity", voucherID).
		Updates(map[string]any{
			"claimed_count": gorm.Expr("claimed_count + 1"),
			"updated_at":    now,
		})
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "failed to reserve voucher quota")
	}
	if res.RowsAffected == 0 {
		return &ClaimResult{Status: enums.ClaimStatusOutOfStock}, nil
	}

	var claimCount int64
	err = tx.WithContext(ctx).Model(&models.ClaimedVoucher{}).
		Where("voucher_id = ? AND profile_id = ?", voucherID, profileID).
		Count(&claimCount).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count profile claims")
	}
	if claimCount >= int64(voucher.PerUserLimit) {
		// Hand the reserved unit back before reporting the limit.
		releaseErr := tx.WithContext(ctx).Model(&models.Voucher{}).
			Where("id = ?", voucherID).
			UpdateColumn("claimed_count", gorm.Expr("claimed_count - 1")).Error
		if releaseErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, releaseErr, "failed to release voucher quota")
		}
		return &ClaimResult{Status: enums.ClaimStatusAlreadyClaimed}, nil
	}

	claim := models.ClaimedVoucher{
		ID:        uuid.New(),
		VoucherID: voucherID,
		ProfileID: profileID,
		RequestID: requestID,
		ClaimedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&claim).Error; err != nil {
		if db.IsUniqueViolation(err, "ux_claimed_vouchers_request") {
			// Lost a race against the same request id. Roll the whole
			// attempt back; the retry will hit the replay path.
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "duplicate claim request")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record claim")
	}

	return &ClaimResult{Status: enums.ClaimStatusClaimed, Claim: &claim}, nil
}

// MarkUsed consumes a claim exactly once. The flip is conditional on
// used = false, so a replayed submission cannot spend the claim twice.
func MarkUsed(ctx context.Context, tx *gorm.DB, claimID uuid.UUID, now time.Time) error {
	res := tx.WithContext(ctx).Model(&models.ClaimedVoucher{}).
		Where("id = ? AND used = ?", claimID, false).
		Updates(map[string]any{
			"used":    true,
			"used_at": now,
		})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "failed to mark claim used")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var claim models.ClaimedVoucher
	if err := tx.WithContext(ctx).First(&claim, "id = ?", claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "voucher claim not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load voucher claim")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "voucher claim already used")
}
