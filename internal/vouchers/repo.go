package vouchers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	"github.com/minhtdo/vietcart-backend/pkg/pagination"
)

// Repository reads the voucher catalog and the claim ledger.
type Repository interface {
	// ListOpen returns vouchers whose window contains now, soonest-closing
	// first. Exhausted vouchers are included so clients can render them as
	// sold out.
	ListOpen(ctx context.Context, now time.Time) ([]models.Voucher, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Voucher, error)
	// ListClaimsByProfile returns every ledger row for the profile, newest
	// claim first.
	ListClaimsByProfile(ctx context.Context, profileID uuid.UUID) ([]models.ClaimedVoucher, error)
	// PageClaimsByProfile walks the ledger newest first, returning at most
	// limit rows strictly before the cursor position.
	PageClaimsByProfile(ctx context.Context, profileID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ClaimedVoucher, error)
	FindClaim(ctx context.Context, id uuid.UUID) (*models.ClaimedVoucher, error)
	// FindClaimByRequest returns the claim a request id committed, or nil
	// when the request never went through.
	FindClaimByRequest(ctx context.Context, voucherID, profileID uuid.UUID, requestID string) (*models.ClaimedVoucher, error)
	// FindUsableClaim returns the oldest unused claim the profile holds on
	// the voucher, or nil when there is none.
	FindUsableClaim(ctx context.Context, voucherID, profileID uuid.UUID) (*models.ClaimedVoucher, error)
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

func (r *repository) ListOpen(ctx context.Context, now time.Time) ([]models.Voucher, error) {
	var vouchers []models.Voucher
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date > ?", now, now).
		Order("end_date ASC").
		Find(&vouchers).Error
	if err != nil {
		return nil, err
	}
	return vouchers, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.db.WithContext(ctx).First(&voucher, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *repository) ListClaimsByProfile(ctx context.Context, profileID uuid.UUID) ([]models.ClaimedVoucher, error) {
	var claims []models.ClaimedVoucher
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("claimed_at DESC").
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *repository) PageClaimsByProfile(ctx context.Context, profileID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ClaimedVoucher, error) {
	q := r.db.WithContext(ctx).Where("profile_id = ?", profileID)
	if cursor != nil {
		q = q.Where("claimed_at < ? OR (claimed_at = ? AND id < ?)", cursor.Before, cursor.Before, cursor.BeforeID)
	}

	var claims []models.ClaimedVoucher
	err := q.Order("claimed_at DESC, id DESC").
		Limit(limit).
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *repository) FindClaim(ctx context.Context, id uuid.UUID) (*models.ClaimedVoucher, error) {
	var claim models.ClaimedVoucher
	if err := r.db.WithContext(ctx).First(&claim, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *repository) FindClaimByRequest(ctx context.Context, voucherID, profileID uuid.UUID, requestID string) (*models.ClaimedVoucher, error) {
	var claim models.ClaimedVoucher
	err := r.db.WithContext(ctx).
		First(&claim, "voucher_id = ? AND profile_id = ? AND request_id = ?", voucherID, profileID, requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

func (r *repository) FindUsableClaim(ctx context.Context, voucherID, profileID uuid.UUID) (*models.ClaimedVoucher, error) {
	var claim models.ClaimedVoucher
	err := r.db.WithContext(ctx).
		Where("voucher_id = ? AND profile_id = ? AND used = ?", voucherID, profileID, false).
		Order("claimed_at ASC").
		First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}
