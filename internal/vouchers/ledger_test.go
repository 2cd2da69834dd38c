package vouchers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	"github.com/minhtdo/vietcart-backend/pkg/enums"
	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:vouchers_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Voucher{}, &models.ClaimedVoucher{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// serializeWrites pins the pool to one connection so racing goroutines
// contend in Go while sqlite's single writer never returns SQLITE_BUSY.
func serializeWrites(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
}

func seedVoucher(t *testing.T, db *gorm.DB, mutate func(*models.Voucher)) models.Voucher {
	t.Helper()
	now := time.Now()
	voucher := models.Voucher{
		ID:                uuid.New(),
		Code:              "TET" + uuid.NewString()[:8],
		Title:             "Tet sale",
		VoucherType:       enums.VoucherTypeMerchandise,
		ApplicablePayment: enums.PaymentMethodAll,
		StartDate:         now.Add(-time.Hour),
		EndDate:           now.Add(time.Hour),
		TotalQuantity:     10,
		PerUserLimit:      1,
	}
	if mutate != nil {
		mutate(&voucher)
	}
	if err := db.Create(&voucher).Error; err != nil {
		t.Fatalf("seed voucher: %v", err)
	}
	return voucher
}

func TestClaimVoucher(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	voucher := seedVoucher(t, db, nil)
	profile := uuid.New()
	now := time.Now()

	result, err := ClaimVoucher(ctx, db, voucher.ID, profile, "req-1", now)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if result.Status != enums.ClaimStatusClaimed || result.Claim == nil {
		t.Fatalf("unexpected result %+v", result)
	}

	var stored models.Voucher
	if err := db.First(&stored, "id = ?", voucher.ID).Error; err != nil {
		t.Fatalf("reload voucher: %v", err)
	}
	if stored.ClaimedCount != 1 {
		t.Fatalf("expected claimed count 1, got %d", stored.ClaimedCount)
	}
}

func TestClaimVoucherReplayIsIdempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	voucher := seedVoucher(t, db, nil)
	profile := uuid.New()
	now := time.Now()

	first, err := ClaimVoucher(ctx, db, voucher.ID, profile, "req-dup", now)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	second, err := ClaimVoucher(ctx, db, voucher.ID, profile, "req-dup", now)
	if err != nil {
		t.Fatalf("replay claim: %v", err)
	}
	if second.Status != enums.ClaimStatusClaimed {
		t.Fatalf("expected claimed on replay, got %s", second.Status)
	}
	if second.Claim.ID != first.Claim.ID {
		t.Fatal("replay must return the original claim")
	}

	var stored models.Voucher
	if err := db.First(&stored, "id = ?", voucher.ID).Error; err != nil {
		t.Fatalf("reload voucher: %v", err)
	}
	if stored.ClaimedCount != 1 {
		t.Fatalf("replay must not burn quota, claimed count %d", stored.ClaimedCount)
	}
}

func TestClaimVoucherPerUserLimit(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	voucher := seedVoucher(t, db, nil)
	profile := uuid.New()
	now := time.Now()

	if _, err := ClaimVoucher(ctx, db, voucher.ID, profile, "req-a", now); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	result, err := ClaimVoucher(ctx, db, voucher.ID, profile, "req-b", now)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if result.Status != enums.ClaimStatusAlreadyClaimed {
		t.Fatalf("expected already claimed, got %s", result.Status)
	}

	var stored models.Voucher
	if err := db.First(&stored, "id = ?", voucher.ID).Error; err != nil {
		t.Fatalf("reload voucher: %v", err)
	}
	if stored.ClaimedCount != 1 {
		t.Fatalf("limit hit must hand the reserved unit back, claimed count %d", stored.ClaimedCount)
	}

	var ledgerRows int64
	if err := db.Model(&models.ClaimedVoucher{}).Where("voucher_id = ? AND profile_id = ?", voucher.ID, profile).Count(&ledgerRows).Error; err != nil {
		t.Fatalf("count claims: %v", err)
	}
	if ledgerRows != 1 {
		t.Fatalf("expected 1 ledger row, got %d", ledgerRows)
	}
}

func TestClaimVoucherLastOneWins(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	voucher := seedVoucher(t, db, func(v *models.Voucher) {
		v.TotalQuantity = 1
	})
	now := time.Now()

	first, err := ClaimVoucher(ctx, db, voucher.ID, uuid.New(), "req-p1", now)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	second, err := ClaimVoucher(ctx, db, voucher.ID, uuid.New(), "req-p2", now)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}

	if first.Status != enums.ClaimStatusClaimed {
		t.Fatalf("expected first claim to win, got %s", first.Status)
	}
	if second.Status != enums.ClaimStatusOutOfStock {
		t.Fatalf("expected out of stock, got %s", second.Status)
	}

	var stored models.Voucher
	if err := db.First(&stored, "id = ?", voucher.ID).Error; err != nil {
		t.Fatalf("reload voucher: %v", err)
	}
	if stored.ClaimedCount != 1 {
		t.Fatalf("quota must never exceed total, claimed count %d", stored.ClaimedCount)
	}
}

func TestClaimVoucherConcurrentQuota(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	serializeWrites(t, db)
	ctx := context.Background()
	voucher := seedVoucher(t, db, func(v *models.Voucher) {
		v.TotalQuantity = 1
		v.PerUserLimit = 1
	})
	now := time.Now()

	const claimers = 8
	statuses := make(chan enums.ClaimStatus, claimers)
	var wg sync.WaitGroup
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			var result *ClaimResult
			err := db.Transaction(func(tx *gorm.DB) error {
				var txErr error
				result, txErr = ClaimVoucher(ctx, tx, voucher.ID, uuid.New(), fmt.Sprintf("req-race-%d", n), now)
				return txErr
			})
			if err != nil {
				t.Errorf("claimer %d: %v", n, err)
				return
			}
			statuses <- result.Status
		}(i)
	}
	wg.Wait()
	close(statuses)

	var won, starved int
	for status := range statuses {
		switch status {
		case enums.ClaimStatusClaimed:
			won++
		case enums.ClaimStatusOutOfStock:
			starved++
		default:
			t.Fatalf("unexpected status %s", status)
		}
	}
	if won != 1 || starved != claimers-1 {
		t.Fatalf("expected exactly one winner, got %d claimed / %d out of stock", won, starved)
	}

	var stored models.Voucher
	if err := db.First(&stored, "id = ?", voucher.ID).Error; err != nil {
		t.Fatalf("reload voucher: %v", err)
	}
	if stored.ClaimedCount != 1 {
		t.Fatalf("quota must never exceed total, claimed count %d", stored.ClaimedCount)
	}
}

func TestClaimVoucherConcurrentPerUserLimit(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	serializeWrites(t, db)
	ctx := context.Background()
	voucher := seedVoucher(t, db, func(v *models.Voucher) {
		v.TotalQuantity = 10
		v.PerUserLimit = 1
	})
	profile := uuid.New()
	now := time.Now()

	const claimers = 6
	statuses := make(chan enums.ClaimStatus, claimers)
	var wg sync.WaitGroup
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			var result *ClaimResult
			err := db.Transaction(func(tx *gorm.DB) error {
				var txErr error
				result, txErr = ClaimVoucher(ctx, tx, voucher.ID, profile, fmt.Sprintf("req-limit-%d", n), now)
				return txErr
			})
			if err != nil {
				t.Errorf("claimer %d: %v", n, err)
				return
			}
			statuses <- result.Status
		}(i)
	}
	wg.Wait()
	close(statuses)

	var won int
	for status := range statuses {
		switch status {
		case enums.ClaimStatusClaimed:
			won++
		case enums.ClaimStatusAlreadyClaimed:
		default:
			t.Fatalf("unexpected status %s", status)
		}
	}
	if won != 1 {
		t.Fatalf("per-user limit breached, %d claims went through", won)
	}

	var ledgerRows int64
	if err := db.Model(&models.ClaimedVoucher{}).Where("voucher_id = ? AND profile_id = ?", voucher.ID, profile).Count(&ledgerRows).Error; err != nil {
		t.Fatalf("count claims: %v", err)
	}
	if ledgerRows != 1 {
		t.Fatalf("expected 1 ledger row for the profile, got %d", ledgerRows)
	}

	var stored models.Voucher
	if err := db.First(&stored, "id = ?", voucher.ID).Error; err != nil {
		t.Fatalf("reload voucher: %v", err)
	}
	if stored.ClaimedCount != 1 {
		t.Fatalf("rejected claims must hand quota back, claimed count %d", stored.ClaimedCount)
	}
}

func TestClaimVoucherOutsideWindow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	voucher := seedVoucher(t, db, func(v *models.Voucher) {
		v.EndDate = time.Now().Add(-time.Minute)
	})

	_, err := ClaimVoucher(ctx, db, voucher.ID, uuid.New(), "req-late", time.Now())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestClaimVoucherMissingRequestID(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	_, err := ClaimVoucher(context.Background(), db, uuid.New(), uuid.New(), "", time.Now())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkUsedFlipsOnce(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	voucher := seedVoucher(t, db, nil)
	now := time.Now()

	result, err := ClaimVoucher(ctx, db, voucher.ID, uuid.New(), "req-use", now)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	if err := MarkUsed(ctx, db, result.Claim.ID, now); err != nil {
		t.Fatalf("mark used: %v", err)
	}

	var stored models.ClaimedVoucher
	if err := db.First(&stored, "id = ?", result.Claim.ID).Error; err != nil {
		t.Fatalf("reload claim: %v", err)
	}
	if !stored.Used || stored.UsedAt == nil {
		t.Fatalf("expected used claim, got %+v", stored)
	}

	err = MarkUsed(ctx, db, result.Claim.ID, now)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on reuse, got %v", err)
	}
}

func TestMarkUsedNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	err := MarkUsed(context.Background(), db, uuid.New(), time.Now())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
