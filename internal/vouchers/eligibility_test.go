package vouchers

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	"github.com/minhtdo/vietcart-backend/pkg/enums"
	"github.com/minhtdo/vietcart-backend/pkg/types"
)

func int64Ptr(v int64) *int64 { return &v }

func baseVoucher(now time.Time) *models.Voucher {
	return &models.Voucher{
		ID:                uuid.New(),
		Code:              "FREESHIP50",
		Title:             "Giam 50k phi ship",
		VoucherType:       enums.VoucherTypeMerchandise,
		ApplicablePayment: enums.PaymentMethodAll,
		StartDate:         now.Add(-24 * time.Hour),
		EndDate:           now.Add(24 * time.Hour),
		TotalQuantity:     100,
		PerUserLimit:      1,
	}
}

func unusedClaim(voucherID uuid.UUID) *models.ClaimedVoucher {
	return &models.ClaimedVoucher{
		ID:        uuid.New(),
		VoucherID: voucherID,
		ProfileID: uuid.New(),
		RequestID: uuid.NewString(),
	}
}

func TestEvaluateShippingVoucherCappedAtFee(t *testing.T) {
	t.Parallel()

	now := time.Now()
	voucher := baseVoucher(now)
	voucher.VoucherType = enums.VoucherTypeShipping
	voucher.DiscountAmount = int64Ptr(50000)

	decision := Evaluate(EvalInput{
		Voucher:     voucher,
		Claim:       unusedClaim(voucher.ID),
		Now:         now,
		Subtotal:    300000,
		ShippingFee: 20000,
		Payment:     enums.PaymentMethodCOD,
	})
	if !decision.Eligible {
		t.Fatalf("expected eligible, got reason %s", decision.Reason)
	}
	// min(50000, 20000)
	if decision.Discount != 20000 {
		t.Fatalf("expected discount 20000, got %d", decision.Discount)
	}
}

func TestEvaluatePercentageCappedAtMaxDiscount(t *testing.T) {
	t.Parallel()

	now := time.Now()
	voucher := baseVoucher(now)
	voucher.DiscountPercent = int64Ptr(10)
	voucher.MaxDiscountAmount = 30000

	decision := Evaluate(EvalInput{
		Voucher:  voucher,
		Claim:    unusedClaim(voucher.ID),
		Now:      now,
		Subtotal: 500000,
		Payment:  enums.PaymentMethodWallet,
	})
	if !decision.Eligible {
		t.Fatalf("expected eligible, got reason %s", decision.Reason)
	}
	// 10% of 500000 is 50000, capped at 30000.
	if decision.Discount != 30000 {
		t.Fatalf("expected capped discount 30000, got %d", decision.Discount)
	}
}

func TestEvaluateReasonOrder(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name   string
		mutate func(*EvalInput)
		reason enums.EligibilityReason
	}{
		{
			name: "expired wins over everything",
			mutate: func(in *EvalInput) {
				in.Voucher.EndDate = now.Add(-time.Hour)
				in.Claim = nil
				in.Subtotal = 0
			},
			reason: enums.ReasonExpired,
		},
		{
			name: "not claimed before used",
			mutate: func(in *EvalInput) {
				in.Claim = nil
				in.Subtotal = 0
			},
			reason: enums.ReasonNotClaimed,
		},
		{
			name: "already used before scope",
			mutate: func(in *EvalInput) {
				in.Claim.Used = true
				in.Voucher.ApplicableProducts = types.UUIDList{uuid.New()}
			},
			reason: enums.ReasonAlreadyUsed,
		},
		{
			name: "scope before payment",
			mutate: func(in *EvalInput) {
				in.Voucher.ApplicableProducts = types.UUIDList{uuid.New()}
				in.Voucher.ApplicablePayment = enums.PaymentMethodWallet
				in.Payment = enums.PaymentMethodCOD
			},
			reason: enums.ReasonScopeMismatch,
		},
		{
			name: "payment before min order",
			mutate: func(in *EvalInput) {
				in.Voucher.ApplicablePayment = enums.PaymentMethodWallet
				in.Payment = enums.PaymentMethodCOD
				in.Voucher.MinOrderAmount = 1000000
			},
			reason: enums.ReasonPaymentMismatch,
		},
		{
			name: "below min order last",
			mutate: func(in *EvalInput) {
				in.Voucher.MinOrderAmount = 1000000
			},
			reason: enums.ReasonBelowMinOrder,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			voucher := baseVoucher(now)
			voucher.DiscountAmount = int64Ptr(10000)
			in := EvalInput{
				Voucher:  voucher,
				Claim:    unusedClaim(voucher.ID),
				Now:      now,
				Subtotal: 200000,
				Payment:  enums.PaymentMethodCOD,
			}
			tc.mutate(&in)

			decision := Evaluate(in)
			if decision.Eligible {
				t.Fatal("expected ineligible")
			}
			if decision.Reason != tc.reason {
				t.Fatalf("expected reason %s, got %s", tc.reason, decision.Reason)
			}
			if decision.Discount != 0 {
				t.Fatalf("ineligible decision must carry no discount, got %d", decision.Discount)
			}
		})
	}
}

func TestEvaluateScopeByCategory(t *testing.T) {
	t.Parallel()

	now := time.Now()
	category := uuid.New()
	voucher := baseVoucher(now)
	voucher.DiscountAmount = int64Ptr(15000)
	voucher.ApplicableCategories = types.UUIDList{category}

	in := EvalInput{
		Voucher:     voucher,
		Claim:       unusedClaim(voucher.ID),
		Now:         now,
		Subtotal:    100000,
		Payment:     enums.PaymentMethodCOD,
		ProductIDs:  []uuid.UUID{uuid.New()},
		CategoryIDs: []uuid.UUID{category},
	}
	decision := Evaluate(in)
	if !decision.Eligible || decision.Discount != 15000 {
		t.Fatalf("expected eligible with 15000, got %+v", decision)
	}

	in.CategoryIDs = []uuid.UUID{uuid.New()}
	decision = Evaluate(in)
	if decision.Eligible || decision.Reason != enums.ReasonScopeMismatch {
		t.Fatalf("expected scope mismatch, got %+v", decision)
	}
}

func TestEvaluateDiscountNeverExceedsSubtotal(t *testing.T) {
	t.Parallel()

	now := time.Now()
	voucher := baseVoucher(now)
	voucher.DiscountAmount = int64Ptr(500000)

	decision := Evaluate(EvalInput{
		Voucher:  voucher,
		Claim:    unusedClaim(voucher.ID),
		Now:      now,
		Subtotal: 80000,
		Payment:  enums.PaymentMethodCOD,
	})
	if !decision.Eligible || decision.Discount != 80000 {
		t.Fatalf("expected discount clamped to subtotal, got %+v", decision)
	}
}

func TestSpecForPercentWinsOverAmount(t *testing.T) {
	t.Parallel()

	voucher := &models.Voucher{
		DiscountPercent:   int64Ptr(20),
		DiscountAmount:    int64Ptr(5000),
		MaxDiscountAmount: 100000,
	}
	spec := SpecFor(voucher)
	if spec.Type != enums.DiscountTypePercentage || spec.Value != 20 || spec.Cap != 100000 {
		t.Fatalf("unexpected spec %+v", spec)
	}
	if got := spec.Apply(100000); got != 20000 {
		t.Fatalf("expected 20000, got %d", got)
	}
}
