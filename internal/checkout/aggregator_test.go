package checkout

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	"github.com/minhtdo/vietcart-backend/pkg/enums"
)

func int64Ptr(v int64) *int64 { return &v }

func testVoucher(voucherType enums.VoucherType, now time.Time) *models.Voucher {
	return &models.Voucher{
		ID:                uuid.New(),
		Code:              "AGG" + uuid.NewString()[:6],
		VoucherType:       voucherType,
		ApplicablePayment: enums.PaymentMethodAll,
		StartDate:         now.Add(-time.Hour),
		EndDate:           now.Add(time.Hour),
		TotalQuantity:     10,
		PerUserLimit:      1,
	}
}

func testClaim(voucherID uuid.UUID) *models.ClaimedVoucher {
	return &models.ClaimedVoucher{
		ID:        uuid.New(),
		VoucherID: voucherID,
		ProfileID: uuid.New(),
		RequestID: uuid.NewString(),
	}
}

func TestAggregateBareTotals(t *testing.T) {
	t.Parallel()

	result := Aggregate(Input{
		Lines: []Line{
			{ProductID: uuid.New(), Quantity: 2, UnitPrice: 150000},
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: 90000},
		},
		BaseShippingFee: 30000,
		Payment:         enums.PaymentMethodCOD,
		Now:             time.Now(),
	})

	require.Equal(t, int64(390000), result.Totals.Subtotal)
	require.Equal(t, int64(30000), result.Totals.ShippingFee)
	require.Equal(t, int64(420000), result.Totals.GrandTotal)
	require.Nil(t, result.Merchandise)
	require.Nil(t, result.Shipping)
}

func TestAggregateEmptyDraftHasNoShipping(t *testing.T) {
	t.Parallel()

	result := Aggregate(Input{BaseShippingFee: 30000, Now: time.Now()})
	require.Zero(t, result.Totals.Subtotal)
	require.Zero(t, result.Totals.ShippingFee)
	require.Zero(t, result.Totals.GrandTotal)
}

func TestAggregateShippingVoucherZeroesFee(t *testing.T) {
	t.Parallel()

	now := time.Now()
	voucher := testVoucher(enums.VoucherTypeShipping, now)
	voucher.DiscountAmount = int64Ptr(40000)

	result := Aggregate(Input{
		Lines:           []Line{{ProductID: uuid.New(), Quantity: 1, UnitPrice: 500000}},
		Shipping:        &SelectedVoucher{Voucher: voucher, Claim: testClaim(voucher.ID)},
		BaseShippingFee: 40000,
		Payment:         enums.PaymentMethodCOD,
		Now:             now,
	})

	require.True(t, result.Shipping.Eligible)
	require.Equal(t, int64(40000), result.Totals.ShippingDiscount)
	require.Equal(t, int64(500000), result.Totals.GrandTotal)
}

func TestAggregateBothVoucherSlots(t *testing.T) {
	t.Parallel()

	now := time.Now()
	merch := testVoucher(enums.VoucherTypeMerchandise, now)
	merch.DiscountPercent = int64Ptr(10)
	merch.MaxDiscountAmount = 25000
	ship := testVoucher(enums.VoucherTypeShipping, now)
	ship.DiscountAmount = int64Ptr(15000)

	result := Aggregate(Input{
		Lines:           []Line{{ProductID: uuid.New(), Quantity: 2, UnitPrice: 200000}},
		Merchandise:     &SelectedVoucher{Voucher: merch, Claim: testClaim(merch.ID)},
		Shipping:        &SelectedVoucher{Voucher: ship, Claim: testClaim(ship.ID)},
		BaseShippingFee: 30000,
		Payment:         enums.PaymentMethodWallet,
		Now:             now,
	})

	// 10% of 400000 is 40000, capped at 25000.
	require.Equal(t, int64(25000), result.Totals.MerchandiseDiscount)
	require.Equal(t, int64(15000), result.Totals.ShippingDiscount)
	require.Equal(t, int64(400000+30000-25000-15000), result.Totals.GrandTotal)
}

func TestAggregateIneligibleVoucherContributesNothing(t *testing.T) {
	t.Parallel()

	now := time.Now()
	voucher := testVoucher(enums.VoucherTypeMerchandise, now)
	voucher.DiscountAmount = int64Ptr(50000)
	voucher.MinOrderAmount = 1000000

	result := Aggregate(Input{
		Lines:           []Line{{ProductID: uuid.New(), Quantity: 1, UnitPrice: 100000}},
		Merchandise:     &SelectedVoucher{Voucher: voucher, Claim: testClaim(voucher.ID)},
		BaseShippingFee: 30000,
		Payment:         enums.PaymentMethodCOD,
		Now:             now,
	})

	require.NotNil(t, result.Merchandise)
	require.False(t, result.Merchandise.Eligible)
	require.Equal(t, enums.ReasonBelowMinOrder, result.Merchandise.Reason)
	require.Zero(t, result.Totals.MerchandiseDiscount)
	require.Equal(t, int64(130000), result.Totals.GrandTotal)
}

func TestAggregateIsIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Now()
	voucher := testVoucher(enums.VoucherTypeMerchandise, now)
	voucher.DiscountPercent = int64Ptr(5)

	input := Input{
		Lines:           []Line{{ProductID: uuid.New(), Quantity: 3, UnitPrice: 120000}},
		Merchandise:     &SelectedVoucher{Voucher: voucher, Claim: testClaim(voucher.ID)},
		BaseShippingFee: 30000,
		Payment:         enums.PaymentMethodCOD,
		Now:             now,
	}

	first := Aggregate(input)
	second := Aggregate(input)
	require.Equal(t, first, second)
}
