package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/minhtdo/vietcart-backend/internal/vouchers"
	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	"github.com/minhtdo/vietcart-backend/pkg/enums"
	"github.com/minhtdo/vietcart-backend/pkg/types"
)

// Line is one priced draft line. UnitPrice is the resolved display price,
// flash-sale discount already applied.
type Line struct {
	ProductID  uuid.UUID
	VariantID  uuid.UUID
	CategoryID uuid.UUID
	Quantity   int
	UnitPrice  int64
}

// SelectedVoucher pairs a voucher with the claim that would be spent on it.
type SelectedVoucher struct {
	Voucher *models.Voucher
	Claim   *models.ClaimedVoucher
}

// Input is everything the aggregation needs. It is a snapshot: Aggregate
// never reaches out to storage, so recomputing with the same input always
// yields the same totals.
type Input struct {
	Lines           []Line
	Merchandise     *SelectedVoucher
	Shipping        *SelectedVoucher
	BaseShippingFee int64
	Payment         enums.PaymentMethod
	Now             time.Time
}

// Result carries the totals and the per-voucher decisions. A selected but
// ineligible voucher contributes nothing to the totals; its decision says
// why.
type Result struct {
	Totals      types.Totals
	Merchandise *vouchers.Decision
	Shipping    *vouchers.Decision
}

// Aggregate recomputes the draft totals from scratch. Discounts are capped
// by their base inside evaluation, so the grand total cannot go negative.
func Aggregate(in Input) Result {
	var subtotal int64
	productIDs := make([]uuid.UUID, 0, len(in.Lines))
	categoryIDs := make([]uuid.UUID, 0, len(in.Lines))
	for _, line := range in.Lines {
		subtotal += line.UnitPrice * int64(line.Quantity)
		productIDs = append(productIDs, line.ProductID)
		categoryIDs = append(categoryIDs, line.CategoryID)
	}

	shippingFee := in.BaseShippingFee
	if len(in.Lines) == 0 {
		shippingFee = 0
	}

	result := Result{
		Totals: types.Totals{
			Subtotal:    subtotal,
			ShippingFee: shippingFee,
		},
	}

	evaluate := func(selected *SelectedVoucher) *vouchers.Decision {
		decision := vouchers.Evaluate(vouchers.EvalInput{
			Voucher:     selected.Voucher,
			Claim:       selected.Claim,
			Now:         in.Now,
			Subtotal:    subtotal,
			ShippingFee: shippingFee,
			Payment:     in.Payment,
			ProductIDs:  productIDs,
			CategoryIDs: categoryIDs,
		})
		return &decision
	}

	if in.Merchandise != nil {
		result.Merchandise = evaluate(in.Merchandise)
		if result.Merchandise.Eligible {
			result.Totals.MerchandiseDiscount = result.Merchandise.Discount
		}
	}
	if in.Shipping != nil {
		result.Shipping = evaluate(in.Shipping)
		if result.Shipping.Eligible {
			result.Totals.ShippingDiscount = result.Shipping.Discount
		}
	}

	result.Totals.GrandTotal = subtotal + shippingFee -
		result.Totals.MerchandiseDiscount - result.Totals.ShippingDiscount
	return result
}
