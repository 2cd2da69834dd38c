package vouchers

import (
	"github.com/shopspring/decimal"

	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	"github.com/minhtdo/vietcart-backend/pkg/enums"
)

// DiscountSpec is the resolved discount of a voucher. Vouchers persist both a
// nullable percent and a nullable amount; the percent wins when both are set,
// so every voucher computes exactly one way.
type DiscountSpec struct {
	Type  enums.DiscountType
	Value int64
	// Cap bounds a percentage discount in VND. Zero means uncapped.
	Cap int64
}

var oneHundred = decimal.NewFromInt(100)

// SpecFor resolves the stored voucher columns into a single discount rule.
func SpecFor(voucher *models.Voucher) DiscountSpec {
	if voucher.DiscountPercent != nil && *voucher.DiscountPercent > 0 {
		return DiscountSpec{
			Type:  enums.DiscountTypePercentage,
			Value: *voucher.DiscountPercent,
			Cap:   voucher.MaxDiscountAmount,
		}
	}
	var amount int64
	if voucher.DiscountAmount != nil {
		amount = *voucher.DiscountAmount
	}
	return DiscountSpec{Type: enums.DiscountTypeAmount, Value: amount}
}

// Apply returns the VND discount this spec grants against base. The result
// never exceeds base, so applying it never drives a total negative.
func (d DiscountSpec) Apply(base int64) int64 {
	if base <= 0 || d.Value <= 0 {
		return 0
	}

	var discount int64
	switch d.Type {
	case enums.DiscountTypePercentage:
		percent := d.Value
		if percent > 100 {
			percent = 100
		}
		discount = decimal.NewFromInt(base).
			Mul(decimal.NewFromInt(percent)).
			Div(oneHundred).
			Round(0).
			IntPart()
		if d.Cap > 0 && discount > d.Cap {
			discount = d.Cap
		}
	case enums.DiscountTypeAmount:
		discount = d.Value
	}

	if discount > base {
		discount = base
	}
	return discount
}
