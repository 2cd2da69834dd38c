package vouchers

import (
	"time"

	"github.com/google/uuid"

	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	"github.com/minhtdo/vietcart-backend/pkg/enums"
)

// EvalInput is everything needed to decide whether one claimed voucher can
// apply to one order draft. Subtotal and ShippingFee are whole VND; the ID
// slices describe the draft's lines.
type EvalInput struct {
	Voucher     *models.Voucher
	Claim       *models.ClaimedVoucher
	Now         time.Time
	Subtotal    int64
	ShippingFee int64
	Payment     enums.PaymentMethod
	ProductIDs  []uuid.UUID
	CategoryIDs []uuid.UUID
}

// Decision is the outcome of an eligibility evaluation. Discount is zero
// unless Eligible; for shipping vouchers it is already capped at the fee.
type Decision struct {
	Eligible bool
	Reason   enums.EligibilityReason
	Discount int64
}

func ineligible(reason enums.EligibilityReason) Decision {
	return Decision{Reason: reason}
}

// Evaluate runs the eligibility checks in a fixed order so a voucher failing
// several ways always reports the same reason: window, claim state, product
// scope, payment scope, minimum order. An eligible decision carries the
// discount the voucher would grant right now.
func Evaluate(in EvalInput) Decision {
	voucher := in.Voucher

	if !voucher.InWindow(in.Now) {
		return ineligible(enums.ReasonExpired)
	}
	if in.Claim == nil {
		return ineligible(enums.ReasonNotClaimed)
	}
	if in.Claim.Used {
		return ineligible(enums.ReasonAlreadyUsed)
	}
	if !matchesScope(voucher, in.ProductIDs, in.CategoryIDs) {
		return ineligible(enums.ReasonScopeMismatch)
	}
	if !voucher.ApplicablePayment.Matches(in.Payment) {
		return ineligible(enums.ReasonPaymentMismatch)
	}
	if in.Subtotal < voucher.MinOrderAmount {
		return ineligible(enums.ReasonBelowMinOrder)
	}

	base := in.Subtotal
	if voucher.VoucherType == enums.VoucherTypeShipping {
		base = in.ShippingFee
	}
	return Decision{Eligible: true, Discount: SpecFor(voucher).Apply(base)}
}

// matchesScope applies the voucher's product and category lists. Both lists
// empty means the voucher is storewide; a non-empty list requires at least
// one draft line to fall inside it.
func matchesScope(voucher *models.Voucher, productIDs, categoryIDs []uuid.UUID) bool {
	if len(voucher.ApplicableProducts) == 0 && len(voucher.ApplicableCategories) == 0 {
		return true
	}
	if voucher.ApplicableProducts.Intersects(productIDs) {
		return true
	}
	return voucher.ApplicableCategories.Intersects(categoryIDs)
}
