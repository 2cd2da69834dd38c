package enums

// EligibilityReason explains why a voucher cannot be applied to a draft.
// Reasons are computed locally and surfaced as a disabled state, never as a
// network round trip.
type EligibilityReason string

const (
	ReasonExpired         EligibilityReason = "expired"
	ReasonNotClaimed      EligibilityReason = "not_claimed"
	ReasonAlreadyUsed     EligibilityReason = "already_used"
	ReasonScopeMismatch   EligibilityReason = "scope_mismatch"
	ReasonPaymentMismatch EligibilityReason = "payment_mismatch"
	ReasonBelowMinOrder   EligibilityReason = "below_min_order"
)

// String implements fmt.Stringer.
func (r EligibilityReason) String() string {
	return string(r)
}

// Message returns the user-facing description for the reason.
func (r EligibilityReason) Message() string {
	switch r {
	case ReasonExpired:
		return "voucher is outside its validity window"
	case ReasonNotClaimed:
		return "voucher has not been claimed"
	case ReasonAlreadyUsed:
		return "voucher has already been used"
	case ReasonScopeMismatch:
		return "voucher does not apply to the selected items"
	case ReasonPaymentMismatch:
		return "voucher does not apply to the selected payment method"
	case ReasonBelowMinOrder:
		return "below minimum order amount"
	}
	return "voucher not applicable"
}
