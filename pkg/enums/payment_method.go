package enums

import "fmt"

// PaymentMethod describes how a buyer intends to settle an order.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodBank   PaymentMethod = "bank_transfer"

	// PaymentMethodAll is only valid as a voucher's applicable-payment
	// scope, never as a buyer's chosen method.
	PaymentMethodAll PaymentMethod = "all"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCOD,
	PaymentMethodWallet,
	PaymentMethodBank,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known buyer-facing PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsValidScope reports whether the value may be used as a voucher scope.
func (p PaymentMethod) IsValidScope() bool {
	return p == PaymentMethodAll || p.IsValid()
}

// Matches reports whether a voucher payment scope accepts the chosen method.
func (p PaymentMethod) Matches(chosen PaymentMethod) bool {
	return p == PaymentMethodAll || p == chosen
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
