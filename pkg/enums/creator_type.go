package enums

import "fmt"

// CreatorType marks who issued a voucher; supplier vouchers only discount
// that supplier's order lines.
type CreatorType string

const (
	CreatorTypePlatform CreatorType = "platform"
	CreatorTypeSupplier CreatorType = "supplier"
)

var validCreatorTypes = []CreatorType{
	CreatorTypePlatform,
	CreatorTypeSupplier,
}

// String implements fmt.Stringer.
func (c CreatorType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CreatorType.
func (c CreatorType) IsValid() bool {
	for _, candidate := range validCreatorTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCreatorType converts raw input into a CreatorType.
func ParseCreatorType(value string) (CreatorType, error) {
	for _, candidate := range validCreatorTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid creator type %q", value)
}
