package enums

// ClaimStatus is the outcome of a claim attempt against a voucher's quota.
type ClaimStatus string

const (
	ClaimStatusClaimed        ClaimStatus = "claimed"
	ClaimStatusAlreadyClaimed ClaimStatus = "already_claimed"
	ClaimStatusOutOfStock     ClaimStatus = "out_of_stock"
)

// String implements fmt.Stringer.
func (c ClaimStatus) String() string {
	return string(c)
}
