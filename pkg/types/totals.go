package types

// Totals is the full breakdown of a checkout recomputation. The merchandise
// discount is carried as its own line rather than folded into the subtotal.
// Amounts are whole VND.
type Totals struct {
	Subtotal            int64 `json:"subtotal"`
	ShippingFee         int64 `json:"shippingFee"`
	MerchandiseDiscount int64 `json:"merchandiseDiscount"`
	ShippingDiscount    int64 `json:"shippingDiscount"`
	GrandTotal          int64 `json:"grandTotal"`
}
