package orders

import (
	"github.com/google/uuid"

	"github.com/minhtdo/vietcart-backend/pkg/enums"
	"github.com/minhtdo/vietcart-backend/pkg/types"
)

// CreateOrderRequest is the payload posted to the order service. Totals and
// voucher claims are computed here; the order service owns everything after
// acceptance.
type CreateOrderRequest struct {
	ProfileID     uuid.UUID           `json:"profileId"`
	DraftID       string              `json:"draftId"`
	Lines         []OrderLine         `json:"lines"`
	Address       OrderAddress        `json:"address"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	Totals        types.Totals        `json:"totals"`
	VoucherClaims []uuid.UUID         `json:"voucherClaims,omitempty"`
	Note          string              `json:"note,omitempty"`
}

// OrderLine is one priced line of the submitted draft.
type OrderLine struct {
	ProductID uuid.UUID `json:"productId"`
	VariantID uuid.UUID `json:"variantId"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unitPrice"`
}

// OrderAddress is the delivery address snapshot frozen into the order.
type OrderAddress struct {
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	Province      string `json:"province"`
	District      string `json:"district"`
	Ward          string `json:"ward"`
	StreetAddress string `json:"streetAddress"`
}

// CreateOrderResult is the accepted order's identity.
type CreateOrderResult struct {
	OrderID string `json:"orderId"`
}
