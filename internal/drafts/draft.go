package drafts

import (
	"time"

	"github.com/google/uuid"

	"github.com/minhtdo/vietcart-backend/pkg/enums"
	"github.com/minhtdo/vietcart-backend/pkg/types"
)

// Line is one item of a draft with its resolved price. UnitPrice carries the
// flash-sale discount in force when the draft was last recomputed.
type Line struct {
	ProductID     uuid.UUID  `json:"productId"`
	VariantID     uuid.UUID  `json:"variantId"`
	CategoryID    uuid.UUID  `json:"categoryId"`
	ProductName   string     `json:"productName"`
	VariantName   string     `json:"variantName"`
	Quantity      int        `json:"quantity"`
	UnitPrice     int64      `json:"unitPrice"`
	OriginalPrice int64      `json:"originalPrice"`
	FlashSaleID   *uuid.UUID `json:"flashSaleId,omitempty"`
}

// VoucherSlot records one selected voucher and the last eligibility verdict
// against the draft.
type VoucherSlot struct {
	VoucherID uuid.UUID `json:"voucherId"`
	ClaimID   uuid.UUID `json:"claimId"`
	Eligible  bool      `json:"eligible"`
	Reason    string    `json:"reason,omitempty"`
	Discount  int64     `json:"discount"`
}

// Draft is an in-progress checkout, stored as a JSON document keyed by its
// id. It is worked on by exactly one profile and expires with its key.
type Draft struct {
	ID            string              `json:"id"`
	ProfileID     uuid.UUID           `json:"profileId"`
	State         enums.DraftState    `json:"state"`
	Lines         []Line              `json:"lines"`
	AddressID     *uuid.UUID          `json:"addressId,omitempty"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod,omitempty"`
	Merchandise   *VoucherSlot        `json:"merchandise,omitempty"`
	Shipping      *VoucherSlot        `json:"shipping,omitempty"`
	Note          string              `json:"note,omitempty"`
	Totals        types.Totals        `json:"totals"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// refreshState recomputes the lifecycle state from the draft's contents.
// Terminal states never move.
func (d *Draft) refreshState() {
	if d.State.IsTerminal() {
		return
	}
	switch {
	case d.AddressID == nil:
		d.State = enums.DraftStateBuilding
	case len(d.Lines) == 0 || !d.PaymentMethod.IsValid():
		d.State = enums.DraftStateAddressSelected
	default:
		d.State = enums.DraftStateReadyToSubmit
	}
}

func (d *Draft) productIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(d.Lines))
	for _, line := range d.Lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

func (d *Draft) categoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(d.Lines))
	for _, line := range d.Lines {
		ids = append(ids, line.CategoryID)
	}
	return ids
}

func (d *Draft) subtotal() int64 {
	var total int64
	for _, line := range d.Lines {
		total += line.UnitPrice * int64(line.Quantity)
	}
	return total
}
