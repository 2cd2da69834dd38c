package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/minhtdo/vietcart-backend/internal/checkout"
	"github.com/minhtdo/vietcart-backend/internal/flashsale"
	"github.com/minhtdo/vietcart-backend/internal/orders"
	"github.com/minhtdo/vietcart-backend/internal/vouchers"
	"github.com/minhtdo/vietcart-backend/pkg/config"
	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	"github.com/minhtdo/vietcart-backend/pkg/enums"
	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
	"github.com/minhtdo/vietcart-backend/pkg/logger"
	"github.com/minhtdo/vietcart-backend/pkg/types"
)

// Service drives the order-draft session from first line to submission.
type Service interface {
	Start(ctx context.Context, profileID uuid.UUID, input StartInput) (*Draft, error)
	Get(ctx context.Context, profileID uuid.UUID, draftID string) (*Draft, error)
	SelectAddress(ctx context.Context, profileID uuid.UUID, draftID string, addressID uuid.UUID) (*Draft, error)
	SelectPayment(ctx context.Context, profileID uuid.UUID, draftID string, method enums.PaymentMethod) (*Draft, error)
	SelectVoucher(ctx context.Context, profileID uuid.UUID, draftID string, voucherID uuid.UUID) (*Draft, error)
	ClearVoucher(ctx context.Context, profileID uuid.UUID, draftID string, voucherType enums.VoucherType) (*Draft, error)
	VoucherOptions(ctx context.Context, profileID uuid.UUID, draftID string) ([]vouchers.VoucherOptionDTO, error)
	Submit(ctx context.Context, profileID uuid.UUID, draftID string) (*SubmitResult, error)
	Abandon(ctx context.Context, profileID uuid.UUID, draftID string) error
}

// StartInput seeds a new draft from the shopper's cart selection.
type StartInput struct {
	Lines         []StartLine
	PaymentMethod enums.PaymentMethod
	Note          string
}

// StartLine is one requested variant with its quantity.
type StartLine struct {
	VariantID uuid.UUID
	Quantity  int
}

// SubmitResult is the accepted order.
type SubmitResult struct {
	OrderID string       `json:"orderId"`
	Totals  types.Totals `json:"totals"`
}

type addressBook interface {
	FindForProfile(ctx context.Context, id, profileID uuid.UUID) (*models.OrderInfo, error)
	FindDefault(ctx context.Context, profileID uuid.UUID) (*models.OrderInfo, error)
}

type catalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
}

type saleLister interface {
	ListActive(ctx context.Context, now time.Time) ([]models.FlashSale, error)
}

type voucherLedger interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Voucher, error)
	FindClaim(ctx context.Context, id uuid.UUID) (*models.ClaimedVoucher, error)
	FindUsableClaim(ctx context.Context, voucherID, profileID uuid.UUID) (*models.ClaimedVoucher, error)
}

type optionLister interface {
	OptionsForBasket(ctx context.Context, profileID uuid.UUID, basket vouchers.BasketInput, now time.Time) ([]vouchers.VoucherOptionDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	store     Store
	addresses addressBook
	catalog   catalog
	sales     saleLister
	ledger    voucherLedger
	options   optionLister
	tx        txRunner
	orders    orders.Client
	cfg       config.CheckoutConfig
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires the draft session service.
func NewService(
	store Store,
	addresses addressBook,
	cat catalog,
	sales saleLister,
	ledger voucherLedger,
	options optionLister,
	tx txRunner,
	orderClient orders.Client,
	cfg config.CheckoutConfig,
	logg *logger.Logger,
) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("draft store required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if sales == nil {
		return nil, fmt.Errorf("flash sale repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("voucher repository required")
	}
	if options == nil {
		return nil, fmt.Errorf("voucher options service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if orderClient == nil {
		return nil, fmt.Errorf("order client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:     store,
		addresses: addresses,
		catalog:   cat,
		sales:     sales,
		ledger:    ledger,
		options:   options,
		tx:        tx,
		orders:    orderClient,
		cfg:       cfg,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// Start builds a draft from the selected variants, seeds the default
// delivery address when one exists, and prices every line against the
// currently active flash sales.
func (s *service) Start(ctx context.Context, profileID uuid.UUID, input StartInput) (*Draft, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a draft needs at least one item")
	}
	if s.cfg.MaxLineItemsPerDraft > 0 && len(input.Lines) > s.cfg.MaxLineItemsPerDraft {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("a draft carries at most %d items", s.cfg.MaxLineItemsPerDraft))
	}
	if input.PaymentMethod != "" && !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	now := s.now()
	draft := &Draft{
		ID:            uuid.NewString(),
		ProfileID:     profileID,
		State:         enums.DraftStateBuilding,
		PaymentMethod: input.PaymentMethod,
		Note:          input.Note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	merged := make(map[uuid.UUID]int, len(input.Lines))
	order := make([]uuid.UUID, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if _, seen := merged[line.VariantID]; !seen {
			order = append(order, line.VariantID)
		}
		merged[line.VariantID] += line.Quantity
	}

	for _, variantID := range order {
		variant, err := s.catalog.FindVariant(ctx, variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load variant")
		}
		product, err := s.catalog.FindByID(ctx, variant.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
		}
		draft.Lines = append(draft.Lines, Line{
			ProductID:     product.ID,
			VariantID:     variant.ID,
			CategoryID:    product.CategoryID,
			ProductName:   product.Name,
			VariantName:   variant.Name,
			Quantity:      merged[variantID],
			OriginalPrice: variant.PriceVND,
		})
	}

	// FindDefault reports an empty address book as nil, nil, so any error is real.
	address, err := s.addresses.FindDefault(ctx, profileID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load default address")
	}
	if address != nil {
		draft.AddressID = &address.ID
	}

	if err := s.recompute(ctx, draft); err != nil {
		return nil, err
	}
	return draft, s.save(ctx, draft)
}

func (s *service) Get(ctx context.Context, profileID uuid.UUID, draftID string) (*Draft, error) {
	draft, err := s.load(ctx, profileID, draftID)
	if err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, draft); err != nil {
		return nil, err
	}
	return draft, s.save(ctx, draft)
}

func (s *service) SelectAddress(ctx context.Context, profileID uuid.UUID, draftID string, addressID uuid.UUID) (*Draft, error) {
	draft, err := s.loadMutable(ctx, profileID, draftID)
	if err != nil {
		return nil, err
	}
	if _, err := s.addresses.FindForProfile(ctx, addressID, profileID); err != nil {
		return nil, err
	}
	draft.AddressID = &addressID
	if err := s.recompute(ctx, draft); err != nil {
		return nil, err
	}
	return draft, s.save(ctx, draft)
}

func (s *service) SelectPayment(ctx context.Context, profileID uuid.UUID, draftID string, method enums.PaymentMethod) (*Draft, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	draft, err := s.loadMutable(ctx, profileID, draftID)
	if err != nil {
		return nil, err
	}
	draft.PaymentMethod = method
	if err := s.recompute(ctx, draft); err != nil {
		return nil, err
	}
	return draft, s.save(ctx, draft)
}

// SelectVoucher attaches a claimed voucher to the slot its type belongs to.
// The voucher must be eligible for the draft as it stands right now.
func (s *service) SelectVoucher(ctx context.Context, profileID uuid.UUID, draftID string, voucherID uuid.UUID) (*Draft, error) {
	draft, err := s.loadMutable(ctx, profileID, draftID)
	if err != nil {
		return nil, err
	}

	voucher, err := s.ledger.FindByID(ctx, voucherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load voucher")
	}
	claim, err := s.ledger.FindUsableClaim(ctx, voucherID, profileID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to look up claim")
	}

	now := s.now()
	decision := vouchers.Evaluate(vouchers.EvalInput{
		Voucher:     voucher,
		Claim:       claim,
		Now:         now,
		Subtotal:    draft.subtotal(),
		ShippingFee: s.shippingFee(draft),
		Payment:     draft.PaymentMethod,
		ProductIDs:  draft.productIDs(),
		CategoryIDs: draft.categoryIDs(),
	})
	if !decision.Eligible {
		return nil, pkgerrors.New(pkgerrors.CodeNotEligible, decision.Reason.Message())
	}

	slot := &VoucherSlot{VoucherID: voucherID, ClaimID: claim.ID}
	if voucher.VoucherType == enums.VoucherTypeShipping {
		draft.Shipping = slot
	} else {
		draft.Merchandise = slot
	}

	if err := s.recompute(ctx, draft); err != nil {
		return nil, err
	}
	return draft, s.save(ctx, draft)
}

func (s *service) ClearVoucher(ctx context.Context, profileID uuid.UUID, draftID string, voucherType enums.VoucherType) (*Draft, error) {
	if !voucherType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown voucher type")
	}
	draft, err := s.loadMutable(ctx, profileID, draftID)
	if err != nil {
		return nil, err
	}
	if voucherType == enums.VoucherTypeShipping {
		draft.Shipping = nil
	} else {
		draft.Merchandise = nil
	}
	if err := s.recompute(ctx, draft); err != nil {
		return nil, err
	}
	return draft, s.save(ctx, draft)
}

func (s *service) VoucherOptions(ctx context.Context, profileID uuid.UUID, draftID string) ([]vouchers.VoucherOptionDTO, error) {
	draft, err := s.load(ctx, profileID, draftID)
	if err != nil {
		return nil, err
	}
	return s.options.OptionsForBasket(ctx, profileID, vouchers.BasketInput{
		Subtotal:    draft.subtotal(),
		ShippingFee: s.shippingFee(draft),
		Payment:     draft.PaymentMethod,
		ProductIDs:  draft.productIDs(),
		CategoryIDs: draft.categoryIDs(),
	}, s.now())
}

// Submit validates the draft locally, spends the selected voucher claims,
// and hands the order to the order service in one transaction. A rejected
// order rolls the claims back and leaves the draft ready for another try.
func (s *service) Submit(ctx context.Context, profileID uuid.UUID, draftID string) (*SubmitResult, error) {
	draft, err := s.loadMutable(ctx, profileID, draftID)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithDraftID(ctx, draft.ID)

	if err := s.recompute(ctx, draft); err != nil {
		return nil, err
	}

	if err := validateForSubmit(draft); err != nil {
		_ = s.save(ctx, draft)
		return nil, err
	}

	address, err := s.addresses.FindForProfile(ctx, *draft.AddressID, profileID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	request := orders.CreateOrderRequest{
		ProfileID:     profileID,
		DraftID:       draft.ID,
		PaymentMethod: draft.PaymentMethod,
		Totals:        draft.Totals,
		Note:          draft.Note,
		Address: orders.OrderAddress{
			FullName:      address.FullName,
			Phone:         address.Phone,
			Province:      address.Province,
			District:      address.District,
			Ward:          address.Ward,
			StreetAddress: address.StreetAddress,
		},
	}
	for _, line := range draft.Lines {
		request.Lines = append(request.Lines, orders.OrderLine{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	for _, slot := range []*VoucherSlot{draft.Merchandise, draft.Shipping} {
		if slot != nil {
			request.VoucherClaims = append(request.VoucherClaims, slot.ClaimID)
		}
	}

	var result *orders.CreateOrderResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		for _, slot := range []*VoucherSlot{draft.Merchandise, draft.Shipping} {
			if slot == nil {
				continue
			}
			if err := vouchers.MarkUsed(ctx, tx, slot.ClaimID, now); err != nil {
				return err
			}
		}
		var orderErr error
		result, orderErr = s.orders.CreateOrder(ctx, request)
		return orderErr
	})
	if err != nil {
		// Claims were rolled back with the transaction; the draft stays
		// submittable.
		_ = s.save(ctx, draft)
		return nil, err
	}

	draft.State = enums.DraftStateSubmitted
	if err := s.store.Delete(ctx, draft.ID); err != nil {
		s.logg.Warn(ctx, "failed to drop submitted draft")
	}
	s.logg.Info(ctx, "draft submitted as order "+result.OrderID)

	return &SubmitResult{OrderID: result.OrderID, Totals: draft.Totals}, nil
}

func (s *service) Abandon(ctx context.Context, profileID uuid.UUID, draftID string) error {
	draft, err := s.loadMutable(ctx, profileID, draftID)
	if err != nil {
		return err
	}
	draft.State = enums.DraftStateAbandoned
	return s.store.Delete(ctx, draft.ID)
}

func validateForSubmit(draft *Draft) error {
	var problems error
	if len(draft.Lines) == 0 {
		problems = multierr.Append(problems, fmt.Errorf("draft has no items"))
	}
	if draft.AddressID == nil {
		problems = multierr.Append(problems, fmt.Errorf("delivery address is required"))
	}
	if !draft.PaymentMethod.IsValid() {
		problems = multierr.Append(problems, fmt.Errorf("payment method is required"))
	}
	for _, slot := range []*VoucherSlot{draft.Merchandise, draft.Shipping} {
		if slot != nil && !slot.Eligible {
			problems = multierr.Append(problems, fmt.Errorf("selected voucher is no longer eligible: %s", slot.Reason))
		}
	}
	if problems == nil {
		return nil
	}

	messages := make([]string, 0)
	for _, err := range multierr.Errors(problems) {
		messages = append(messages, err.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "draft is not ready to submit").WithDetails(messages)
}

// recompute reprices every line against the active flash sales, re-evaluates
// the selected vouchers, and rebuilds the totals from scratch.
func (s *service) recompute(ctx context.Context, draft *Draft) error {
	now := s.now()
	sales, err := s.sales.ListActive(ctx, now)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list active flash sales")
	}

	lines := make([]checkout.Line, 0, len(draft.Lines))
	for i := range draft.Lines {
		line := &draft.Lines[i]
		line.UnitPrice, line.FlashSaleID = flashsale.ResolveVariantPrice(line.ProductID, line.OriginalPrice, sales, now)
		lines = append(lines, checkout.Line{
			ProductID:  line.ProductID,
			VariantID:  line.VariantID,
			CategoryID: line.CategoryID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
		})
	}

	input := checkout.Input{
		Lines:           lines,
		BaseShippingFee: s.cfg.BaseShippingFeeVND,
		Payment:         draft.PaymentMethod,
		Now:             now,
	}

	merchandise, err := s.selectedVoucher(ctx, draft.Merchandise)
	if err != nil {
		return err
	}
	if merchandise == nil {
		draft.Merchandise = nil
	}
	input.Merchandise = merchandise

	shipping, err := s.selectedVoucher(ctx, draft.Shipping)
	if err != nil {
		return err
	}
	if shipping == nil {
		draft.Shipping = nil
	}
	input.Shipping = shipping

	result := checkout.Aggregate(input)
	draft.Totals = result.Totals
	applyDecision(draft.Merchandise, result.Merchandise)
	applyDecision(draft.Shipping, result.Shipping)
	draft.UpdatedAt = now
	draft.refreshState()
	return nil
}

// selectedVoucher loads the slot's voucher and claim. A slot whose records
// vanished resolves to nil so the draft sheds it instead of failing.
func (s *service) selectedVoucher(ctx context.Context, slot *VoucherSlot) (*checkout.SelectedVoucher, error) {
	if slot == nil {
		return nil, nil
	}
	voucher, err := s.ledger.FindByID(ctx, slot.VoucherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load selected voucher")
	}
	claim, err := s.ledger.FindClaim(ctx, slot.ClaimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load selected claim")
	}
	return &checkout.SelectedVoucher{Voucher: voucher, Claim: claim}, nil
}

func applyDecision(slot *VoucherSlot, decision *vouchers.Decision) {
	if slot == nil || decision == nil {
		return
	}
	slot.Eligible = decision.Eligible
	slot.Discount = decision.Discount
	slot.Reason = ""
	if !decision.Eligible {
		slot.Reason = decision.Reason.Message()
	}
}

func (s *service) shippingFee(draft *Draft) int64 {
	if len(draft.Lines) == 0 {
		return 0
	}
	return s.cfg.BaseShippingFeeVND
}

func (s *service) load(ctx context.Context, profileID uuid.UUID, draftID string) (*Draft, error) {
	draft, err := s.store.Find(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.ProfileID != profileID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "draft belongs to another profile")
	}
	return draft, nil
}

func (s *service) loadMutable(ctx context.Context, profileID uuid.UUID, draftID string) (*Draft, error) {
	draft, err := s.load(ctx, profileID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.State.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "draft is no longer editable")
	}
	return draft, nil
}

func (s *service) save(ctx context.Context, draft *Draft) error {
	return s.store.Save(ctx, draft, s.cfg.DraftTTL)
}
