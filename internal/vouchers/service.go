package vouchers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	"github.com/minhtdo/vietcart-backend/pkg/enums"
	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
	"github.com/minhtdo/vietcart-backend/pkg/logger"
	"github.com/minhtdo/vietcart-backend/pkg/metrics"
	"github.com/minhtdo/vietcart-backend/pkg/pagination"
)

// Service exposes the voucher catalog, the claim ledger, and per-basket
// eligibility evaluation.
type Service interface {
	ListOpen(ctx context.Context, profileID uuid.UUID, now time.Time) ([]VoucherDTO, error)
	ListClaimed(ctx context.Context, profileID uuid.UUID, page pagination.Params, now time.Time) (*ClaimedPage, error)
	Claim(ctx context.Context, profileID, voucherID uuid.UUID, requestID string, now time.Time) (*ClaimDTO, error)
	OptionsForBasket(ctx context.Context, profileID uuid.UUID, basket BasketInput, now time.Time) ([]VoucherOptionDTO, error)
}

// VoucherDTO is a catalog voucher annotated for one profile.
type VoucherDTO struct {
	ID                uuid.UUID         `json:"id"`
	Code              string            `json:"code"`
	Title             string            `json:"title"`
	VoucherType       enums.VoucherType `json:"voucherType"`
	DiscountPercent   *int64            `json:"discountPercent,omitempty"`
	DiscountAmount    *int64            `json:"discountAmount,omitempty"`
	MinOrderAmount    int64             `json:"minOrderAmount"`
	MaxDiscountAmount int64             `json:"maxDiscountAmount"`
	EndDate           time.Time         `json:"endDate"`
	Remaining         int               `json:"remaining"`
	ClaimedByMe       bool              `json:"claimedByMe"`
}

// ClaimedVoucherDTO is a ledger entry joined with its voucher.
type ClaimedVoucherDTO struct {
	ClaimID   uuid.UUID  `json:"claimId"`
	Voucher   VoucherDTO `json:"voucher"`
	ClaimedAt time.Time  `json:"claimedAt"`
	Used      bool       `json:"used"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	Expired   bool       `json:"expired"`
}

// ClaimedPage is one page of the profile's claim history. NextCursor is
// empty on the last page.
type ClaimedPage struct {
	Vouchers   []ClaimedVoucherDTO `json:"vouchers"`
	NextCursor string              `json:"nextCursor,omitempty"`
}

// ClaimDTO is the outcome of a claim attempt.
type ClaimDTO struct {
	Status  enums.ClaimStatus `json:"status"`
	ClaimID *uuid.UUID        `json:"claimId,omitempty"`
}

// BasketInput describes the draft a voucher would apply to.
type BasketInput struct {
	Subtotal    int64
	ShippingFee int64
	Payment     enums.PaymentMethod
	ProductIDs  []uuid.UUID
	CategoryIDs []uuid.UUID
}

// VoucherOptionDTO is one claimed voucher evaluated against a basket.
type VoucherOptionDTO struct {
	ClaimID  uuid.UUID  `json:"claimId"`
	Voucher  VoucherDTO `json:"voucher"`
	Eligible bool       `json:"eligible"`
	Reason   string     `json:"reason,omitempty"`
	Discount int64      `json:"discount"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// claimCache is the slice of the redis client the claim fast path needs.
type claimCache interface {
	ClaimRequestKey(voucherID, profileID, requestID string) string
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	cache  claimCache
	claims *metrics.ClaimMetrics
	logg   *logger.Logger
}

// NewService constructs the voucher service. The cache is used as a fast
// duplicate-request guard and may be nil in tests.
func NewService(repo Repository, tx txRunner, cache claimCache, claims *metrics.ClaimMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("voucher repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, cache: cache, claims: claims, logg: logg}, nil
}

func (s *service) ListOpen(ctx context.Context, profileID uuid.UUID, now time.Time) ([]VoucherDTO, error) {
	vouchers, err := s.repo.ListOpen(ctx, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list open vouchers")
	}

	claimed, err := s.claimedVoucherIDs(ctx, profileID)
	if err != nil {
		return nil, err
	}

	out := make([]VoucherDTO, 0, len(vouchers))
	for i := range vouchers {
		dto := toVoucherDTO(&vouchers[i])
		dto.ClaimedByMe = claimed[vouchers[i].ID]
		out = append(out, dto)
	}
	return out, nil
}

func (s *service) ListClaimed(ctx context.Context, profileID uuid.UUID, page pagination.Params, now time.Time) (*ClaimedPage, error) {
	cursor, err := pagination.Decode(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	size := page.PageSize()
	// One extra row tells us whether another page exists.
	claims, err := s.repo.PageClaimsByProfile(ctx, profileID, cursor, size+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list claimed vouchers")
	}

	more := len(claims) > size
	if more {
		claims = claims[:size]
	}

	out := make([]ClaimedVoucherDTO, 0, len(claims))
	for i := range claims {
		claim := &claims[i]
		voucher, err := s.repo.FindByID(ctx, claim.VoucherID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load claimed voucher")
		}
		out = append(out, ClaimedVoucherDTO{
			ClaimID:   claim.ID,
			Voucher:   toVoucherDTO(voucher),
			ClaimedAt: claim.ClaimedAt,
			Used:      claim.Used,
			UsedAt:    claim.UsedAt,
			Expired:   !voucher.InWindow(now),
		})
	}

	result := &ClaimedPage{Vouchers: out}
	if more && len(claims) > 0 {
		last := claims[len(claims)-1]
		result.NextCursor = pagination.Encode(last.ClaimedAt, last.ID)
	}
	return result, nil
}

// Claim reserves one use of the voucher for the profile. The write runs in a
// single transaction; the redis key only short-circuits retries of a request
// that already went through.
func (s *service) Claim(ctx context.Context, profileID, voucherID uuid.UUID, requestID string, now time.Time) (*ClaimDTO, error) {
	ctx = s.logg.WithVoucherID(ctx, voucherID.String())

	if s.cache != nil && requestID != "" {
		key := s.cache.ClaimRequestKey(voucherID.String(), profileID.String(), requestID)
		stored, err := s.cache.SetNX(ctx, key, "1", time.Hour)
		if err != nil {
			// The ledger is the source of truth; a cache miss only costs
			// the duplicate fast path.
			s.logg.Warn(ctx, "claim request cache unavailable")
		} else if !stored {
			// A retry of a request we already saw. Serve the recorded
			// claim without opening a transaction; if the first attempt
			// never committed, fall through to the ledger.
			claim, lookupErr := s.repo.FindClaimByRequest(ctx, voucherID, profileID, requestID)
			if lookupErr == nil && claim != nil {
				s.observeClaim(enums.ClaimStatusClaimed.String())
				return &ClaimDTO{Status: enums.ClaimStatusClaimed, ClaimID: &claim.ID}, nil
			}
		}
	}

	var result *ClaimResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		result, txErr = ClaimVoucher(ctx, tx, voucherID, profileID, requestID, now)
		return txErr
	})
	if err != nil {
		s.observeClaim("error")
		return nil, err
	}

	s.observeClaim(result.Status.String())
	dto := &ClaimDTO{Status: result.Status}
	if result.Claim != nil {
		dto.ClaimID = &result.Claim.ID
	}
	return dto, nil
}

// OptionsForBasket evaluates every claimed voucher against the basket so a
// client can render the selection sheet with eligible and ineligible entries.
func (s *service) OptionsForBasket(ctx context.Context, profileID uuid.UUID, basket BasketInput, now time.Time) ([]VoucherOptionDTO, error) {
	claims, err := s.repo.ListClaimsByProfile(ctx, profileID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list claims")
	}

	out := make([]VoucherOptionDTO, 0, len(claims))
	for i := range claims {
		claim := &claims[i]
		voucher, err := s.repo.FindByID(ctx, claim.VoucherID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load voucher")
		}

		decision := Evaluate(EvalInput{
			Voucher:     voucher,
			Claim:       claim,
			Now:         now,
			Subtotal:    basket.Subtotal,
			ShippingFee: basket.ShippingFee,
			Payment:     basket.Payment,
			ProductIDs:  basket.ProductIDs,
			CategoryIDs: basket.CategoryIDs,
		})

		option := VoucherOptionDTO{
			ClaimID:  claim.ID,
			Voucher:  toVoucherDTO(voucher),
			Eligible: decision.Eligible,
			Discount: decision.Discount,
		}
		if !decision.Eligible {
			option.Reason = decision.Reason.Message()
		}
		out = append(out, option)
	}
	return out, nil
}

func (s *service) claimedVoucherIDs(ctx context.Context, profileID uuid.UUID) (map[uuid.UUID]bool, error) {
	claims, err := s.repo.ListClaimsByProfile(ctx, profileID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list claims")
	}
	claimed := make(map[uuid.UUID]bool, len(claims))
	for i := range claims {
		claimed[claims[i].VoucherID] = true
	}
	return claimed, nil
}

func (s *service) observeClaim(result string) {
	if s.claims != nil {
		s.claims.IncResult(result)
	}
}

func toVoucherDTO(voucher *models.Voucher) VoucherDTO {
	remaining := voucher.TotalQuantity - voucher.ClaimedCount
	if remaining < 0 {
		remaining = 0
	}
	return VoucherDTO{
		ID:                voucher.ID,
		Code:              voucher.Code,
		Title:             voucher.Title,
		VoucherType:       voucher.VoucherType,
		DiscountPercent:   voucher.DiscountPercent,
		DiscountAmount:    voucher.DiscountAmount,
		MinOrderAmount:    voucher.MinOrderAmount,
		MaxDiscountAmount: voucher.MaxDiscountAmount,
		EndDate:           voucher.EndDate,
		Remaining:         remaining,
	}
}
