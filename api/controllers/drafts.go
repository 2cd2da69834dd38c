package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/minhtdo/vietcart-backend/api/middleware"
	"github.com/minhtdo/vietcart-backend/api/responses"
	"github.com/minhtdo/vietcart-backend/api/validators"
	"github.com/minhtdo/vietcart-backend/internal/drafts"
	"github.com/minhtdo/vietcart-backend/pkg/enums"
	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
	"github.com/minhtdo/vietcart-backend/pkg/logger"
)

type startDraftLine struct {
	VariantID uuid.UUID `json:"variantId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type startDraftRequest struct {
	Lines         []startDraftLine `json:"lines" validate:"required,min=1,dive"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	Note          string           `json:"note,omitempty" validate:"max=500"`
}

type selectAddressRequest struct {
	AddressID uuid.UUID `json:"addressId" validate:"required"`
}

type selectPaymentRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

type selectVoucherRequest struct {
	VoucherID uuid.UUID `json:"voucherId" validate:"required"`
}

// DraftStart opens a new draft session from the shopper's selection.
func DraftStart(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireDraftService(w, r, svc, logg)
		if !ok {
			return
		}

		var payload startDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := drafts.StartInput{Note: payload.Note}
		if payload.PaymentMethod != "" {
			method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method"))
				return
			}
			input.PaymentMethod = method
		}
		for _, line := range payload.Lines {
			input.Lines = append(input.Lines, drafts.StartLine{VariantID: line.VariantID, Quantity: line.Quantity})
		}

		draft, err := svc.Start(r.Context(), profileID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, draft)
	}
}

// DraftGet reloads a draft, repricing it against the current promotions.
func DraftGet(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireDraftService(w, r, svc, logg)
		if !ok {
			return
		}
		draftID, err := validators.StringParam(r, "draftID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.Get(r.Context(), profileID, draftID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// DraftSelectAddress sets the delivery address.
func DraftSelectAddress(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireDraftService(w, r, svc, logg)
		if !ok {
			return
		}
		draftID, err := validators.StringParam(r, "draftID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.SelectAddress(r.Context(), profileID, draftID, payload.AddressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// DraftSelectPayment sets the payment method.
func DraftSelectPayment(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireDraftService(w, r, svc, logg)
		if !ok {
			return
		}
		draftID, err := validators.StringParam(r, "draftID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method"))
			return
		}

		draft, err := svc.SelectPayment(r.Context(), profileID, draftID, method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// DraftSelectVoucher attaches a claimed voucher to the draft.
func DraftSelectVoucher(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireDraftService(w, r, svc, logg)
		if !ok {
			return
		}
		draftID, err := validators.StringParam(r, "draftID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectVoucherRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.SelectVoucher(r.Context(), profileID, draftID, payload.VoucherID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// DraftClearVoucher removes the voucher of the given type from the draft.
func DraftClearVoucher(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireDraftService(w, r, svc, logg)
		if !ok {
			return
		}
		draftID, err := validators.StringParam(r, "draftID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rawType, err := validators.StringParam(r, "voucherType")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		voucherType, err := enums.ParseVoucherType(rawType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown voucher type"))
			return
		}

		draft, err := svc.ClearVoucher(r.Context(), profileID, draftID, voucherType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// DraftVoucherOptions evaluates the caller's claimed vouchers against the
// draft so the selection sheet can render eligibility upfront.
func DraftVoucherOptions(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireDraftService(w, r, svc, logg)
		if !ok {
			return
		}
		draftID, err := validators.StringParam(r, "draftID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		options, err := svc.VoucherOptions(r.Context(), profileID, draftID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, options)
	}
}

// DraftSubmit turns the draft into an order.
func DraftSubmit(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireDraftService(w, r, svc, logg)
		if !ok {
			return
		}
		draftID, err := validators.StringParam(r, "draftID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), profileID, draftID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// DraftAbandon discards the draft.
func DraftAbandon(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireDraftService(w, r, svc, logg)
		if !ok {
			return
		}
		draftID, err := validators.StringParam(r, "draftID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Abandon(r.Context(), profileID, draftID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "abandoned"})
	}
}

func requireDraftService(w http.ResponseWriter, r *http.Request, svc drafts.Service, logg *logger.Logger) (uuid.UUID, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "draft service unavailable"))
		return uuid.Nil, false
	}
	profileID, err := middleware.ProfileIDFromContext(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return uuid.Nil, false
	}
	return profileID, true
}
