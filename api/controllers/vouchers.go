package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/minhtdo/vietcart-backend/api/middleware"
	"github.com/minhtdo/vietcart-backend/api/responses"
	"github.com/minhtdo/vietcart-backend/api/validators"
	"github.com/minhtdo/vietcart-backend/internal/vouchers"
	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
	"github.com/minhtdo/vietcart-backend/pkg/logger"
	"github.com/minhtdo/vietcart-backend/pkg/pagination"
)

// VouchersOpen lists claimable vouchers, annotated for the caller.
func VouchersOpen(svc vouchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voucher service unavailable"))
			return
		}

		profileID, err := middleware.ProfileIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		open, err := svc.ListOpen(r.Context(), profileID, time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, open)
	}
}

// VouchersClaimed lists the caller's claim ledger, newest first. Clients
// page with ?limit= and the nextCursor from the previous response.
func VouchersClaimed(svc vouchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voucher service unavailable"))
			return
		}

		profileID, err := middleware.ProfileIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be an integer"))
				return
			}
			page.Limit = limit
		}

		claimed, err := svc.ListClaimed(r.Context(), profileID, page, time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, claimed)
	}
}

type claimVoucherRequest struct {
	RequestID string `json:"requestId" validate:"required"`
}

// VoucherClaim reserves one use of a voucher for the caller. Clients send a
// requestId so a retried claim never burns extra quota.
func VoucherClaim(svc vouchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voucher service unavailable"))
			return
		}

		profileID, err := middleware.ProfileIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		voucherID, err := validators.UUIDParam(r, "voucherID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload claimVoucherRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claim, err := svc.Claim(r.Context(), profileID, voucherID, payload.RequestID, time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, claim)
	}
}
