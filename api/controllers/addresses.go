package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/minhtdo/vietcart-backend/api/middleware"
	"github.com/minhtdo/vietcart-backend/api/responses"
	"github.com/minhtdo/vietcart-backend/api/validators"
	"github.com/minhtdo/vietcart-backend/internal/addresses"
	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
	"github.com/minhtdo/vietcart-backend/pkg/logger"
)

type createAddressRequest struct {
	FullName      string `json:"fullName" validate:"required,max=120"`
	Phone         string `json:"phone" validate:"required,max=20"`
	Province      string `json:"province" validate:"required,max=80"`
	District      string `json:"district" validate:"required,max=80"`
	Ward          string `json:"ward" validate:"required,max=80"`
	StreetAddress string `json:"streetAddress" validate:"required,max=255"`
	Default       bool   `json:"default"`
}

// AddressList returns the caller's address book, default first.
func AddressList(repo addresses.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address repository unavailable"))
			return
		}

		profileID, err := middleware.ProfileIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.ListByProfile(r.Context(), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AddressCreate adds an address to the caller's book.
func AddressCreate(repo addresses.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address repository unavailable"))
			return
		}

		profileID, err := middleware.ProfileIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address := &models.OrderInfo{
			ID:            uuid.New(),
			ProfileID:     profileID,
			FullName:      payload.FullName,
			Phone:         payload.Phone,
			Province:      payload.Province,
			District:      payload.District,
			Ward:          payload.Ward,
			StreetAddress: payload.StreetAddress,
		}
		if err := repo.Create(r.Context(), address); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Default {
			if err := repo.SetDefault(r.Context(), address.ID, profileID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			address.DefaultAddress = true
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, address)
	}
}

// AddressSetDefault moves the default flag to the given address.
func AddressSetDefault(repo addresses.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address repository unavailable"))
			return
		}

		profileID, err := middleware.ProfileIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := validators.UUIDParam(r, "addressID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.SetDefault(r.Context(), addressID, profileID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
