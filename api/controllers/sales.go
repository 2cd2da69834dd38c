package controllers

import (
	"net/http"
	"time"

	"github.com/minhtdo/vietcart-backend/api/responses"
	"github.com/minhtdo/vietcart-backend/api/validators"
	"github.com/minhtdo/vietcart-backend/internal/flashsale"
	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
	"github.com/minhtdo/vietcart-backend/pkg/logger"
)

// FlashSalesActive lists the sales running right now with resolved prices.
func FlashSalesActive(svc flashsale.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "flash sale service unavailable"))
			return
		}

		sales, err := svc.ListActive(r.Context(), time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sales)
	}
}

// ProductQuote resolves the display price for one product.
func ProductQuote(svc flashsale.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "flash sale service unavailable"))
			return
		}

		productID, err := validators.UUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.QuoteProduct(r.Context(), productID, time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
