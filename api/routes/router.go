package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minhtdo/vietcart-backend/api/controllers"
	"github.com/minhtdo/vietcart-backend/api/middleware"
	"github.com/minhtdo/vietcart-backend/internal/addresses"
	"github.com/minhtdo/vietcart-backend/internal/drafts"
	"github.com/minhtdo/vietcart-backend/internal/flashsale"
	"github.com/minhtdo/vietcart-backend/internal/vouchers"
	"github.com/minhtdo/vietcart-backend/pkg/config"
	"github.com/minhtdo/vietcart-backend/pkg/db"
	"github.com/minhtdo/vietcart-backend/pkg/logger"
	"github.com/minhtdo/vietcart-backend/pkg/metrics"
	"github.com/minhtdo/vietcart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	flashSaleService flashsale.Service,
	voucherService vouchers.Service,
	draftService drafts.Service,
	addressRepo addresses.Repository,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/sales", func(r chi.Router) {
		r.Get("/active", controllers.FlashSalesActive(flashSaleService, logg))
		r.Get("/quote/{productID}", controllers.ProductQuote(flashSaleService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/vouchers", func(r chi.Router) {
			r.Get("/", controllers.VouchersOpen(voucherService, logg))
			r.Get("/claimed", controllers.VouchersClaimed(voucherService, logg))
			r.Post("/{voucherID}/claim", controllers.VoucherClaim(voucherService, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(addressRepo, logg))
			r.Post("/", controllers.AddressCreate(addressRepo, logg))
			r.Post("/{addressID}/default", controllers.AddressSetDefault(addressRepo, logg))
		})

		r.Route("/orders/drafts", func(r chi.Router) {
			r.Post("/", controllers.DraftStart(draftService, logg))

			r.Route("/{draftID}", func(r chi.Router) {
				r.Get("/", controllers.DraftGet(draftService, logg))
				r.Put("/address", controllers.DraftSelectAddress(draftService, logg))
				r.Put("/payment", controllers.DraftSelectPayment(draftService, logg))
				r.Put("/voucher", controllers.DraftSelectVoucher(draftService, logg))
				r.Delete("/voucher/{voucherType}", controllers.DraftClearVoucher(draftService, logg))
				r.Get("/voucher-options", controllers.DraftVoucherOptions(draftService, logg))
				r.Post("/submit", controllers.DraftSubmit(draftService, logg))
				r.Delete("/", controllers.DraftAbandon(draftService, logg))
			})
		})
	})

	return r
}
