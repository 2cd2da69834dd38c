package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/minhtdo/vietcart-backend/api/routes"
	"github.com/minhtdo/vietcart-backend/internal/addresses"
	"github.com/minhtdo/vietcart-backend/internal/drafts"
	"github.com/minhtdo/vietcart-backend/internal/flashsale"
	"github.com/minhtdo/vietcart-backend/internal/orders"
	"github.com/minhtdo/vietcart-backend/internal/products"
	"github.com/minhtdo/vietcart-backend/internal/vouchers"
	"github.com/minhtdo/vietcart-backend/pkg/config"
	"github.com/minhtdo/vietcart-backend/pkg/db"
	"github.com/minhtdo/vietcart-backend/pkg/instance"
	"github.com/minhtdo/vietcart-backend/pkg/logger"
	"github.com/minhtdo/vietcart-backend/pkg/metrics"
	"github.com/minhtdo/vietcart-backend/pkg/migrate"
	"github.com/minhtdo/vietcart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	claimMetrics := metrics.NewClaimMetrics(registry)

	productsRepo := products.NewRepository(dbClient.DB())
	flashSaleRepo := flashsale.NewRepository(dbClient.DB())
	voucherRepo := vouchers.NewRepository(dbClient.DB())
	addressRepo := addresses.NewRepository(dbClient.DB())

	flashSaleService, err := flashsale.NewService(flashSaleRepo, productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create flash sale service", err)
		os.Exit(1)
	}

	voucherService, err := vouchers.NewService(voucherRepo, dbClient, redisClient, claimMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create voucher service", err)
		os.Exit(1)
	}

	orderClient, err := orders.NewClient(cfg.OrderService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order client", err)
		os.Exit(1)
	}

	draftStore, err := drafts.NewRedisStore(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create draft store", err)
		os.Exit(1)
	}

	draftService, err := drafts.NewService(
		draftStore,
		addressRepo,
		productsRepo,
		flashSaleRepo,
		voucherRepo,
		voucherService,
		dbClient,
		orderClient,
		cfg.Checkout,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create draft service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			flashSaleService,
			voucherService,
			draftService,
			addressRepo,
			httpMetrics,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
