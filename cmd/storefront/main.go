package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"SnowStore/internal/cart"
	"SnowStore/internal/catalog"
	"SnowStore/internal/config"
	"SnowStore/internal/storefront"
	"SnowStore/pkg/kit"
)

func main() {
	service := "storefront"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config failed", zap.Error(err))
	}

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatal("init cart store failed", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	metrics := storefront.NewMetrics(reg)

	ledger := cart.NewLedger(store, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := ledger.Load(ctx); err != nil {
		log.Warn("load persisted cart failed, starting empty", zap.Error(err))
	}

	ctrl := storefront.NewController(ledger, storefront.ControllerOpts{
		Log:            log,
		Metrics:        metrics,
		SearchDebounce: cfg.SearchDebounce,
	})
	defer ctrl.Close()

	// One load at startup; a failure leaves the storefront in its
	// "error loading products" state rather than aborting.
	client := catalog.NewClient(cfg.CatalogURL)
	_ = ctrl.LoadCatalog(ctx, client)

	s := &storefront.Server{
		Ctrl:  ctrl,
		Store: store,
		Log:   log,
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:                 log,
		Service:             service,
		Registry:            reg,
		MetricsEnabled:      cfg.MetricsEnabled,
		MetricsToken:        cfg.MetricsToken,
		CartMutationsPerMin: cfg.CartRatePerMin,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildStore(cfg config.Config) (cart.Store, error) {
	switch cfg.CartStore {
	case config.StoreMemory:
		return cart.NewMemStore(), nil
	case config.StorePostgres:
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return cart.NewPostgresStore(db, cart.StorageKey), nil
	default:
		return cart.NewFileStore(cfg.CartFile), nil
	}
}
