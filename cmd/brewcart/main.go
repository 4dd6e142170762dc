package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/brewcart/api/routes"
	"github.com/angelmondragon/brewcart/internal/cart"
	"github.com/angelmondragon/brewcart/internal/catalog"
	"github.com/angelmondragon/brewcart/internal/checkout"
	"github.com/angelmondragon/brewcart/internal/orders"
	"github.com/angelmondragon/brewcart/internal/promo"
	"github.com/angelmondragon/brewcart/internal/session"
	"github.com/angelmondragon/brewcart/pkg/config"
	"github.com/angelmondragon/brewcart/pkg/instance"
	"github.com/angelmondragon/brewcart/pkg/kv"
	"github.com/angelmondragon/brewcart/pkg/logger"
	"github.com/angelmondragon/brewcart/pkg/metrics"
	"github.com/angelmondragon/brewcart/pkg/shopapi"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "brewcart"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "brewcart",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "brewcart stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	store, closeStorage, err := openStorage(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logg.Error(context.Background(), "error closing storage", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(reg)

	shop, err := shopapi.NewClient(cfg.Orders.BaseURL, shopapi.WithTimeout(cfg.Orders.Timeout))
	if err != nil {
		return err
	}
	orderClient, err := orders.NewHTTPClient(shop)
	if err != nil {
		return err
	}

	menu, err := menuSource(cfg, shop)
	if err != nil {
		return err
	}

	promos := promo.NewRegistry(promo.DefaultPromos()...)
	extra, err := promo.ParseDefinitions(cfg.Promo.Codes)
	if err != nil {
		return err
	}
	for _, p := range extra {
		promos.Register(p)
	}

	namespace, owner := cfg.Storage.Namespace, cfg.Cart.OwnerID
	cartStore, err := cart.NewStore(cart.StoreParams{
		KV:               store,
		Logger:           logg,
		Metrics:          checkoutMetrics,
		Key:              kv.Key(namespace, owner, kv.KeyCart),
		OwnerID:          owner,
		MaxWriteFailures: cfg.Cart.MaxWriteFailures,
	})
	if err != nil {
		return err
	}
	lastOrder, err := orders.NewLastOrderStore(store, kv.Key(namespace, owner, kv.KeyLastOrder), logg)
	if err != nil {
		return err
	}
	contacts, err := orders.NewContactStore(store, kv.Key(namespace, owner, kv.KeyDeliveryContact), logg)
	if err != nil {
		return err
	}
	credentials, err := session.NewKVCredentials(store, kv.Key(namespace, owner, kv.KeyUserToken))
	if err != nil {
		return err
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Cart:          cartStore,
		Menu:          menu,
		Promos:        promos,
		Submitter:     orderClient,
		LastOrder:     lastOrder,
		Contacts:      contacts,
		Credentials:   credentials,
		Policy:        checkout.PolicyFromConfig(cfg.Checkout, cfg.Store),
		SubmitTimeout: cfg.Checkout.SubmitTimeout,
		Metrics:       checkoutMetrics,
		Logger:        logg,
	})
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			Storage:     store,
			Cart:        cartStore,
			Menu:        menu,
			Checkout:    checkoutService,
			LastOrder:   lastOrder,
			Contacts:    contacts,
			History:     orderClient,
			Credentials: credentials,
			Gatherer:    reg,
		}),
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"storage":  cfg.Storage.Driver,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting brewcart api")

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down brewcart api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// menuSource prefers a local menu file, falling back to the shop catalog API.
func menuSource(cfg *config.Config, shop *shopapi.Client) (catalog.Source, error) {
	if cfg.Menu.File != "" {
		return catalog.NewFileSource(cfg.Menu.File)
	}
	return catalog.NewCached(catalog.NewRemoteSource(shop), cfg.Menu.CacheTTL), nil
}
