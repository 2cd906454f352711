package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/donaldgifford/shopify-price-alerts/api/openapi"
	"github.com/donaldgifford/shopify-price-alerts/internal/api/handlers"
	"github.com/donaldgifford/shopify-price-alerts/internal/api/middleware"
	"github.com/donaldgifford/shopify-price-alerts/internal/config"
	"github.com/donaldgifford/shopify-price-alerts/internal/engine"
	"github.com/donaldgifford/shopify-price-alerts/internal/history"
	"github.com/donaldgifford/shopify-price-alerts/internal/notify"
	"github.com/donaldgifford/shopify-price-alerts/internal/telemetry"
	"github.com/donaldgifford/shopify-price-alerts/internal/webhook"
)

const (
	shutdownTimeout = 10 * time.Second

	// apiPrefix covers the read and reconcile routes guarded by the API token.
	apiPrefix = "/api/v1/"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server and scheduler",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

// engineAPI is everything the HTTP surface needs from the engine.
type engineAPI interface {
	handlers.UpdateProcessor
	handlers.PriceReader
	handlers.Reconciler
}

// serverDeps are the collaborators newServer wires into routes.
type serverDeps struct {
	pinger   history.Pinger
	engine   engineAPI
	verifier *webhook.Verifier
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, &cfg.Telemetry, Version)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}

	store, err := history.Open(ctx, &cfg.History, log)
	if err != nil {
		return fmt.Errorf("opening price history: %w", err)
	}
	log.Info("price history opened", "backend", cfg.History.Backend)

	if err := cfg.ValidateShopify(); err != nil {
		log.Warn("shopify credentials incomplete, product lookups will fail", "error", err)
	}

	notifier, err := notify.New(&cfg.Notifications, log)
	if err != nil {
		store.Close()
		return fmt.Errorf("configuring notifications: %w", err)
	}

	eng := engine.NewEngine(
		newShopifyClient(cfg),
		store,
		notifier,
		engine.WithLogger(log),
		engine.WithThreshold(cfg.Alerts.Threshold()),
		engine.WithFetchTimeout(cfg.Alerts.FetchTimeout),
		engine.WithNotifyTimeout(cfg.Alerts.NotifyTimeout),
		engine.WithShop(cfg.Shopify.Shop),
	)

	if cfg.Server.APIToken == "" {
		log.Warn("PRICE_ALERTS_API_TOKEN is not set, /api/v1 routes accept unauthenticated requests")
	}

	verifier := webhook.NewVerifier(cfg.Shopify.WebhookSecret)
	if !verifier.Configured() {
		log.Error("SHOPIFY_WEBHOOK_SECRET is not set, every webhook will be rejected")
	}

	var sched *engine.Scheduler
	if cfg.Schedule.ReconcileInterval > 0 {
		sched, err = engine.NewScheduler(eng, cfg.Schedule.ReconcileInterval, log)
		if err != nil {
			store.Close()
			return fmt.Errorf("creating scheduler: %w", err)
		}
		sched.Start()
	}

	e := newServer(cfg, log, serverDeps{pinger: store, engine: eng, verifier: verifier})

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			"addr", cfg.Server.Addr(),
			"threshold_pct", cfg.Alerts.Threshold(),
			"version", Version,
		)
		if err := e.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down server")
	case serveErr = <-errCh:
		log.Error("server error", "error", serveErr)
	}

	return shutdown(log, e, sched, store, shutdownTelemetry, serveErr)
}

// shutdown stops intake first, then waits for in-flight work, then
// releases the store and flushes telemetry.
func shutdown(
	log *slog.Logger,
	e *echo.Echo,
	sched *engine.Scheduler,
	store history.Backend,
	flushTelemetry telemetry.ShutdownFunc,
	serveErr error,
) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := []error{serveErr}

	if sched != nil {
		select {
		case <-sched.Stop().Done():
		case <-ctx.Done():
			log.Warn("reconcile still running at shutdown")
		}
	}

	if err := e.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutting down server: %w", err))
	}

	store.Close()

	if err := flushTelemetry(ctx); err != nil {
		log.Warn("flushing telemetry failed", "error", err)
	}

	log.Info("server stopped")
	return errors.Join(errs...)
}

// newServer builds the Echo instance with middleware and every route.
func newServer(cfg *config.Config, log *slog.Logger, deps serverDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Tracing(otel.GetTracerProvider()))
	e.Use(middleware.Metrics())
	e.Use(middleware.APIToken(cfg.Server.APIToken, apiPrefix))

	health := handlers.NewHealthHandler(deps.pinger, handlers.WithHealthLogger(log))
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	wh := handlers.NewWebhookHandler(
		deps.verifier,
		deps.engine,
		handlers.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		handlers.WithWebhookLogger(log),
	)
	e.POST("/webhooks/products/update", wh.ProductUpdate)

	api := humaecho.New(e, huma.DefaultConfig("Shopify Price Alerts API", Version))
	handlers.RegisterPriceRoutes(api, handlers.NewPricesHandler(deps.engine))
	handlers.RegisterReconcileRoutes(api, handlers.NewReconcileHandler(deps.engine))
	openapi.RegisterRoutes(e, openapi.DefaultSpecURL)

	return e
}
