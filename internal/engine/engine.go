// Package engine decides whether a product update is a price drop worth
// alerting on, records the new price and dispatches notifications.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/shopify-price-alerts/internal/history"
	"github.com/donaldgifford/shopify-price-alerts/internal/metrics"
	"github.com/donaldgifford/shopify-price-alerts/internal/notify"
	"github.com/donaldgifford/shopify-price-alerts/internal/shopify"
	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

const (
	tracerName = "github.com/donaldgifford/shopify-price-alerts/internal/engine"

	defaultThresholdPercent = 10
	defaultFetchTimeout     = 10 * time.Second
	defaultNotifyTimeout    = 15 * time.Second
)

var (
	// ErrInvalidPayload means the webhook body had no usable product ID.
	ErrInvalidPayload = errors.New("invalid webhook payload")

	// ErrUpstreamFetch means product details could not be retrieved.
	ErrUpstreamFetch = errors.New("fetching product details failed")

	// ErrPersistence means the price history could not be read or written.
	ErrPersistence = errors.New("price history unavailable")

	// ErrNotification means an alert was due but could not be delivered.
	// The new price has already been recorded when this is returned.
	ErrNotification = errors.New("sending price alert failed")
)

// Engine evaluates product updates against the stored price history.
type Engine struct {
	fetcher  shopify.ProductFetcher
	store    history.Store
	notifier notify.Notifier
	log      *slog.Logger
	tracer   trace.Tracer

	threshold     decimal.Decimal
	fetchTimeout  time.Duration
	notifyTimeout time.Duration
	shop          string

	products *keyedMutex
	// storeMu serializes Load→Save; the history is written as a whole.
	storeMu sync.Mutex
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithThreshold sets the alert threshold as a percentage. Non-finite values
// are ignored and the default is kept.
func WithThreshold(pct float64) EngineOption {
	return func(e *Engine) {
		if math.IsNaN(pct) || math.IsInf(pct, 0) {
			return
		}
		e.threshold = decimal.NewFromFloat(pct)
	}
}

// WithFetchTimeout bounds each product detail lookup.
func WithFetchTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.fetchTimeout = d
	}
}

// WithNotifyTimeout bounds each alert delivery.
func WithNotifyTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.notifyTimeout = d
	}
}

// WithShop sets the shop domain used to build admin links in alerts.
func WithShop(shop string) EngineOption {
	return func(e *Engine) {
		e.shop = shop
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) EngineOption {
	return func(e *Engine) {
		e.tracer = t
	}
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	f shopify.ProductFetcher,
	s history.Store,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		fetcher:       f,
		store:         s,
		notifier:      n,
		log:           slog.Default(),
		tracer:        otel.Tracer(tracerName),
		threshold:     decimal.NewFromInt(defaultThresholdPercent),
		fetchTimeout:  defaultFetchTimeout,
		notifyTimeout: defaultNotifyTimeout,
		products:      newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// Threshold returns the configured alert threshold percentage.
func (eng *Engine) Threshold() decimal.Decimal {
	return eng.threshold
}

// ProcessUpdate handles one verified product update webhook. It returns
// the decision even when err wraps ErrNotification.
func (eng *Engine) ProcessUpdate(
	ctx context.Context,
	ev *domain.ProductUpdateEvent,
) (*domain.PriceDecision, error) {
	ctx, span := eng.tracer.Start(ctx, "engine.ProcessUpdate")
	defer span.End()

	productID := ev.ProductID
	if productID == "" {
		id, err := ParseProductID(ev.RawBody)
		if err != nil {
			recordSpanError(span, err)
			return nil, err
		}
		productID = id
	}
	span.SetAttributes(attribute.String("product.id", productID))

	d, err := eng.CheckProduct(ctx, productID)
	if d != nil {
		span.SetAttributes(
			attribute.Bool("price.should_alert", d.ShouldAlert),
			attribute.String("price.decrease_pct", d.PercentageDecrease.StringFixed(2)),
		)
	}
	if err != nil {
		recordSpanError(span, err)
	}
	return d, err
}

// CheckProduct runs the fetch, compare, persist and notify cycle for a
// single product. Calls for the same product are serialized.
func (eng *Engine) CheckProduct(ctx context.Context, productID string) (*domain.PriceDecision, error) {
	unlock := eng.products.Lock(productID)
	defer unlock()

	product, err := eng.fetch(ctx, productID)
	if err != nil {
		eng.log.Error("fetching product details failed", "product_id", productID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
	}

	d, err := eng.record(ctx, product)
	if err != nil {
		metrics.HistorySaveFailuresTotal.Inc()
		eng.log.Error("updating price history failed", "product_id", productID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	eng.logDecision(d)
	metrics.PriceChecksTotal.Inc()
	metrics.PriceDecreasePercent.Observe(max(d.PercentageDecrease.InexactFloat64(), 0))
	if d.FirstObservation {
		metrics.PriceBaselinesTotal.Inc()
	}

	if !d.ShouldAlert {
		return d, nil
	}

	if err := eng.notify(ctx, d); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		eng.log.Error("sending price alert failed",
			"product_id", d.ProductID,
			"decrease_pct", d.PercentageDecrease.StringFixed(2),
			"error", err,
		)
		return d, fmt.Errorf("%w: %w", ErrNotification, err)
	}

	metrics.AlertsFiredTotal.Inc()
	eng.log.Info("price alert sent",
		"product_id", d.ProductID,
		"title", d.Title,
		"decrease_pct", d.PercentageDecrease.StringFixed(2),
	)
	return d, nil
}

func (eng *Engine) fetch(ctx context.Context, productID string) (*domain.Product, error) {
	if eng.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, eng.fetchTimeout)
		defer cancel()
	}
	return eng.fetcher.GetProduct(ctx, productID)
}

// record loads the history, decides and saves the new price. The new
// price is stored whether or not an alert is due.
func (eng *Engine) record(ctx context.Context, p *domain.Product) (*domain.PriceDecision, error) {
	eng.storeMu.Lock()
	defer eng.storeMu.Unlock()

	rec, err := eng.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading price history: %w", err)
	}

	oldPrice, seen := rec[p.ID]
	if !seen {
		oldPrice = p.Price
	}
	pct, alert := Evaluate(oldPrice, p.Price, eng.threshold)

	rec[p.ID] = p.Price
	if err := eng.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving price history: %w", err)
	}
	metrics.TrackedProducts.Set(float64(len(rec)))

	return &domain.PriceDecision{
		ProductID:          p.ID,
		Title:              p.Title,
		OldPrice:           oldPrice,
		NewPrice:           p.Price,
		PercentageDecrease: pct,
		Threshold:          eng.threshold,
		ShouldAlert:        alert,
		FirstObservation:   !seen,
	}, nil
}

func (eng *Engine) notify(ctx context.Context, d *domain.PriceDecision) error {
	if eng.notifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, eng.notifyTimeout)
		defer cancel()
	}
	return eng.notifier.SendAlert(ctx, notify.NewAlertPayload(d, eng.shop))
}

func (eng *Engine) logDecision(d *domain.PriceDecision) {
	if d.FirstObservation {
		eng.log.Info("price baseline recorded",
			"product_id", d.ProductID,
			"new_price", d.NewPrice.String(),
		)
		return
	}
	eng.log.Info("price checked",
		"product_id", d.ProductID,
		"old_price", d.OldPrice.String(),
		"new_price", d.NewPrice.String(),
		"decrease_pct", d.PercentageDecrease.StringFixed(2),
		"threshold", d.Threshold.String(),
		"should_alert", d.ShouldAlert,
	)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
