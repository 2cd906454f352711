package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/donaldgifford/shopify-price-alerts/internal/metrics"
	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

// ErrProductNotTracked is returned when a product has no price history.
var ErrProductNotTracked = errors.New("product not tracked")

// ReconcileResult summarizes a reconcile run.
type ReconcileResult struct {
	Checked int `json:"checked"`
	Alerts  int `json:"alerts"`
	Failed  int `json:"failed"`
}

// RunReconcile re-checks every tracked product against Shopify, catching
// price changes whose webhooks were missed. Per-product failures do not
// stop the run; they are joined into the returned error.
func (eng *Engine) RunReconcile(ctx context.Context) (*ReconcileResult, error) {
	start := time.Now()
	res := &ReconcileResult{}
	result := "success"
	defer func() {
		metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
		metrics.ReconcileRunsTotal.WithLabelValues(result).Inc()
	}()

	rec, err := eng.store.Load(ctx)
	if err != nil {
		result = "error"
		return res, fmt.Errorf("%w: loading price history: %w", ErrPersistence, err)
	}

	var errs []error
	for _, id := range rec.ProductIDs() {
		if ctx.Err() != nil {
			result = "error"
			return res, ctx.Err()
		}

		d, err := eng.CheckProduct(ctx, id)
		if d != nil {
			res.Checked++
			if d.ShouldAlert && !errors.Is(err, ErrNotification) {
				res.Alerts++
			}
		}
		if err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("product %s: %w", id, err))
		}
	}

	if len(errs) > 0 {
		result = "partial"
	}
	eng.log.Info("reconcile complete",
		"checked", res.Checked,
		"alerts", res.Alerts,
		"failed", res.Failed,
		"duration", time.Since(start),
	)
	return res, errors.Join(errs...)
}

// Prices returns every tracked product's last observed price, ordered by
// product ID.
func (eng *Engine) Prices(ctx context.Context) ([]domain.PriceEntry, error) {
	rec, err := eng.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	entries := make([]domain.PriceEntry, 0, len(rec))
	for _, id := range rec.ProductIDs() {
		entries = append(entries, domain.PriceEntry{ProductID: id, Price: rec[id]})
	}
	return entries, nil
}

// Price returns the last observed price of a single product.
func (eng *Engine) Price(ctx context.Context, productID string) (*domain.PriceEntry, error) {
	rec, err := eng.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	price, ok := rec[productID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", productID, ErrProductNotTracked)
	}
	return &domain.PriceEntry{ProductID: productID, Price: price}, nil
}
