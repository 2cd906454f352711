// Package metrics defines Prometheus metrics for shopify-price-alerts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "spa"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last liveness probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last readiness probe succeeded, 0 otherwise.",
	})
)

// Webhook outcomes.
const (
	OutcomeProcessed      = "processed"
	OutcomeUnauthorized   = "unauthorized"
	OutcomeMisconfigured  = "misconfigured"
	OutcomeInvalidPayload = "invalid_payload"
	OutcomeUpstreamFailed = "upstream_failed"
	OutcomePersistFailed  = "persist_failed"
	OutcomeInternalError  = "internal_error"
)

// Webhook metrics.
var (
	WebhooksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhooks_total",
		Help:      "Total number of product update webhooks by outcome.",
	}, []string{"outcome"})
)

// Price check metrics.
var (
	PriceChecksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_checks_total",
		Help:      "Total number of completed price comparisons.",
	})

	PriceBaselinesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_baselines_total",
		Help:      "Total number of first observations that established a baseline.",
	})

	PriceDecreasePercent = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "price_decrease_percent",
		Help:      "Distribution of computed price decreases in percent (increases are observed as 0).",
		Buckets:   []float64{0, 1, 5, 10, 15, 20, 25, 30, 40, 50, 75, 100},
	})

	HistorySaveFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_save_failures_total",
		Help:      "Total number of failed price history writes.",
	})

	TrackedProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tracked_products",
		Help:      "Number of products in the price history after the last write.",
	})
)

// Alert metrics.
var (
	AlertsFiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_fired_total",
		Help:      "Total number of price drop alerts delivered.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})

	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of notification sends in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Shopify Admin API metrics.
var (
	ShopifyAPICallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shopify_api_calls_total",
		Help:      "Total Shopify Admin API calls by operation and result.",
	}, []string{"operation", "result"})

	ShopifyAPIDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "shopify_api_duration_seconds",
		Help:      "Duration of Shopify Admin API calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
)

// Reconcile metrics.
var (
	ReconcileRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_runs_total",
		Help:      "Total reconcile runs by result.",
	}, []string{"result"})

	ReconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reconcile_duration_seconds",
		Help:      "Duration of reconcile runs in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)
