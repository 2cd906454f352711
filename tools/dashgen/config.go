package main

import "errors"

// KnownMetrics is the set of metric names exported by shopify-price-alerts
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"spa_http_request_duration_seconds": true,
	"spa_http_requests_total":           true,

	// Health metrics.
	"spa_healthz_up": true,
	"spa_readyz_up":  true,

	// Webhook metrics.
	"spa_webhooks_total": true,

	// Price check metrics.
	"spa_price_checks_total":          true,
	"spa_price_baselines_total":       true,
	"spa_price_decrease_percent":      true,
	"spa_history_save_failures_total": true,
	"spa_tracked_products":            true,

	// Alert metrics.
	"spa_alerts_fired_total":            true,
	"spa_notification_failures_total":   true,
	"spa_notification_duration_seconds": true,

	// Shopify Admin API metrics.
	"spa_shopify_api_calls_total":      true,
	"spa_shopify_api_duration_seconds": true,

	// Reconcile metrics.
	"spa_reconcile_runs_total":       true,
	"spa_reconcile_duration_seconds": true,

	// Recording rules.
	"spa:http_requests:rate5m":         true,
	"spa:http_errors:rate5m":           true,
	"spa:webhooks:rate5m":              true,
	"spa:webhook_rejections:rate5m":    true,
	"spa:shopify_api_errors:rate5m":    true,
	"spa:notification_duration:p95_5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
