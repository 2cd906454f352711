package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ShopifyCallsRate returns a timeseries panel showing Admin API calls per
// second by operation.
func ShopifyCallsRate() *timeseries.PanelBuilder {
	return newTimeseries("Admin API Calls", "Shopify Admin API calls per second by operation").
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`sum by (operation) (rate(spa_shopify_api_calls_total`+JobSelector()+`[5m]))`,
			"{{operation}}", "A",
		)).
		Unit("reqps").
		Legend(tableLegend("mean", "max")).
		Tooltip(multiTooltip())
}

// ShopifyLatency returns a timeseries panel showing p95 Admin API latency by
// operation.
func ShopifyLatency() *timeseries.PanelBuilder {
	return newTimeseries("Admin API Latency (p95)", "95th percentile Shopify Admin API call duration").
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(spa_shopify_api_duration_seconds_bucket`+JobSelector()+`[5m])) by (le, operation))`,
			"{{operation}}", "A",
		)).
		Unit("s").
		Tooltip(multiTooltip()).
		Thresholds(warnCrit(2, 5))
}

// ShopifyErrors returns a timeseries panel showing failed Admin API calls.
func ShopifyErrors() *timeseries.PanelBuilder {
	return newTimeseries("Admin API Errors", "Failed Shopify Admin API calls per second").
		Span(ThirdWidth).
		WithTarget(PromQuery(`spa:shopify_api_errors:rate5m`, "errors/s", "A")).
		Thresholds(warnCrit(0.1, 1)).
		ColorScheme(colorScheme(dashboard.FieldColorModeIdThresholds))
}
