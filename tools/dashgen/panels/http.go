package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RequestRate returns a timeseries panel showing the HTTP request rate.
func RequestRate() *timeseries.PanelBuilder {
	return newTimeseries("Request Rate", "HTTP requests per second").
		Span(ThirdWidth).
		WithTarget(PromQuery(`spa:http_requests:rate5m`, "req/s", "A")).
		Unit("reqps").
		Legend(tableLegend("mean", "max")).
		Tooltip(multiTooltip())
}

func latencyQuantile(q float64) string {
	return fmt.Sprintf(
		`histogram_quantile(%.2f, sum(rate(spa_http_request_duration_seconds_bucket%s[5m])) by (le))`,
		q, JobSelector(),
	)
}

// LatencyPercentiles returns a timeseries panel showing p50, p95, and p99
// HTTP request latencies.
func LatencyPercentiles() *timeseries.PanelBuilder {
	return newTimeseries("Latency Percentiles", "HTTP request duration percentiles").
		Span(ThirdWidth).
		WithTarget(PromQuery(latencyQuantile(0.50), "p50", "A")).
		WithTarget(PromQuery(latencyQuantile(0.95), "p95", "B")).
		WithTarget(PromQuery(latencyQuantile(0.99), "p99", "C")).
		Unit("s").
		Legend(tableLegend("mean", "max")).
		Tooltip(multiTooltip())
}

// ErrorRate returns a timeseries panel showing the HTTP 5xx error rate
// as a percentage.
func ErrorRate() *timeseries.PanelBuilder {
	return newTimeseries("Error Rate %", "HTTP 5xx error rate as percentage of total requests").
		Span(ThirdWidth).
		WithTarget(PromQuery(`spa:http_errors:rate5m / spa:http_requests:rate5m * 100`, "error %", "A")).
		Unit("percent").
		Thresholds(warnCrit(1, 5)).
		ColorScheme(colorScheme(dashboard.FieldColorModeIdThresholds))
}
