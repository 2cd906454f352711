package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("spa-recording-rules", "spa-recording",
		Rule{
			Record: "spa:http_requests:rate5m",
			Expr:   `sum(rate(spa_http_requests_total[5m]))`,
		},
		Rule{
			Record: "spa:http_errors:rate5m",
			Expr:   `sum(rate(spa_http_requests_total{status=~"5.."}[5m]))`,
		},
		Rule{
			Record: "spa:webhooks:rate5m",
			Expr:   `sum(rate(spa_webhooks_total[5m]))`,
		},
		Rule{
			Record: "spa:webhook_rejections:rate5m",
			Expr:   `sum(rate(spa_webhooks_total{outcome!="processed"}[5m]))`,
		},
		Rule{
			Record: "spa:shopify_api_errors:rate5m",
			Expr:   `sum(rate(spa_shopify_api_calls_total{result="error"}[5m]))`,
		},
		Rule{
			Record: "spa:notification_duration:p95_5m",
			Expr:   `histogram_quantile(0.95, sum(rate(spa_notification_duration_seconds_bucket[5m])) by (le))`,
		},
	)
}
