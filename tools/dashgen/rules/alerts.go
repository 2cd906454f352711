package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// shopify-price-alerts operational monitoring.
func AlertRules() PrometheusRule {
	return newPrometheusRule("spa-alerts", "spa-alerts",
		alert("SpaDown",
			`absent(up{job="shopify-price-alerts"})`, "2m", "critical",
			"Shopify Price Alerts is down",
			"The shopify-price-alerts job has been absent for more than 2 minutes."),
		alert("SpaReadinessDown",
			`spa_readyz_up == 0`, "2m", "critical",
			"Shopify Price Alerts readiness check is failing",
			"The price history store has been unreachable for more than 2 minutes."),
		alert("SpaHighErrorRate",
			`spa:http_errors:rate5m / spa:http_requests:rate5m > 0.05`, "5m", "warning",
			"High HTTP error rate on Shopify Price Alerts",
			"More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes."),
		alert("SpaWebhookSignatureFailures",
			`sum(rate(spa_webhooks_total{outcome="unauthorized"}[5m])) > 0.1`, "10m", "warning",
			"Product update webhooks are failing signature checks",
			"Webhooks are being rejected with invalid signatures. Check that the webhook secret matches the app configuration."),
		alert("SpaWebhookSecretMissing",
			`increase(spa_webhooks_total{outcome="misconfigured"}[5m]) > 0`, "0m", "critical",
			"Webhook secret is not configured",
			"Product update webhooks are being refused because no webhook secret is set."),
		alert("SpaShopifyAPIErrors",
			`spa:shopify_api_errors:rate5m > 0.1`, "5m", "warning",
			"Shopify Admin API errors are elevated",
			"Admin API calls are failing at more than 0.1/s for the last 5 minutes."),
		alert("SpaHistoryWriteFailures",
			`increase(spa_history_save_failures_total[5m]) > 0`, "1m", "critical",
			"Price history writes are failing",
			"One or more price history writes failed. Price drops may be missed until the store recovers."),
		alert("SpaNotificationFailures",
			`increase(spa_notification_failures_total[5m]) > 0`, "1m", "warning",
			"Notification delivery failures detected",
			"One or more price drop alert notifications have failed to send."),
	)
}
