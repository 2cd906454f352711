package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// AlertsRate returns a timeseries panel showing the rate of price drop alerts
// delivered.
func AlertsRate() *timeseries.PanelBuilder {
	return newTimeseries("Alerts Fired Rate", "Price drop alerts delivered per second").
		Span(ThirdWidth).
		WithTarget(PromQuery(`sum(rate(spa_alerts_fired_total`+JobSelector()+`[5m]))`, "alerts/s", "A"))
}

// NotificationLatency returns a timeseries panel showing the p95 notification
// send latency.
func NotificationLatency() *timeseries.PanelBuilder {
	return newTimeseries("Notification Latency (p95)", "95th percentile alert send latency").
		Span(ThirdWidth).
		WithTarget(PromQuery(`spa:notification_duration:p95_5m`, "p95", "A")).
		Unit("s").
		Thresholds(warnCrit(1, 5))
}

// NotificationFailures returns a stat panel showing notification failures
// in the past 24 hours.
func NotificationFailures() *stat.PanelBuilder {
	return newStat("Notification Failures (24h)", "Failed alert notification deliveries in the last 24 hours").
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(`increase(spa_notification_failures_total`+JobSelector()+`[24h])`, "", "A")).
		Thresholds(warnCrit(1, 5)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
