package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// WebhookOutcomes returns a timeseries panel of product update webhooks per
// second, split by outcome.
func WebhookOutcomes() *timeseries.PanelBuilder {
	return newTimeseries("Webhooks by Outcome", "Product update webhooks per second by outcome").
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum by (outcome) (rate(spa_webhooks_total`+JobSelector()+`[5m]))`,
			"{{outcome}}", "A",
		)).
		Unit("reqps").
		Legend(tableLegend("mean", "max")).
		Tooltip(multiTooltip())
}

// WebhookRejections returns a stat panel showing the share of webhooks that
// were not processed.
func WebhookRejections() *stat.PanelBuilder {
	return newStat("Webhook Rejections %", "Share of webhooks rejected or failed over the last 5 minutes").
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`spa:webhook_rejections:rate5m / spa:webhooks:rate5m * 100`, "", "A")).
		Unit("percent").
		Thresholds(warnCrit(1, 10)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
