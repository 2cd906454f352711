package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// PriceChecksRate returns a timeseries panel showing price comparisons and
// new baselines per second.
func PriceChecksRate() *timeseries.PanelBuilder {
	return newTimeseries("Price Checks", "Completed price comparisons and first-seen baselines per second").
		Span(ThirdWidth).
		WithTarget(PromQuery(`rate(spa_price_checks_total`+JobSelector()+`[5m])`, "checks/s", "A")).
		WithTarget(PromQuery(`rate(spa_price_baselines_total`+JobSelector()+`[5m])`, "baselines/s", "B")).
		Tooltip(multiTooltip())
}

// DecreaseDistribution returns a bar gauge panel showing the distribution of
// computed price decreases across histogram buckets.
func DecreaseDistribution() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Price Decrease Distribution").
		Description("Computed price decreases in percent (increases observed as 0)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`sum(increase(spa_price_decrease_percent_bucket`+JobSelector()+`[1h])) by (le)`,
			"{{le}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(thresholds(step{color: "green"})).
		ColorScheme(colorScheme(dashboard.FieldColorModeIdPaletteClassic))
}

// HistorySaveFailures returns a stat panel showing failed history writes
// in the past 24 hours.
func HistorySaveFailures() *stat.PanelBuilder {
	return newStat("History Write Failures (24h)", "Failed price history writes in the last 24 hours").
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(`increase(spa_history_save_failures_total`+JobSelector()+`[24h])`, "", "A")).
		Thresholds(warnCrit(1, 5)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
