package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ReconcileRuns returns a stat panel showing reconcile runs in the past 24
// hours by result.
func ReconcileRuns() *stat.PanelBuilder {
	return newStat("Reconcile Runs (24h)", "Reconcile passes in the last 24 hours by result").
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum by (result) (increase(spa_reconcile_runs_total`+JobSelector()+`[24h]))`,
			"{{result}}", "A",
		)).
		ColorScheme(colorScheme(dashboard.FieldColorModeIdPaletteClassic)).
		GraphMode(common.BigValueGraphModeNone)
}

// ReconcileDuration returns a timeseries panel showing p95 reconcile run
// duration.
func ReconcileDuration() *timeseries.PanelBuilder {
	return newTimeseries("Reconcile Duration (p95)", "95th percentile duration of a full reconcile pass").
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(spa_reconcile_duration_seconds_bucket`+JobSelector()+`[1h])) by (le))`,
			"p95", "A",
		)).
		Unit("s")
}
