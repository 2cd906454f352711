package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

func probeStat(title, description, metric string) *stat.PanelBuilder {
	return newStat(title, description).
		WithTarget(PromQuery(metric, "", "A")).
		Thresholds(upDown()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// HealthzStat returns a stat panel showing the health check status.
func HealthzStat() *stat.PanelBuilder {
	return probeStat("Healthz", "Health check status (1 = ok, 0 = failing)", `spa_healthz_up`)
}

// ReadyzStat returns a stat panel showing the readiness check status.
func ReadyzStat() *stat.PanelBuilder {
	return probeStat("Readyz", "Readiness check status (1 = ready, 0 = history store unreachable)", `spa_readyz_up`)
}

// TrackedProductsStat returns a stat panel showing how many products have a
// recorded price.
func TrackedProductsStat() *stat.PanelBuilder {
	return newStat("Tracked Products", "Products in the price history after the last write").
		WithTarget(PromQuery(`spa_tracked_products`+JobSelector(), "", "A")).
		GraphMode(common.BigValueGraphModeArea)
}

// UptimeStat returns a stat panel showing process uptime.
func UptimeStat() *stat.PanelBuilder {
	return newStat("Uptime", "Time since process start").
		WithTarget(PromQuery(`time() - process_start_time_seconds`+JobSelector(), "", "A")).
		Unit("s").
		GraphMode(common.BigValueGraphModeNone)
}
