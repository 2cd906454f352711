// Package panels provides Grafana dashboard panel builders for
// shopify-price-alerts metrics.
package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// Job is the Prometheus scrape job name for the service.
const Job = "shopify-price-alerts"

// Standard panel dimensions for a 24-column grid.
const (
	StatWidth  = 6
	StatHeight = 4

	TSWidth  = 12
	TSHeight = 8

	ThirdWidth = 8
)

// JobSelector returns a label matcher restricting a series to the service job.
func JobSelector() string {
	return `{job="` + Job + `"}`
}

// DSRef returns a datasource reference pointing at the ${datasource}
// template variable.
func DSRef() dashboard.DataSourceRef {
	return dashboard.DataSourceRef{
		Type: cog.ToPtr("prometheus"),
		Uid:  cog.ToPtr("${datasource}"),
	}
}

// PromQuery builds a Prometheus query target.
func PromQuery(expr, legendFormat, refID string) *prometheus.DataqueryBuilder {
	return prometheus.NewDataqueryBuilder().
		Expr(expr).
		LegendFormat(legendFormat).
		RefId(refID)
}

// newTimeseries returns a line chart with the house defaults applied. Callers
// set span, targets, and anything that differs.
func newTimeseries(title, description string) *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(TSHeight).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(thresholds(step{color: "green"})).
		ColorScheme(colorScheme(dashboard.FieldColorModeIdPaletteClassic)).
		DrawStyle(common.GraphDrawStyleLine)
}

// newStat returns a stat panel with the house defaults applied.
func newStat(title, description string) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		Thresholds(thresholds(step{color: "green"})).
		ColorScheme(colorScheme(dashboard.FieldColorModeIdThresholds))
}

// step is one threshold boundary. The first step of a set has no value.
type step struct {
	from  *float64
	color string
}

func at(v float64, color string) step {
	return step{from: cog.ToPtr(v), color: color}
}

func thresholds(steps ...step) cog.Builder[dashboard.ThresholdsConfig] {
	out := make([]dashboard.Threshold, 0, len(steps))
	for _, s := range steps {
		out = append(out, dashboard.Threshold{Value: s.from, Color: s.color})
	}
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps(out)
}

// upDown is red below 1 and green at 1, for 0/1 probe gauges.
func upDown() cog.Builder[dashboard.ThresholdsConfig] {
	return thresholds(step{color: "red"}, at(1, "green"))
}

// warnCrit is green, then yellow at warn, then red at crit.
func warnCrit(warn, crit float64) cog.Builder[dashboard.ThresholdsConfig] {
	return thresholds(step{color: "green"}, at(warn, "yellow"), at(crit, "red"))
}

func colorScheme(mode dashboard.FieldColorModeId) cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().Mode(mode)
}

// tableLegend shows the legend as a table below the chart with the given
// calculation columns.
func tableLegend(calcs ...string) *common.VizLegendOptionsBuilder {
	return common.NewVizLegendOptionsBuilder().
		DisplayMode(common.LegendDisplayModeTable).
		Placement(common.LegendPlacementBottom).
		Calcs(calcs)
}

// multiTooltip shows all series sorted descending.
func multiTooltip() *common.VizTooltipOptionsBuilder {
	return common.NewVizTooltipOptionsBuilder().
		Mode(common.TooltipDisplayModeMulti).
		Sort(common.SortOrderDescending)
}
