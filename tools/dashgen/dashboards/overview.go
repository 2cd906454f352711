// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/shopify-price-alerts/tools/dashgen/panels"
)

// BuildOverview constructs the price alerts overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Price Alerts Overview").
		Uid("spa-overview").
		Tags([]string{"spa", "shopify-price-alerts"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.TrackedProductsStat()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Webhooks.
	b.WithRow(dashboard.NewRowBuilder("Webhooks").
		WithPanel(panels.WebhookOutcomes()).
		WithPanel(panels.WebhookRejections()))

	// Row 4: Prices.
	b.WithRow(dashboard.NewRowBuilder("Prices").
		WithPanel(panels.PriceChecksRate()).
		WithPanel(panels.DecreaseDistribution()).
		WithPanel(panels.HistorySaveFailures()))

	// Row 5: Alerts.
	b.WithRow(dashboard.NewRowBuilder("Alerts").
		WithPanel(panels.AlertsRate()).
		WithPanel(panels.NotificationLatency()).
		WithPanel(panels.NotificationFailures()))

	// Row 6: Shopify Admin API.
	b.WithRow(dashboard.NewRowBuilder("Shopify Admin API").
		WithPanel(panels.ShopifyCallsRate()).
		WithPanel(panels.ShopifyLatency()).
		WithPanel(panels.ShopifyErrors()))

	// Row 7: Reconcile.
	b.WithRow(dashboard.NewRowBuilder("Reconcile").
		WithPanel(panels.ReconcileRuns()).
		WithPanel(panels.ReconcileDuration()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
