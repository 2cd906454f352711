package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/shopify-price-alerts/tools/dashgen/dashboards"
	"github.com/donaldgifford/shopify-price-alerts/tools/dashgen/rules"
	"github.com/donaldgifford/shopify-price-alerts/tools/dashgen/validate"
)

func TestDefaultConfigValid(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_EmptyOutputDir(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "", DashboardEnabled: true}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_NothingEnabled(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "/tmp", DashboardEnabled: false, RulesEnabled: false}
	assert.Error(t, cfg.Validate())
}

func TestBuildOverviewDashboard(t *testing.T) {
	t.Parallel()

	builder := dashboards.BuildOverview()
	dash, err := builder.Build()
	require.NoError(t, err)

	require.NotNil(t, dash.Uid)
	assert.Equal(t, "spa-overview", *dash.Uid)

	require.NotNil(t, dash.Title)
	assert.Equal(t, "Price Alerts Overview", *dash.Title)

	require.NotNil(t, dash.Templating)
	assert.Len(t, dash.Templating.List, 1)
	assert.Equal(t, "datasource", dash.Templating.List[0].Name)

	assert.Len(t, dash.Panels, 7)

	totalPanels := 0
	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			totalPanels += len(p.RowPanel.Panels)
		}
	}
	assert.Equal(t, 20, totalPanels)

	result := validate.Dashboard(dash, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)
}

func TestRecordingRules(t *testing.T) {
	t.Parallel()

	cr := rules.RecordingRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "spa-recording-rules", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "spa-recording", group.Name)

	expectedRecords := []string{
		"spa:http_requests:rate5m",
		"spa:http_errors:rate5m",
		"spa:webhooks:rate5m",
		"spa:webhook_rejections:rate5m",
		"spa:shopify_api_errors:rate5m",
		"spa:notification_duration:p95_5m",
	}
	require.Len(t, group.Rules, len(expectedRecords))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedRecords[i], rule.Record)
		assert.NotEmpty(t, rule.Expr)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)

	data, err := yaml.Marshal(cr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiVersion: monitoring.coreos.com/v1")
}

func TestAlertRules(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	assert.Equal(t, "spa-alerts", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "spa-alerts", group.Name)

	expectedAlerts := []string{
		"SpaDown",
		"SpaReadinessDown",
		"SpaHighErrorRate",
		"SpaWebhookSignatureFailures",
		"SpaWebhookSecretMissing",
		"SpaShopifyAPIErrors",
		"SpaHistoryWriteFailures",
		"SpaNotificationFailures",
	}
	require.Len(t, group.Rules, len(expectedAlerts))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedAlerts[i], rule.Alert)
		assert.NotEmpty(t, rule.Expr)
		assert.NotEmpty(t, rule.Labels["severity"], "alert %s missing severity", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], "alert %s missing summary", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], "alert %s missing description", rule.Alert)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
}

func TestValidateRules_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule rules.Rule
	}{
		{name: "unparsable", rule: rules.Rule{Alert: "Bad", Expr: `sum(rate(spa_webhooks_total[5m]`}},
		{name: "unknown metric", rule: rules.Rule{Alert: "Bad", Expr: `spa_orders_total > 1`}},
		{name: "empty", rule: rules.Rule{Alert: "Bad", Expr: " "}},
		{name: "unnamed", rule: rules.Rule{Expr: `up`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cr := rules.PrometheusRule{Spec: rules.PrometheusRuleSpec{
				Groups: []rules.RuleGroup{{Name: "g", Rules: []rules.Rule{tt.rule}}},
			}}
			assert.False(t, validate.Rules(cr, KnownMetrics).Ok())
		})
	}
}

func TestRun_WritesArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := Config{OutputDir: dir, DashboardEnabled: true, RulesEnabled: true}
	require.NoError(t, run(cfg, false))

	for _, path := range []string{
		filepath.Join(dir, "grafana", "data", "spa-overview.json"),
		filepath.Join(dir, "prometheus", "spa-recording-rules.yaml"),
		filepath.Join(dir, "prometheus", "spa-alerts.yaml"),
	} {
		data, err := os.ReadFile(path)
		require.NoError(t, err, "reading %s", path)
		assert.NotEmpty(t, data)
	}

	alerts, err := os.ReadFile(filepath.Join(dir, "prometheus", "spa-alerts.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(alerts), generatedHeader)
}

func TestRun_ValidateOnlyWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := Config{OutputDir: dir, DashboardEnabled: true, RulesEnabled: true}
	require.NoError(t, run(cfg, true))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
