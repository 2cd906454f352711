package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load consults so the host environment
// cannot leak into a test case. Empty values are treated as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvWebhookSecret, EnvShop, EnvAccessToken, EnvAPIVersion, EnvThreshold,
		EnvPort, EnvSMTPHost, EnvSMTPPort, EnvSMTPUser, EnvSMTPPass, EnvEmailFrom,
		EnvEmailTo, EnvDiscordURL, EnvHistoryPath, EnvHistoryStore, EnvRedisAddr,
		EnvRedisPassword, EnvDatabaseURL, EnvReconcile, EnvLogLevel, EnvLogFormat,
		EnvAPIToken,
	} {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "empty config gets defaults",
			yaml: ``,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 3000, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
				assert.Equal(t, "2024-10", cfg.Shopify.APIVersion)
				assert.InDelta(t, 10.0, cfg.Alerts.Threshold(), 0)
				assert.Equal(t, 10*time.Second, cfg.Alerts.FetchTimeout)
				assert.Equal(t, 15*time.Second, cfg.Alerts.NotifyTimeout)
				assert.Equal(t, BackendFile, cfg.History.Backend)
				assert.Equal(t, "price_history.json", cfg.History.Path)
				assert.Equal(t, 587, cfg.Notifications.Email.Port)
				assert.False(t, cfg.Notifications.Email.Enabled)
				assert.Zero(t, cfg.Schedule.ReconcileInterval)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
				assert.Empty(t, cfg.Shopify.WebhookSecret, "missing secret must not fail loading")
			},
		},
		{
			name: "yaml values",
			yaml: `
server:
  port: 8080
shopify:
  shop: example.myshopify.com
  access_token: shpat_123
  webhook_secret: s3cret
alerts:
  threshold_percent: 20
history:
  backend: memory
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "example.myshopify.com", cfg.Shopify.Shop)
				assert.Equal(t, "s3cret", cfg.Shopify.WebhookSecret)
				assert.InDelta(t, 20.0, cfg.Alerts.Threshold(), 0)
				assert.Equal(t, BackendMemory, cfg.History.Backend)
				assert.NoError(t, cfg.ValidateShopify())
			},
		},
		{
			name: "explicit zero threshold is kept",
			yaml: `
alerts:
  threshold_percent: 0
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Zero(t, cfg.Alerts.Threshold())
			},
		},
		{
			name: "yaml env var substitution",
			yaml: `
shopify:
  webhook_secret: "${TEST_HOOK_SECRET}"
`,
			envVars: map[string]string{"TEST_HOOK_SECRET": "from-yaml-env"},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "from-yaml-env", cfg.Shopify.WebhookSecret)
			},
		},
		{
			name: "api token from yaml and env",
			yaml: `
server:
  api_token: yaml-token
`,
			envVars: map[string]string{EnvAPIToken: "env-token"},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "env-token", cfg.Server.APIToken)
			},
		},
		{
			name: "environment overrides yaml",
			yaml: `
server:
  port: 8080
alerts:
  threshold_percent: 20
`,
			envVars: map[string]string{
				EnvPort:          "4000",
				EnvThreshold:     "12.5",
				EnvWebhookSecret: "env-secret",
				EnvSMTPHost:      "smtp.example.com",
				EnvSMTPPort:      "2525",
				EnvEmailFrom:     "alerts@example.com",
				EnvEmailTo:       "ops@example.com, buyer@example.com",
				EnvReconcile:     "1h",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 4000, cfg.Server.Port)
				assert.InDelta(t, 12.5, cfg.Alerts.Threshold(), 0)
				assert.Equal(t, "env-secret", cfg.Shopify.WebhookSecret)
				assert.True(t, cfg.Notifications.Email.Enabled)
				assert.Equal(t, 2525, cfg.Notifications.Email.Port)
				assert.Equal(t, []string{"ops@example.com", "buyer@example.com"}, cfg.Notifications.Email.To)
				assert.Equal(t, time.Hour, cfg.Schedule.ReconcileInterval)
			},
		},
		{
			name:    "invalid threshold env",
			envVars: map[string]string{EnvThreshold: "ten"},
			wantErr: "PRICE_DECREASE_THRESHOLD must be a number",
		},
		{
			name:    "invalid port env",
			envVars: map[string]string{EnvPort: "http"},
			wantErr: "PORT must be an integer",
		},
		{
			name: "threshold out of range",
			yaml: `
alerts:
  threshold_percent: 150
`,
			wantErr: "alerts.threshold_percent must be between 0 and 100",
		},
		{
			name: "threshold not a number in yaml",
			yaml: `
alerts:
  threshold_percent: .nan
`,
			wantErr: "alerts.threshold_percent must be between 0 and 100 (got NaN)",
		},
		{
			name:    "threshold not a number from env",
			envVars: map[string]string{EnvThreshold: "NaN"},
			wantErr: "alerts.threshold_percent must be between 0 and 100 (got NaN)",
		},
		{
			name:    "threshold infinite from env",
			envVars: map[string]string{EnvThreshold: "-Inf"},
			wantErr: "alerts.threshold_percent must be between 0 and 100 (got -Inf)",
		},
		{
			name: "invalid history backend",
			yaml: `
history:
  backend: sqlite
`,
			wantErr: `history.backend must be one of: file, memory, redis, postgres (got "sqlite")`,
		},
		{
			name: "redis backend requires addr",
			yaml: `
history:
  backend: redis
`,
			wantErr: "history.redis.addr is required",
		},
		{
			name: "postgres backend requires url",
			yaml: `
history:
  backend: postgres
`,
			wantErr: "history.postgres.url is required",
		},
		{
			name: "email enabled without recipients",
			yaml: `
notifications:
  email:
    enabled: true
    host: smtp.example.com
    from: alerts@example.com
`,
			wantErr: "notifications.email.to is required",
		},
		{
			name: "discord enabled without url",
			yaml: `
notifications:
  discord:
    enabled: true
`,
			wantErr: "notifications.discord.webhook_url is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			path := writeFile(t, "config.yaml", tt.yaml)

			cfg, err := Load(Options{Path: path})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvShop, "example.myshopify.com")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "example.myshopify.com", cfg.Shopify.Shop)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoad_FileNotFound(t *testing.T) {
	clearEnv(t)

	_, err := Load(Options{Path: "/nonexistent/config.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	envFile := writeFile(t, ".env", `
SHOP=dotenv-shop.myshopify.com
ACCESS_TOKEN=shpat_dotenv
SHOPIFY_WEBHOOK_SECRET=dotenv-secret
PRICE_DECREASE_THRESHOLD=15
`)
	t.Setenv(EnvWebhookSecret, "process-secret")

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "dotenv-shop.myshopify.com", cfg.Shopify.Shop)
	assert.Equal(t, "shpat_dotenv", cfg.Shopify.AccessToken)
	assert.Equal(t, "process-secret", cfg.Shopify.WebhookSecret, "process environment wins over the env file")
	assert.InDelta(t, 15.0, cfg.Alerts.Threshold(), 0)
}

func TestLoad_EnvFileMissing(t *testing.T) {
	clearEnv(t)

	_, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading env file")
}

func TestValidateShopify(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	err := cfg.ValidateShopify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHOP")
	assert.Contains(t, err.Error(), "ACCESS_TOKEN")
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 3000}
	assert.Equal(t, "127.0.0.1:3000", s.Addr())
}
