// Package config handles loading and validating the application configuration
// from an optional YAML file, an optional dotenv file, and environment
// variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// History backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Shopify       ShopifyConfig       `yaml:"shopify"`
	Alerts        AlertsConfig        `yaml:"alerts"`
	History       HistoryConfig       `yaml:"history"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	// APIToken, when set, is required as a bearer token on /api/v1 routes.
	APIToken string `yaml:"api_token"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ShopifyConfig defines the store, Admin API credentials and the webhook
// shared secret.
type ShopifyConfig struct {
	Shop          string          `yaml:"shop"`
	AccessToken   string          `yaml:"access_token"`
	WebhookSecret string          `yaml:"webhook_secret"`
	APIVersion    string          `yaml:"api_version"`
	Timeout       time.Duration   `yaml:"timeout"`
	RateLimit     RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines client-side Admin API rate limiting.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// AlertsConfig defines the price-drop decision policy.
type AlertsConfig struct {
	ThresholdPercent *float64      `yaml:"threshold_percent"` // default: 10; 0 alerts on any drop
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	NotifyTimeout    time.Duration `yaml:"notify_timeout"`
}

// DefaultThresholdPercent is the alert threshold when none is configured.
const DefaultThresholdPercent = 10.0

// Threshold returns the configured threshold percentage.
func (a *AlertsConfig) Threshold() float64 {
	if a.ThresholdPercent == nil {
		return DefaultThresholdPercent
	}
	return *a.ThresholdPercent
}

// HistoryConfig selects and configures the price history backend.
type HistoryConfig struct {
	Backend  string         `yaml:"backend"` // file, memory, redis, postgres
	Path     string         `yaml:"path"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// RedisConfig defines Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// PostgresConfig defines PostgreSQL connection settings.
type PostgresConfig struct {
	URL      string `yaml:"url"`
	PoolSize int    `yaml:"pool_size"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Email   EmailConfig   `yaml:"email"`
	Discord DiscordConfig `yaml:"discord"`
}

// EmailConfig defines SMTP alert delivery.
type EmailConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	From     string        `yaml:"from"`
	To       []string      `yaml:"to"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// ScheduleConfig defines cron intervals. A zero interval disables the job.
type ScheduleConfig struct {
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
}

// TelemetryConfig defines OpenTelemetry OTLP export.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Options controls where configuration is read from.
type Options struct {
	// Path is an optional YAML config file.
	Path string
	// EnvFile is an optional dotenv file. Process environment wins over it.
	EnvFile string
}

// Load reads the YAML file (if any) with environment variable
// substitution, applies dotenv and environment overrides, fills defaults
// and validates the result.
func Load(opts Options) (*Config, error) {
	cfg := &Config{}

	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path) //nolint:gosec // config path from trusted CLI flag
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	if err := applyEnv(cfg, opts.EnvFile); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyShopifyDefaults(&cfg.Shopify)
	applyAlertsDefaults(&cfg.Alerts)
	applyHistoryDefaults(&cfg.History)
	applyNotificationDefaults(&cfg.Notifications)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 3000
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = 1 << 20
	}
}

func applyShopifyDefaults(s *ShopifyConfig) {
	if s.APIVersion == "" {
		s.APIVersion = "2024-10"
	}
	if s.Timeout == 0 {
		s.Timeout = 15 * time.Second
	}
	if s.RateLimit.PerSecond == 0 {
		s.RateLimit.PerSecond = 2.0
	}
	if s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = 4
	}
}

func applyAlertsDefaults(a *AlertsConfig) {
	if a.ThresholdPercent == nil {
		a.ThresholdPercent = ptr(DefaultThresholdPercent)
	}
	if a.FetchTimeout == 0 {
		a.FetchTimeout = 10 * time.Second
	}
	if a.NotifyTimeout == 0 {
		a.NotifyTimeout = 15 * time.Second
	}
}

func applyHistoryDefaults(h *HistoryConfig) {
	if h.Backend == "" {
		h.Backend = BackendFile
	}
	if h.Path == "" {
		h.Path = "price_history.json"
	}
	if h.Redis.Key == "" {
		h.Redis.Key = "price_history"
	}
	if h.Postgres.PoolSize == 0 {
		h.Postgres.PoolSize = 4
	}
}

func applyNotificationDefaults(n *NotificationsConfig) {
	if n.Email.Port == 0 {
		n.Email.Port = 587
	}
	if n.Email.Timeout == 0 {
		n.Email.Timeout = 15 * time.Second
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Endpoint == "" {
		t.Endpoint = "localhost:4317"
	}
	if t.ServiceName == "" {
		t.ServiceName = "shopify-price-alerts"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

// The webhook secret is deliberately not required here: a missing secret
// is reported on every webhook request as a configuration error.
func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got %d)", cfg.Server.Port))
	}
	if t := cfg.Alerts.Threshold(); math.IsNaN(t) || math.IsInf(t, 0) || t < 0 || t > 100 {
		errs = append(errs, fmt.Errorf("alerts.threshold_percent must be between 0 and 100 (got %g)", t))
	}
	if cfg.Schedule.ReconcileInterval < 0 {
		errs = append(errs, fmt.Errorf("schedule.reconcile_interval must not be negative"))
	}

	switch cfg.History.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if cfg.History.Redis.Addr == "" {
			errs = append(errs, fmt.Errorf("history.redis.addr is required when backend is redis"))
		}
	case BackendPostgres:
		if cfg.History.Postgres.URL == "" {
			errs = append(errs, fmt.Errorf("history.postgres.url is required when backend is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"history.backend must be one of: file, memory, redis, postgres (got %q)",
			cfg.History.Backend,
		))
	}

	if e := cfg.Notifications.Email; e.Enabled {
		if e.Host == "" {
			errs = append(errs, fmt.Errorf("notifications.email.host is required when email is enabled"))
		}
		if e.From == "" {
			errs = append(errs, fmt.Errorf("notifications.email.from is required when email is enabled"))
		}
		if len(e.To) == 0 {
			errs = append(errs, fmt.Errorf("notifications.email.to is required when email is enabled"))
		}
	}
	if d := cfg.Notifications.Discord; d.Enabled && d.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"))
	}

	return errors.Join(errs...)
}

// ValidateShopify reports missing Admin API credentials. Commands that
// talk to the Admin API call it; the webhook server does not need it to
// start.
func (c *Config) ValidateShopify() error {
	var errs []error
	if c.Shopify.Shop == "" {
		errs = append(errs, fmt.Errorf("shopify.shop (SHOP) is required"))
	}
	if c.Shopify.AccessToken == "" {
		errs = append(errs, fmt.Errorf("shopify.access_token (ACCESS_TOKEN) is required"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
