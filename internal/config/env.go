package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment variable names. They match the variables the original
// deployment's .env files already use.
const (
	EnvWebhookSecret = "SHOPIFY_WEBHOOK_SECRET"
	EnvShop          = "SHOP"
	EnvAccessToken   = "ACCESS_TOKEN"
	EnvAPIVersion    = "SHOPIFY_API_VERSION"
	EnvThreshold     = "PRICE_DECREASE_THRESHOLD"
	EnvPort          = "PORT"
	EnvSMTPHost      = "SMTP_HOST"
	EnvSMTPPort      = "SMTP_PORT"
	EnvSMTPUser      = "SMTP_USER"
	EnvSMTPPass      = "SMTP_PASS"
	EnvEmailFrom     = "EMAIL_FROM"
	EnvEmailTo       = "EMAIL_TO"
	EnvDiscordURL    = "DISCORD_WEBHOOK_URL"
	EnvHistoryPath   = "PRICE_HISTORY_FILE"
	EnvHistoryStore  = "PRICE_HISTORY_BACKEND"
	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvDatabaseURL   = "DATABASE_URL"
	EnvReconcile     = "RECONCILE_INTERVAL"
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFormat     = "LOG_FORMAT"
	EnvAPIToken      = "PRICE_ALERTS_API_TOKEN"
)

// envSource resolves variables from the process environment first, then
// from an optional dotenv file.
type envSource struct {
	env  *viper.Viper
	file *viper.Viper
}

func newEnvSource(envFile string) (*envSource, error) {
	s := &envSource{env: viper.New()}
	s.env.AutomaticEnv()

	if envFile != "" {
		s.file = viper.New()
		s.file.SetConfigFile(envFile)
		s.file.SetConfigType("env")
		if err := s.file.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading env file %s: %w", envFile, err)
		}
	}
	return s, nil
}

func (s *envSource) lookup(name string) (string, bool) {
	if s.env.IsSet(name) {
		return s.env.GetString(name), true
	}
	if s.file != nil {
		key := strings.ToLower(name)
		if s.file.IsSet(key) {
			return s.file.GetString(key), true
		}
	}
	return "", false
}

func (s *envSource) str(name string, dst *string) {
	if v, ok := s.lookup(name); ok {
		*dst = v
	}
}

func (s *envSource) integer(name string, dst *int) error {
	v, ok := s.lookup(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s must be an integer (got %q)", name, v)
	}
	*dst = n
	return nil
}

func (s *envSource) duration(name string, dst *time.Duration) error {
	v, ok := s.lookup(name)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s must be a duration (got %q)", name, v)
	}
	*dst = d
	return nil
}

func applyEnv(cfg *Config, envFile string) error {
	src, err := newEnvSource(envFile)
	if err != nil {
		return err
	}

	src.str(EnvWebhookSecret, &cfg.Shopify.WebhookSecret)
	src.str(EnvShop, &cfg.Shopify.Shop)
	src.str(EnvAccessToken, &cfg.Shopify.AccessToken)
	src.str(EnvAPIVersion, &cfg.Shopify.APIVersion)

	if v, ok := src.lookup(EnvThreshold); ok {
		t, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s must be a number (got %q)", EnvThreshold, v)
		}
		cfg.Alerts.ThresholdPercent = &t
	}

	src.str(EnvAPIToken, &cfg.Server.APIToken)

	if err := src.integer(EnvPort, &cfg.Server.Port); err != nil {
		return err
	}

	src.str(EnvSMTPHost, &cfg.Notifications.Email.Host)
	if err := src.integer(EnvSMTPPort, &cfg.Notifications.Email.Port); err != nil {
		return err
	}
	src.str(EnvSMTPUser, &cfg.Notifications.Email.Username)
	src.str(EnvSMTPPass, &cfg.Notifications.Email.Password)
	src.str(EnvEmailFrom, &cfg.Notifications.Email.From)
	if v, ok := src.lookup(EnvEmailTo); ok {
		cfg.Notifications.Email.To = splitList(v)
	}
	// An SMTP host in the environment is how the original deployment
	// turned email on.
	if _, ok := src.lookup(EnvSMTPHost); ok {
		cfg.Notifications.Email.Enabled = true
	}

	if v, ok := src.lookup(EnvDiscordURL); ok && v != "" {
		cfg.Notifications.Discord.WebhookURL = v
		cfg.Notifications.Discord.Enabled = true
	}

	src.str(EnvHistoryStore, &cfg.History.Backend)
	src.str(EnvHistoryPath, &cfg.History.Path)
	src.str(EnvRedisAddr, &cfg.History.Redis.Addr)
	src.str(EnvRedisPassword, &cfg.History.Redis.Password)
	src.str(EnvDatabaseURL, &cfg.History.Postgres.URL)

	if err := src.duration(EnvReconcile, &cfg.Schedule.ReconcileInterval); err != nil {
		return err
	}

	src.str(EnvLogLevel, &cfg.Logging.Level)
	src.str(EnvLogFormat, &cfg.Logging.Format)

	return nil
}
