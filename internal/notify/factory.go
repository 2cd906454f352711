package notify

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/donaldgifford/shopify-price-alerts/internal/config"
)

const discordTimeout = 10 * time.Second

// New builds the notifier described by cfg. Enabled backends are combined
// with a MultiNotifier; with none enabled, alerts go to a NoOpNotifier.
func New(cfg *config.NotificationsConfig, log *slog.Logger) (Notifier, error) {
	var notifiers []Notifier

	if cfg.Email.Enabled {
		e, err := NewEmailNotifier(EmailConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			To:       cfg.Email.To,
			Timeout:  cfg.Email.Timeout,
		})
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, e)
		log.Info("email notifications enabled", "host", cfg.Email.Host, "recipients", len(cfg.Email.To))
	}

	if cfg.Discord.Enabled {
		notifiers = append(notifiers, NewDiscordNotifier(
			cfg.Discord.WebhookURL,
			WithHTTPClient(&http.Client{
				Timeout:   discordTimeout,
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			}),
		))
		log.Info("discord notifications enabled")
	}

	switch len(notifiers) {
	case 0:
		log.Warn("no notification backend configured, alerts will only be logged")
		return NewNoOpNotifier(log), nil
	case 1:
		return notifiers[0], nil
	default:
		return NewMultiNotifier(notifiers...), nil
	}
}
