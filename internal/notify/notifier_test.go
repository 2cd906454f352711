package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/shopify-price-alerts/internal/config"
	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

type recordingNotifier struct {
	calls int
	err   error
}

func (r *recordingNotifier) SendAlert(_ context.Context, _ *AlertPayload) error {
	r.calls++
	return r.err
}

func TestNewAlertPayload(t *testing.T) {
	t.Parallel()

	d := &domain.PriceDecision{
		ProductID:          "123",
		Title:              "Widget",
		OldPrice:           decimal.NewFromInt(100),
		NewPrice:           decimal.NewFromInt(75),
		PercentageDecrease: decimal.NewFromInt(25),
		Threshold:          decimal.NewFromInt(10),
		ShouldAlert:        true,
	}

	a := NewAlertPayload(d, "example.myshopify.com")
	assert.Equal(t, "123", a.ProductID)
	assert.Equal(t, "Widget", a.Title)
	assert.True(t, a.PercentageDecrease.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "https://example.myshopify.com/admin/products/123", a.AdminURL)

	assert.Empty(t, NewAlertPayload(d, "").AdminURL)
}

func TestMultiNotifier_SendAlert(t *testing.T) {
	t.Parallel()

	ok := &recordingNotifier{}
	failing := &recordingNotifier{err: errors.New("smtp down")}
	last := &recordingNotifier{}

	m := NewMultiNotifier(ok, failing, last)
	assert.Equal(t, 3, m.Len())

	alert := testAlert("25")
	err := m.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")

	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, last.calls, "later notifiers still run after a failure")
}

func TestMultiNotifier_Empty(t *testing.T) {
	t.Parallel()

	alert := testAlert("25")
	require.NoError(t, NewMultiNotifier().SendAlert(context.Background(), &alert))
}

func TestNew(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	email := config.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "alerts@example.com",
		To:      []string{"ops@example.com"},
	}
	discord := config.DiscordConfig{Enabled: true, WebhookURL: "https://discord.example/hook"}

	tests := []struct {
		name    string
		cfg     config.NotificationsConfig
		check   func(t *testing.T, n Notifier)
		wantErr bool
	}{
		{
			name: "nothing configured",
			check: func(t *testing.T, n Notifier) {
				t.Helper()
				assert.IsType(t, &NoOpNotifier{}, n)
			},
		},
		{
			name: "email only",
			cfg:  config.NotificationsConfig{Email: email},
			check: func(t *testing.T, n Notifier) {
				t.Helper()
				assert.IsType(t, &EmailNotifier{}, n)
			},
		},
		{
			name: "discord only",
			cfg:  config.NotificationsConfig{Discord: discord},
			check: func(t *testing.T, n Notifier) {
				t.Helper()
				assert.IsType(t, &DiscordNotifier{}, n)
			},
		},
		{
			name: "email and discord",
			cfg:  config.NotificationsConfig{Email: email, Discord: discord},
			check: func(t *testing.T, n Notifier) {
				t.Helper()
				m, ok := n.(*MultiNotifier)
				require.True(t, ok)
				assert.Equal(t, 2, m.Len())
			},
		},
		{
			name:    "email without recipients",
			cfg:     config.NotificationsConfig{Email: config.EmailConfig{Enabled: true, Host: "h", Port: 587, From: "a@b.c"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n, err := New(&tt.cfg, log)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, n)
		})
	}
}
