package notify

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOpNotifier_SendAlert(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := NewNoOpNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	alert := testAlert("25")

	require.NoError(t, n.SendAlert(context.Background(), &alert))
	assert.Contains(t, buf.String(), "price alert discarded")
	assert.Contains(t, buf.String(), "product_id=123")
}

func TestNoOpNotifier_Quiet(t *testing.T) {
	t.Parallel()

	n := NewNoOpNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, n.SendAlert(context.Background(), &AlertPayload{ProductID: "1"}))
}

// compile-time interface checks.
var (
	_ Notifier = (*NoOpNotifier)(nil)
	_ Notifier = (*DiscordNotifier)(nil)
	_ Notifier = (*EmailNotifier)(nil)
	_ Notifier = (*MultiNotifier)(nil)
)
