package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/shopify-price-alerts/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "info", input: "info", want: slog.LevelInfo},
		{name: "warn", input: "warn", want: slog.LevelWarn},
		{name: "warning alias", input: "warning", want: slog.LevelWarn},
		{name: "upper case", input: "DEBUG", want: slog.LevelDebug},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "empty defaults to info", input: "", want: slog.LevelInfo},
		{name: "unknown defaults to info", input: "trace", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := logger.ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	l := logger.New("info", "text")
	require.NotNil(t, l)
}

func TestNewWithWriter_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		want   []string
	}{
		{name: "text", format: "text", want: []string{"level=INFO", "msg=\"price checked\"", "product_id=42"}},
		{name: "json", format: "json", want: []string{`"level":"INFO"`, `"msg":"price checked"`, `"product_id":"42"`}},
		{name: "json upper case", format: "JSON", want: []string{`"msg":"price checked"`}},
		{name: "unknown falls back to text", format: "logfmt", want: []string{"level=INFO"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := logger.NewWithWriter(&buf, "info", tt.format)
			l.Info("price checked", "product_id", "42")

			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		configured string
		emit       slog.Level
		wantOutput bool
	}{
		{configured: "debug", emit: slog.LevelDebug, wantOutput: true},
		{configured: "info", emit: slog.LevelDebug, wantOutput: false},
		{configured: "info", emit: slog.LevelInfo, wantOutput: true},
		{configured: "warn", emit: slog.LevelInfo, wantOutput: false},
		{configured: "warning", emit: slog.LevelWarn, wantOutput: true},
		{configured: "error", emit: slog.LevelWarn, wantOutput: false},
	}

	for _, tt := range tests {
		t.Run(tt.configured+"/"+tt.emit.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := logger.NewWithWriter(&buf, tt.configured, "text")
			l.Log(context.Background(), tt.emit, "alert sent")

			assert.Equal(t, tt.wantOutput, buf.Len() > 0)
		})
	}
}

func TestNewWithWriter_RedactsCredentials(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "info", "json")
	l.Info("connecting",
		"shop", "example.myshopify.com",
		"access_token", "shpat_abc123",
		"password", "hunter2",
	)

	output := buf.String()
	assert.Contains(t, output, "example.myshopify.com")
	assert.NotContains(t, output, "shpat_abc123")
	assert.NotContains(t, output, "hunter2")
	assert.Contains(t, output, logger.Redacted)
}

func TestNewWithWriter_TraceCorrelation(t *testing.T) {
	t.Parallel()

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "info", "text").With("component", "engine")
	l.InfoContext(ctx, "price checked")

	output := buf.String()
	assert.Contains(t, output, "trace_id=4bf92f3577b34da6a3ce929d0e0e4736")
	assert.Contains(t, output, "span_id=00f067aa0ba902b7")
	assert.Contains(t, output, "component=engine")

	buf.Reset()
	l.Info("no span")
	assert.NotContains(t, buf.String(), "trace_id")
}
