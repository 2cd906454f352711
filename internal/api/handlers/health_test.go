package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/shopify-price-alerts/internal/api/handlers"
	"github.com/donaldgifford/shopify-price-alerts/internal/history/mocks"
)

func TestHealthz(t *testing.T) {
	t.Parallel()

	mockPinger := mocks.NewMockPinger(t)
	h := handlers.NewHealthHandler(mockPinger)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Healthz(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "returns 200 when history ping succeeds",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
		{
			name:       "returns 503 when history ping fails",
			pingErr:    errors.New("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockPinger := mocks.NewMockPinger(t)
			mockPinger.EXPECT().Ping(mock.Anything).Return(tt.pingErr)

			h := handlers.NewHealthHandler(mockPinger, handlers.WithHealthLogger(quietLogger()))

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.Readyz(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestReadyz_PingTimeout(t *testing.T) {
	t.Parallel()

	mockPinger := mocks.NewMockPinger(t)
	mockPinger.EXPECT().Ping(mock.Anything).RunAndReturn(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	var buf bytes.Buffer
	h := handlers.NewHealthHandler(
		mockPinger,
		handlers.WithReadyTimeout(10*time.Millisecond),
		handlers.WithHealthLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody), rec)

	require.NoError(t, h.Readyz(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, buf.String(), "readiness check failed")
	assert.Contains(t, buf.String(), "deadline exceeded")
}
