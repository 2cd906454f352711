// Package handlers implements HTTP handlers for the price alert service.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/shopify-price-alerts/internal/history"
)

const defaultReadyTimeout = 2 * time.Second

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	store   history.Pinger
	timeout time.Duration
	log     *slog.Logger
}

// HealthOption configures a HealthHandler.
type HealthOption func(*HealthHandler)

// WithReadyTimeout bounds how long a readiness probe waits on the history
// backend.
func WithReadyTimeout(d time.Duration) HealthOption {
	return func(h *HealthHandler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithHealthLogger sets the logger used for failed readiness probes.
func WithHealthLogger(l *slog.Logger) HealthOption {
	return func(h *HealthHandler) {
		h.log = l
	}
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(p history.Pinger, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		store:   p,
		timeout: defaultReadyTimeout,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Healthz returns 200 if the process is running.
//
// @Summary Liveness check
// @Description Returns 200 if the process is running.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /healthz [get]
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if the price history backend answers a ping within the
// readiness timeout, 503 otherwise.
//
// @Summary Readiness check
// @Description Returns 200 if the price history backend is reachable, 503 otherwise.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} StatusResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.WarnContext(ctx, "readiness check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
