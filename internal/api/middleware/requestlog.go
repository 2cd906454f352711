package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"

	// RequestIDKey is the echo context key holding the request ID.
	RequestIDKey = "request_id"
)

// probePaths are logged once while healthy; every failure is logged.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header and echo context. Repeated successful health probes
// are suppressed until the probe fails again.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var (
		mu      sync.Mutex
		healthy = make(map[string]bool)
	)

	shouldLog := func(path string, ok bool) bool {
		if _, probe := probePaths[path]; !probe {
			return true
		}
		mu.Lock()
		defer mu.Unlock()
		if !ok {
			healthy[path] = false
			return true
		}
		if healthy[path] {
			return false
		}
		healthy[path] = true
		return true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set(RequestIDKey, reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)
			if err != nil {
				// Let echo write the error response so the status is final.
				c.Error(err)
			}

			path := c.Request().URL.Path
			status := c.Response().Status
			ok := status < http.StatusBadRequest
			if !shouldLog(path, ok) {
				return nil
			}

			level := slog.LevelInfo
			if !ok {
				level = slog.LevelWarn
			}
			log.Log(c.Request().Context(), level, "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return nil
		}
	}
}

// RequestID returns the request ID stored by RequestLog, if any.
func RequestID(c echo.Context) string {
	id, _ := c.Get(RequestIDKey).(string)
	return id
}
