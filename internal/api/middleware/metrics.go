// Package middleware provides Echo middleware for shopify-price-alerts.
package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/shopify-price-alerts/internal/metrics"
)

// metricsSkipPaths are probe and scrape endpoints excluded from request
// metrics.
var metricsSkipPaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
	"/readyz":  {},
}

// healthGauges maps probe paths to their 0/1 gauge.
var healthGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics returns Echo middleware that records request duration and status
// labelled by route template, so product IDs never become label values.
// Probe paths update up/down gauges instead.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			if _, skip := metricsSkipPaths[path]; skip {
				err := next(c)
				updateHealthGauge(path, c.Response().Status)
				return err
			}

			start := time.Now()

			err := next(c)
			status := responseStatus(c, err)

			duration := time.Since(start).Seconds()
			code := strconv.Itoa(status)
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, code).
				Observe(duration)
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, code).
				Inc()

			return err
		}
	}
}

// updateHealthGauge sets the gauge for a probe path to 1 on 2xx, else 0.
func updateHealthGauge(path string, status int) {
	gauge, ok := healthGauges[path]
	if !ok {
		return
	}

	if status >= 200 && status < 300 {
		gauge.Set(1)
	} else {
		gauge.Set(0)
	}
}

// responseStatus returns the status the client will see, including for
// handler errors echo has not written yet.
func responseStatus(c echo.Context, err error) int {
	status := c.Response().Status
	if err == nil {
		return status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	if !c.Response().Committed {
		return http.StatusInternalServerError
	}
	return status
}
