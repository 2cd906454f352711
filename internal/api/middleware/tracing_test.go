package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestTracing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    echo.HandlerFunc
		wantStatus int
		wantCode   codes.Code
	}{
		{
			name: "successful request",
			handler: func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			},
			wantStatus: http.StatusOK,
			wantCode:   codes.Unset,
		},
		{
			name: "client error leaves status unset",
			handler: func(c echo.Context) error {
				return c.String(http.StatusUnauthorized, "nope")
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   codes.Unset,
		},
		{
			name: "handler error marks span failed",
			handler: func(_ echo.Context) error {
				return echo.NewHTTPError(http.StatusBadGateway, "upstream")
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   codes.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sr := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

			e := echo.New()
			e.Use(Tracing(tp))
			e.POST("/webhooks/products/update", tt.handler)

			req := httptest.NewRequest(http.MethodPost, "/webhooks/products/update", http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			spans := sr.Ended()
			require.Len(t, spans, 1)
			span := spans[0]
			assert.Equal(t, "POST /webhooks/products/update", span.Name())
			assert.Equal(t, trace.SpanKindServer, span.SpanKind())
			assert.Equal(t, tt.wantCode, span.Status().Code)
			assert.Contains(t, span.Attributes(),
				attribute.Int("http.response.status_code", tt.wantStatus))
		})
	}
}

func TestTracing_PropagatesContextToHandler(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	var inHandler trace.SpanContext
	e := echo.New()
	e.Use(Tracing(tp))
	e.GET("/api/v1/prices/:product_id", func(c echo.Context) error {
		inHandler = trace.SpanContextFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/123", http.NoBody)
	e.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/prices/:product_id", spans[0].Name())
	assert.True(t, inHandler.IsValid())
	assert.Equal(t, spans[0].SpanContext().TraceID(), inHandler.TraceID())
}
