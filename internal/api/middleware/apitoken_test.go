package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAPIToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		token      string
		path       string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", token: "s3cret", path: "/api/v1/reconcile", authHeader: "Bearer s3cret", wantStatus: http.StatusOK},
		{name: "missing header", token: "s3cret", path: "/api/v1/reconcile", wantStatus: http.StatusUnauthorized},
		{name: "wrong token", token: "s3cret", path: "/api/v1/prices", authHeader: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", token: "s3cret", path: "/api/v1/prices", authHeader: "Basic s3cret", wantStatus: http.StatusUnauthorized},
		{name: "token prefix only", token: "s3cret", path: "/api/v1/prices", authHeader: "Bearer s3c", wantStatus: http.StatusUnauthorized},
		{name: "path outside prefix", token: "s3cret", path: "/webhooks/products/update", wantStatus: http.StatusOK},
		{name: "health check outside prefix", token: "s3cret", path: "/healthz", wantStatus: http.StatusOK},
		{name: "check disabled without token", path: "/api/v1/reconcile", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			e.Use(APIToken(tt.token, "/api/v1/"))
			e.Any("/*", func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})

			req := httptest.NewRequest(http.MethodPost, tt.path, http.NoBody)
			if tt.authHeader != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authHeader)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
				assert.Contains(t, rec.Body.String(), "missing or invalid API token")
			}
		})
	}
}
