package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// APIToken returns Echo middleware that requires "Authorization: Bearer
// <token>" on every request whose path starts with prefix. Other paths,
// such as the webhook and probes, are not checked. An empty token disables
// the check.
func APIToken(token, prefix string) echo.MiddlewareFunc {
	want := []byte(token)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if token == "" {
			return next
		}
		return func(c echo.Context) error {
			if !strings.HasPrefix(c.Request().URL.Path, prefix) {
				return next(c)
			}

			got, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), want) != 1 {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "missing or invalid API token",
				})
			}
			return next(c)
		}
	}
}
