package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// Recovery returns Echo middleware that converts a handler panic into a
// logged stack trace and a JSON 500. If the handler had already started
// writing the response, the panic is only logged.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value, never wrapped
					panic(r)
				}

				committed := c.Response().Committed
				log.ErrorContext(c.Request().Context(), "panic recovered",
					"panic", r,
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"request_id", RequestID(c),
					"response_committed", committed,
					"stack", string(debug.Stack()),
				)

				if committed {
					return
				}
				err = c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "internal server error",
				})
			}()
			return next(c)
		}
	}
}
