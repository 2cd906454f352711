// Package openapi serves Swagger UI for the OpenAPI document Huma generates.
package openapi

import (
	"fmt"
	"html"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DefaultSpecURL is where Huma serves the generated OpenAPI 3.1 document.
const DefaultSpecURL = "/openapi.json"

const swaggerUITemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Shopify Price Alerts API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "%s",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: "BaseLayout",
    });
  </script>
</body>
</html>`

// RegisterRoutes adds Swagger UI routes to the Echo instance. specURL is
// the path of the OpenAPI document the UI loads.
func RegisterRoutes(e *echo.Echo, specURL string) {
	if specURL == "" {
		specURL = DefaultSpecURL
	}
	page := fmt.Sprintf(swaggerUITemplate, html.EscapeString(specURL))

	e.GET("/swagger/index.html", func(c echo.Context) error {
		return c.HTML(http.StatusOK, page)
	})
	e.GET("/swagger", redirectToUI)
	e.GET("/swagger/", redirectToUI)
}

func redirectToUI(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
}
