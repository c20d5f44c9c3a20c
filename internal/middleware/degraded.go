package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Unconfigured answers 503 to every request. It guards the API while the
// process runs without database credentials.
func Unconfigured(reason string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unconfigured", "detail": reason})
		}
	}
}
