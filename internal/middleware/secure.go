package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/unrolled/secure"

	"github.com/iliyamo/party-rental/internal/logger"
)

// SecureHeaders sets the standard browser hardening headers. Printable
// documents use inline styles and an inline print handler, so the CSP
// allows those and nothing else.
func SecureHeaders(production bool) echo.MiddlewareFunc {
	sm := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; style-src 'unsafe-inline'; script-src 'unsafe-inline'",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !production,
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := sm.Process(c.Response(), c.Request()); err != nil {
				logger.Warn("secure headers blocked request", "path", c.Request().URL.Path, "error", err)
				return c.NoContent(http.StatusBadRequest)
			}
			if c.Response().Committed {
				// redirected to https
				return nil
			}
			return next(c)
		}
	}
}
