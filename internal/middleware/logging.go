package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/party-rental/internal/logger"
)

// RequestLogger writes one structured line per request.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			fields := []interface{}{
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"bytes", c.Response().Size,
				"latency_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
			}
			if id, ok := OperatorID(c); ok {
				fields = append(fields, "operator_id", id)
			}
			switch status := c.Response().Status; {
			case status >= 500:
				logger.Error("request", append(fields, "error", err)...)
			case status >= 400:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
			return nil
		}
	}
}
