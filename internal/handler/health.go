package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness. Without a database the process is up
// but unconfigured and answers 503.
type HealthHandler struct {
	Ping       func(ctx context.Context) error
	Unready    string
	Migrations func() (int64, error)
}

func (h *HealthHandler) Health(c echo.Context) error {
	if h.Unready != "" || h.Ping == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unconfigured", "detail": h.Unready})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "database unavailable"})
	}
	body := echo.Map{"status": "ok"}
	if h.Migrations != nil {
		if v, err := h.Migrations(); err == nil {
			body["schema_version"] = v
		}
	}
	return c.JSON(http.StatusOK, body)
}
