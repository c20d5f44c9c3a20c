// Package handler exposes the rental workflows over HTTP.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iliyamo/party-rental/internal/document"
	"github.com/iliyamo/party-rental/internal/logger"
	"github.com/iliyamo/party-rental/internal/service"
)

const requestTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// fail maps a service error onto a status code and an error body.
// Unexpected errors are logged and answered with 500.
func fail(c echo.Context, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
	}
	var se *service.StockError
	if errors.As(err, &se) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     se.Error(),
			"item_id":   se.ItemID,
			"requested": se.Requested,
			"available": se.Available,
		})
	}
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, document.ErrUnknownKind):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrDuplicateItem), errors.Is(err, service.ErrCustomerBlacklisted):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyReturned),
		errors.Is(err, service.ErrNoOpenLines),
		errors.Is(err, service.ErrCustomerHasOpenLines),
		errors.Is(err, service.ErrItemNameTaken),
		errors.Is(err, service.ErrInsufficientStock):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "database timeout"})
	}
	logger.Error("request failed", "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
