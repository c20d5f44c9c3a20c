package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
	ctxOperatorID   = "operator_id"
	ctxOperatorRole = "role"
	ctxOperatorName = "operator_name"
)

// OperatorID returns the authenticated operator, if any.
func OperatorID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxOperatorID).(uint64)
	return id, ok && id != 0
}

// OperatorRole returns the role claim of the authenticated operator.
func OperatorRole(c echo.Context) string {
	role, _ := c.Get(ctxOperatorRole).(string)
	return role
}

// OperatorName returns the display name claim of the authenticated operator.
func OperatorName(c echo.Context) string {
	name, _ := c.Get(ctxOperatorName).(string)
	return name
}

// operatorKey identifies the caller in rate-limit keys; "anon" before login.
func operatorKey(c echo.Context) string {
	if id, ok := OperatorID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
