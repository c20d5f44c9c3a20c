// Package middleware holds the echo middleware of the rental API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/party-rental/internal/utils"
)

// JWTAuth validates the Bearer access token and stores the operator id,
// role and name in the echo context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			id, _ := claims.OperatorID()
			c.Set(ctxOperatorID, id)
			c.Set(ctxOperatorRole, claims.Role)
			c.Set(ctxOperatorName, claims.Name)
			return next(c)
		}
	}
}
