// Package router registers the HTTP routes of the rental API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/party-rental/internal/config"
	"github.com/iliyamo/party-rental/internal/handler"
	"github.com/iliyamo/party-rental/internal/metrics"
	"github.com/iliyamo/party-rental/internal/middleware"
	"github.com/iliyamo/party-rental/internal/model"
)

// Deps carries everything the routes need. Redis may be nil, which
// disables rate limiting and caching.
type Deps struct {
	JWTSecret string
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Metrics   *metrics.Metrics

	Auth      *handler.AuthHandler
	Customers *handler.CustomerHandler
	Inventory *handler.InventoryHandler
	Rentals   *handler.RentalHandler
	Finance   *handler.FinanceHandler
}

// RegisterRoutes registers the public routes that work in every mode.
func RegisterRoutes(e *echo.Echo, health *handler.HealthHandler, m *metrics.Metrics) {
	e.GET("/healthz", health.Health)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
}

// RegisterUnconfigured answers 503 on every API route.
func RegisterUnconfigured(e *echo.Echo, reason string) {
	e.Any("/v1/*", func(c echo.Context) error { return echo.ErrServiceUnavailable }, middleware.Unconfigured(reason))
}

// RegisterAPI registers the operator API under /v1.
func RegisterAPI(e *echo.Echo, d Deps) {
	limited := middleware.NewTokenBucket(d.RateLimit, d.Redis)
	auth := e.Group("/v1/auth", limited)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	operators := []echo.MiddlewareFunc{
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleStaff),
	}
	// per-operator response, kept out of the shared cache
	e.GET("/v1/me", d.Auth.Me, operators...)

	g := e.Group("/v1", append(operators,
		middleware.InvalidateCache(d.Cache, d.Redis),
		middleware.NewRedisCache(d.Cache, d.Redis),
	)...)

	g.POST("/customers", d.Customers.Create)
	g.GET("/customers", d.Customers.List)
	g.GET("/customers/:id", d.Customers.Get)
	g.DELETE("/customers/:id", d.Customers.Delete)
	g.PATCH("/customers/:id/blacklist", d.Customers.Blacklist)
	g.GET("/customers/:id/reservations", d.Customers.History)

	g.GET("/inventory", d.Inventory.List)
	g.POST("/inventory", d.Inventory.Create)
	g.GET("/inventory/movements", d.Inventory.Movements)
	g.GET("/inventory/:id", d.Inventory.Get)
	g.PUT("/inventory/:id", d.Inventory.Update, middleware.RequireRole(model.RoleAdmin))

	g.POST("/reservations", d.Rentals.Reserve)
	g.POST("/reservations/:id/return", d.Rentals.ReturnLine)
	g.GET("/orders", d.Rentals.Orders)
	g.GET("/orders/upcoming", d.Rentals.Upcoming)
	g.GET("/orders/:key", d.Rentals.Order)
	g.POST("/orders/:key/return", d.Rentals.ReturnOrder)
	g.GET("/orders/:key/documents/:kind", d.Rentals.Document)

	g.GET("/finance/summary", d.Finance.Summary)
	g.GET("/finance/entries", d.Finance.Entries)
	g.POST("/finance/expenses", d.Finance.AddExpense)
}

// New builds the echo instance with the shared middleware stack.
func New(production bool, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLogger(), middleware.SecureHeaders(production))
	if m != nil {
		e.Use(m.Middleware())
	}
	return e
}
