package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/party-rental/internal/config"
	"github.com/iliyamo/party-rental/internal/database"
	"github.com/iliyamo/party-rental/internal/document"
	"github.com/iliyamo/party-rental/internal/handler"
	"github.com/iliyamo/party-rental/internal/logger"
	"github.com/iliyamo/party-rental/internal/metrics"
	"github.com/iliyamo/party-rental/internal/queue"
	"github.com/iliyamo/party-rental/internal/repository"
	"github.com/iliyamo/party-rental/internal/router"
	"github.com/iliyamo/party-rental/internal/service"
)

func main() {
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config: load failed", "error", err)
		os.Exit(1)
	}
	m := metrics.New()
	e := router.New(cfg.Env == "production", m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		// keep serving /healthz so the misconfiguration is visible
		logger.Error("config: service unconfigured", "error", err)
		router.RegisterRoutes(e, &handler.HealthHandler{Unready: err.Error()}, m)
		router.RegisterUnconfigured(e, err.Error())
		serve(ctx, e, cfg.Port)
		return
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Error("database: connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := repository.NewStore(db)
	var events service.EventPublisher
	if cfg.RabbitURL != "" {
		events = queue.NewPublisher(cfg.RabbitURL)
	}
	loc := cfg.Location()

	rentals := service.NewRentalService(store, events, m, service.RentalOptions{
		PricePolicy:   cfg.PricePolicy,
		Location:      loc,
		UpcomingLimit: cfg.UpcomingSize,
	})
	inventory := service.NewInventoryService(store)
	customers := service.NewCustomerService(store)
	finance := service.NewFinanceService(store, m, loc)

	docs, err := document.NewRenderer(document.Company{Name: cfg.CompanyName, Phone: cfg.CompanyPhone}, cfg.DeliveryFee)
	if err != nil {
		logger.Error("documents: templates failed", "error", err)
		os.Exit(1)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, running without cache and rate limiting")
	} else {
		defer rdb.Close()
	}

	health := &handler.HealthHandler{
		Ping:       db.PingContext,
		Migrations: func() (int64, error) { return database.SchemaVersion(db) },
	}
	router.RegisterRoutes(e, health, m)
	router.RegisterAPI(e, router.Deps{
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Metrics:   m,
		Auth: handler.NewAuthHandler(handler.AuthSettings{
			JWTSecret:      cfg.JWTSecret,
			AccessTTLMin:   cfg.AccessTTLMin,
			RefreshTTLDays: cfg.RefreshTTLDays,
		}, store.Operators, store.Tokens),
		Customers: handler.NewCustomerHandler(customers),
		Inventory: handler.NewInventoryHandler(inventory),
		Rentals:   handler.NewRentalHandler(rentals, customers, docs),
		Finance:   handler.NewFinanceHandler(finance),
	})

	logger.Info("rental api starting", "port", cfg.Port, "env", cfg.Env,
		"price_policy", cfg.PricePolicy, "timezone", loc.String())
	serve(ctx, e, cfg.Port)
}

// serve runs the server until ctx is cancelled, then drains in-flight
// requests for up to ten seconds.
func serve(ctx context.Context, e *echo.Echo, port string) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("server stopped", "error", err)
	}
}
