// Package metrics collects Prometheus metrics for the rental API and the
// rental workflows. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	linesReserved   prometheus.Counter
	linesReturned   *prometheus.CounterVec
	ledgerAmount    *prometheus.CounterVec
	stockRejections prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rental_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		linesReserved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rental_reservation_lines_total",
			Help: "Reservation lines created.",
		}),
		linesReturned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_returned_lines_total",
			Help: "Reservation lines returned, by overdue state.",
		}, []string{"overdue"}),
		ledgerAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_ledger_amount_total",
			Help: "Sum of cash ledger amounts by entry type.",
		}, []string{"type"}),
		stockRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rental_stock_rejections_total",
			Help: "Reservation submissions rejected for lack of stock.",
		}),
	}
	registry.MustRegister(m.requestsTotal, m.requestDuration, m.linesReserved,
		m.linesReturned, m.ledgerAmount, m.stockRejections)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records count and latency per route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if m == nil {
			return next
		}
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *Metrics) LinesReserved(n int) {
	if m == nil {
		return
	}
	m.linesReserved.Add(float64(n))
}

func (m *Metrics) LineReturned(overdue bool) {
	if m == nil {
		return
	}
	m.linesReturned.WithLabelValues(strconv.FormatBool(overdue)).Inc()
}

func (m *Metrics) LedgerEntry(entryType string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.ledgerAmount.WithLabelValues(entryType).Add(amount.InexactFloat64())
}

func (m *Metrics) StockRejected() {
	if m == nil {
		return
	}
	m.stockRejections.Inc()
}
