// Package metrics exposes the service's Prometheus collectors behind a
// single registry, served on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the service's collectors with the Prometheus registry
// they are registered on.
type Registry struct {
	reg *prometheus.Registry

	OrdersCreated   prometheus.Counter
	OrdersCancelled prometheus.Counter
	FxStaleServed   prometheus.Counter

	HTTPRequestSec prometheus.Histogram
}

// NewRegistry creates the registry with all collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{Name: "quetzalship_orders_created_total"})
	ordersCancelled := prometheus.NewCounter(prometheus.CounterOpts{Name: "quetzalship_orders_cancelled_total"})
	fxStaleServed := prometheus.NewCounter(prometheus.CounterOpts{Name: "quetzalship_fx_stale_served_total"})
	httpRequestSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "quetzalship_http_request_seconds",
		Buckets: prometheus.DefBuckets,
	})

	reg.MustRegister(ordersCreated, ordersCancelled, fxStaleServed, httpRequestSec)

	return &Registry{
		reg:             reg,
		OrdersCreated:   ordersCreated,
		OrdersCancelled: ordersCancelled,
		FxStaleServed:   fxStaleServed,
		HTTPRequestSec:  httpRequestSec,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Middleware records the duration of every handled request.
func (r *Registry) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			r.HTTPRequestSec.Observe(time.Since(start).Seconds())
			return err
		}
	}
}
