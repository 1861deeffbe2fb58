// Package metrics instrumentación Prometheus de stockmaster-api.
// Registro propio (no el global) con colectores de runtime, HTTP y dominio.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stockmaster"

var (
	// RequestDuration latencia por método, ruta (patrón, no path crudo) y status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// RequestInFlight peticiones en curso.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// SyncRecords registros recibidos por /sync/push, por entidad y resultado (inserted|skipped).
	SyncRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "pushed_records_total",
			Help:      "Records received through sync push.",
		},
		[]string{"entity", "result"},
	)

	// StockMovesApplied movimientos contabilizados (applied|missing_product|reversed).
	StockMovesApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "stock_moves_applied_total",
			Help:      "Stock moves processed by the accounting engine.",
		},
		[]string{"result"},
	)

	// OTPEvents eventos del segundo factor (issued|delivered|fallback|verified|rejected).
	OTPEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "otp_events_total",
			Help:      "One-time code lifecycle events.",
		},
		[]string{"event"},
	)
)

// Registry registro Prometheus de la aplicación.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestDuration,
		RequestInFlight,
		SyncRecords,
		StockMovesApplied,
		OTPEvents,
	)
}

// Middleware registra latencia y peticiones en curso para cada request.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		RequestInFlight.Inc()
		defer RequestInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		RequestDuration.
			WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone /metrics sobre fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
}
