// Package metrics exposes Prometheus collectors for turns, HTTP traffic and
// session housekeeping.
package metrics

import (
	"context"
	"strconv"
	"time"

	"ai-shopping-agent-be/pkg/ai/router"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shop_agent"

type Metrics struct {
	registry *prometheus.Registry

	turns           *prometheus.CounterVec
	refusals        *prometheus.CounterVec
	responseSources *prometheus.CounterVec
	turnLatency     *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
	sessionsEvicted prometheus.Counter
}

var _ router.Observer = &Metrics{}

// New registers every collector on a fresh registry, plus the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		turns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "turns_total",
			Help:      "Dialogue turns handled, by intent",
		}, []string{"intent"}),
		refusals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "safety",
			Name:      "refusals_total",
			Help:      "Refused messages by reason and classifier tier",
		}, []string{"reason", "tier"}),
		responseSources: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "responses_total",
			Help:      "Responses by source: generated text or a fixed template",
		}, []string{"source"}),
		turnLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "turn_duration_seconds",
			Help:      "End-to-end turn latency",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"intent"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sessionsEvicted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "evicted_total",
			Help:      "Idle sessions evicted by the cleanup loop",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveTurn(_ context.Context, res *router.TurnResult, elapsed time.Duration) {
	intent := string(res.Intent)
	m.turns.WithLabelValues(intent).Inc()
	m.turnLatency.WithLabelValues(intent).Observe(elapsed.Seconds())
	if res.IsRefusal {
		m.refusals.WithLabelValues(res.Safety.Reason, strconv.Itoa(res.Safety.Tier)).Inc()
	}
	source := "template"
	if res.Generated {
		source = "generated"
	}
	m.responseSources.WithLabelValues(source).Inc()
}

func (m *Metrics) SessionsEvicted(n int) {
	m.sessionsEvicted.Add(float64(n))
}

// Middleware records every request. Routes are labelled by their pattern so
// path parameters do not explode cardinality.
func (m *Metrics) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			if ferr, ok := err.(*fiber.Error); ok {
				status = ferr.Code
			}
		}
		route := ctx.Route().Path
		m.httpRequests.WithLabelValues(ctx.Method(), route, strconv.Itoa(status)).Inc()
		m.httpLatency.WithLabelValues(ctx.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
