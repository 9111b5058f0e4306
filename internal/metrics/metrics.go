package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Angel-crypt/backend-we/internal/service/integration"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	events   *prometheus.CounterVec
	logins   *prometheus.CounterVec
	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. Passing a fresh prometheus.Registry
// keeps tests isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "school",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "school",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "school",
			Name:      "events_published_total",
			Help:      "Domain events by type and outcome.",
		}, []string{"type", "outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "school",
			Name:      "logins_total",
			Help:      "Login attempts by role and outcome.",
		}, []string{"role", "outcome"}),
		gatherer: reg,
	}
	reg.MustRegister(m.requests, m.duration, m.events, m.logins,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records every request under its chi route pattern so path
// parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) ObserveLogin(role string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.logins.WithLabelValues(role, outcome).Inc()
}

type instrumentedPublisher struct {
	next   integration.EventPublisher
	events *prometheus.CounterVec
}

// InstrumentPublisher counts every event passed to next.
func (m *Metrics) InstrumentPublisher(next integration.EventPublisher) integration.EventPublisher {
	return &instrumentedPublisher{next: next, events: m.events}
}

func (p *instrumentedPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	err := p.next.Publish(ctx, eventType, payload)
	outcome := "published"
	if err != nil {
		outcome = "failed"
	}
	p.events.WithLabelValues(eventType, outcome).Inc()
	return err
}

func (p *instrumentedPublisher) Close() error {
	return p.next.Close()
}
