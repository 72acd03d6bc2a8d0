package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry   *prometheus.Registry
	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
	httpInfl   prometheus.Gauge

	identitiesCreated  *prometheus.CounterVec
	identitiesPromoted prometheus.Counter
	leavesSubmitted    *prometheus.CounterVec
	leaveDecisions     *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: r,
		httpReqCnt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency.", Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		httpInfl: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "http_requests_inflight", Help: "HTTP requests currently being served.",
		}),
		identitiesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "identities_created_total", Help: "Identities created on first login.",
		}, []string{"role"}),
		identitiesPromoted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "identities_promoted_total", Help: "Employees promoted to admin by the allow-list.",
		}),
		leavesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "leaves_submitted_total", Help: "Leave requests submitted.",
		}, []string{"leave_type"}),
		leaveDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "leave_decisions_total", Help: "Leave requests decided.",
		}, []string{"status"}),
	}

	r.MustRegister(m.httpReqCnt, m.httpDur, m.httpInfl)
	r.MustRegister(m.identitiesCreated, m.identitiesPromoted, m.leavesSubmitted, m.leaveDecisions)
	return m
}

// Middleware labels requests by chi route pattern so path ids do not explode
// the label space.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInfl.Inc()
		defer m.httpInfl.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := strconv.Itoa(statusOf(ww))
		m.httpReqCnt.WithLabelValues(r.Method, route, status).Inc()
		m.httpDur.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeIdentityCreated, m.onIdentityCreated)
	eventBus.Subscribe(events.EventTypeIdentityPromoted, m.onIdentityPromoted)
	eventBus.Subscribe(events.EventTypeLeaveCreated, m.onLeaveCreated)
	eventBus.Subscribe(events.EventTypeLeaveDecided, m.onLeaveDecided)
}

func (m *Metrics) onIdentityCreated(_ context.Context, event events.Event) error {
	e, ok := event.(*events.IdentityCreatedEvent)
	if !ok {
		return fmt.Errorf("expected IdentityCreatedEvent, got %T", event)
	}
	m.identitiesCreated.WithLabelValues(e.Role).Inc()
	return nil
}

func (m *Metrics) onIdentityPromoted(_ context.Context, event events.Event) error {
	if _, ok := event.(*events.IdentityPromotedEvent); !ok {
		return fmt.Errorf("expected IdentityPromotedEvent, got %T", event)
	}
	m.identitiesPromoted.Inc()
	return nil
}

func (m *Metrics) onLeaveCreated(_ context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveCreatedEvent)
	if !ok {
		return fmt.Errorf("expected LeaveCreatedEvent, got %T", event)
	}
	m.leavesSubmitted.WithLabelValues(e.LeaveType).Inc()
	return nil
}

func (m *Metrics) onLeaveDecided(_ context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveDecidedEvent)
	if !ok {
		return fmt.Errorf("expected LeaveDecidedEvent, got %T", event)
	}
	m.leaveDecisions.WithLabelValues(e.Status).Inc()
	return nil
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func statusOf(ww middleware.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}
