// Package metrics exposes Prometheus metrics for the loan approval service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "loan_approval"

// Collector holds all service metrics on a custom registry.
type Collector struct {
	Registry *prometheus.Registry

	RequestsSubmitted  prometheus.Counter
	RequestsDuplicate  prometheus.Counter
	ApprovalsTotal     *prometheus.CounterVec
	RequestsCompleted  prometheus.Counter
	PendingRequests    prometheus.Gauge
	LogsPruned         prometheus.Counter
	NotificationsTotal *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector with every metric registered.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	m := &Collector{
		Registry: reg,

		RequestsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "submitted_total",
			Help:      "Loan requests accepted into the pending store.",
		}),

		RequestsDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "duplicate_total",
			Help:      "Loan requests rejected because the customer already had one pending.",
		}),

		ApprovalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "approvals",
			Name:      "total",
			Help:      "Approval decisions by outcome.",
		}, []string{"outcome"}),

		RequestsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "completed_total",
			Help:      "Loan requests that reached full approval.",
		}),

		PendingRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "pending",
			Help:      "Loan requests awaiting approval.",
		}),

		LogsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "logs",
			Name:      "pruned_total",
			Help:      "Completed request logs removed by retention.",
		}),

		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "total",
			Help:      "Outbound notifications by type and outcome.",
		}, []string{"type", "outcome"}),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		}, []string{"method", "path", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		m.RequestsSubmitted,
		m.RequestsDuplicate,
		m.ApprovalsTotal,
		m.RequestsCompleted,
		m.PendingRequests,
		m.LogsPruned,
		m.NotificationsTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Collector) RequestSubmitted() { m.RequestsSubmitted.Inc() }

func (m *Collector) RequestDuplicate() { m.RequestsDuplicate.Inc() }

func (m *Collector) ApprovalRecorded(outcome string) { m.ApprovalsTotal.WithLabelValues(outcome).Inc() }

func (m *Collector) RequestCompleted() { m.RequestsCompleted.Inc() }

func (m *Collector) SetPending(n int) { m.PendingRequests.Set(float64(n)) }

func (m *Collector) LogsRemoved(n int) { m.LogsPruned.Add(float64(n)) }

// ObserveNotification satisfies notification.Recorder.
func (m *Collector) ObserveNotification(kind, outcome string) {
	m.NotificationsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveHTTP records one served request. path should be a route template, not the raw URL.
func (m *Collector) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
