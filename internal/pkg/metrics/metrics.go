// Package metrics owns the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	cronRuns     *prometheus.CounterVec
	cronDuration *prometheus.HistogramVec
	events       *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ems",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests broken down by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ems",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution of HTTP requests.",
			Buckets: []float64{
				0.005, 0.01, 0.025, 0.05,
				0.1, 0.25, 0.5,
				1, 2.5, 5, 10,
			},
		}, []string{"method", "route"}),
		cronRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ems",
			Subsystem: "cron",
			Name:      "runs_total",
			Help:      "Total number of scheduled job runs broken down by job and result.",
		}, []string{"job", "result"}),
		cronDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ems",
			Subsystem: "cron",
			Name:      "run_duration_seconds",
			Help:      "Duration of scheduled job runs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ems",
			Name:      "events_total",
			Help:      "Business events such as clock-ins, leave decisions and generated payrolls.",
		}, []string{"event"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveCron matches cron.RunHook.
func (m *Metrics) ObserveCron(job string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.cronRuns.WithLabelValues(job, result).Inc()
	m.cronDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// Business events counted by Inc.
const (
	EventClockIn          = "attendance_clock_in"
	EventClockOut         = "attendance_clock_out"
	EventLeaveRequested   = "leave_requested"
	EventLeaveApproved    = "leave_approved"
	EventLeaveRejected    = "leave_rejected"
	EventPayrollGenerated = "payroll_generated"
	EventPayrollPaid      = "payroll_paid"
	EventDocumentUploaded = "document_uploaded"
	EventLoginSucceeded   = "login_succeeded"
	EventLoginFailed      = "login_failed"
)

// Recorder counts business events. A nil *Metrics is a valid no-op Recorder.
type Recorder interface {
	Inc(event string)
	Add(event string, n int)
}

func (m *Metrics) Inc(event string) {
	m.Add(event, 1)
}

func (m *Metrics) Add(event string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.events.WithLabelValues(event).Add(float64(n))
}

// Nop discards every event.
type Nop struct{}

func (Nop) Inc(string)      {}
func (Nop) Add(string, int) {}
