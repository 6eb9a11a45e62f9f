package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus collectors for the Pulseboard API.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ActiveTimers prometheus.Gauge

	AuthFailuresTotal    *prometheus.CounterVec
	ScreenshotsTotal     prometheus.Counter
	TelemetryEventsTotal *prometheus.CounterVec
	AlertsGeneratedTotal *prometheus.CounterVec

	ServerStartTime prometheus.Gauge
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulseboard_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pulseboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		ActiveTimers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulseboard_active_timers",
			Help: "Number of currently running time entries.",
		}),

		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulseboard_auth_failures_total",
			Help: "Total number of authentication failures.",
		}, []string{"reason"}),

		ScreenshotsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulseboard_screenshots_total",
			Help: "Total number of screenshots ingested.",
		}),

		TelemetryEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulseboard_telemetry_events_total",
			Help: "Total number of telemetry events ingested.",
		}, []string{"kind"}),

		AlertsGeneratedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulseboard_alerts_generated_total",
			Help: "Total number of productivity alerts generated.",
		}, []string{"alert_type"}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulseboard_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ActiveTimers,
		m.AuthFailuresTotal,
		m.ScreenshotsTotal,
		m.TelemetryEventsTotal,
		m.AlertsGeneratedTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) IncAuthFailure(reason string) {
	m.AuthFailuresTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncTelemetryEvent(kind string) {
	m.TelemetryEventsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncAlert(alertType string) {
	m.AlertsGeneratedTotal.WithLabelValues(alertType).Inc()
}
