package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation result label values.
const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// Metrics holds all Prometheus metrics for the route registry service.
type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	routeDefinitions  prometheus.Gauge
	syncRunsTotal     *prometheus.CounterVec
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	rateLimitHits     prometheus.Counter
	buildInfo         *prometheus.GaugeVec
	startTime         prometheus.Gauge
	registry          *prometheus.Registry
}

// NewMetrics creates a new Metrics instance backed by its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "routeregistry"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "operations_total",
			Help:      "Total number of registry operations by result",
		},
		[]string{"operation", "result"},
	)

	m.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "operation_duration_seconds",
			Help:      "Registry operation duration in seconds",
			Buckets: []float64{
				.00001, .00005, .0001, .0005, .001,
				.005, .01, .05, .1, .5, 1,
			},
		},
		[]string{"operation"},
	)

	m.routeDefinitions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "route_definitions",
			Help: "Number of route definitions seen " +
				"by the last full listing",
		},
	)

	m.syncRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "sync_runs_total",
			Help: "Total number of configuration " +
				"route syncs by result",
		},
		[]string{"result"},
	)

	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "requests_total",
			Help:      "Total number of admin API requests",
		},
		[]string{"method", "path", "status"},
	)

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "request_duration_seconds",
			Help:      "Admin API request duration in seconds",
			Buckets: []float64{
				.001, .005, .01, .025, .05,
				.1, .25, .5, 1, 2.5, 5,
			},
		},
		[]string{"method", "path"},
	)

	m.rateLimitHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "rate_limit_hits_total",
			Help: "Total number of admin requests " +
				"rejected by the rate limiter",
		},
	)

	m.buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information for the route registry",
		},
		[]string{"version", "commit", "build_time"},
	)

	m.startTime = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "start_time_seconds",
			Help: "Start time of the route registry " +
				"in unix seconds",
		},
	)

	m.registerCollectors()

	m.startTime.SetToCurrentTime()

	return m
}

// registerCollectors registers all metric collectors with the
// Prometheus registry.
func (m *Metrics) registerCollectors() {
	m.registry.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.routeDefinitions,
		m.syncRunsTotal,
		m.requestsTotal,
		m.requestDuration,
		m.rateLimitHits,
		m.buildInfo,
		m.startTime,
	)

	m.registry.MustRegister(collectors.NewGoCollector())
	m.registry.MustRegister(
		collectors.NewProcessCollector(
			collectors.ProcessCollectorOpts{},
		),
	)
}

// RecordOperation records a completed registry operation.
func (m *Metrics) RecordOperation(operation, result string, duration time.Duration) {
	m.operationsTotal.WithLabelValues(operation, result).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetRouteDefinitions sets the route definition count gauge.
func (m *Metrics) SetRouteDefinitions(count int) {
	m.routeDefinitions.Set(float64(count))
}

// RecordSync records one configuration sync run.
func (m *Metrics) RecordSync(result string) {
	m.syncRunsTotal.WithLabelValues(result).Inc()
}

// RecordRequest records a completed admin API request. The path must be
// the route pattern, not the raw request path, to keep cardinality bounded.
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRateLimitHit records an admin request rejected by the rate limiter.
func (m *Metrics) RecordRateLimitHit() {
	m.rateLimitHits.Inc()
}

// SetBuildInfo sets the build information metric.
func (m *Metrics) SetBuildInfo(version, commit, buildTime string) {
	m.buildInfo.WithLabelValues(version, commit, buildTime).Set(1)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		m.registry,
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	)
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
