// Package metrics exposes the Prometheus collectors of the airfare services.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	retries           *prometheus.CounterVec
	pricePublications *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	simulatorTicks    prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "airfare_operations_total",
			Help: "Reservation operations by outcome",
		}, []string{"operation", "outcome"}),
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "airfare_operation_duration_seconds",
			Help:    "Latency of reservation operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "airfare_conflict_retries_total",
			Help: "Units of work retried after a conflict",
		}, []string{"operation"}),
		pricePublications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "airfare_price_publications_total",
			Help: "Published price changes by audit reason",
		}, []string{"reason"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "airfare_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		simulatorTicks: factory.NewCounter(prometheus.CounterOpts{
			Name: "airfare_simulator_ticks_total",
			Help: "Completed demand simulator ticks",
		}),
	}
}

func (m *Metrics) ObserveOperation(operation, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) IncRetry(operation string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncPricePublished(reason string) {
	if m == nil {
		return
	}
	m.pricePublications.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncHTTPRequest(method, route, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
}

func (m *Metrics) IncSimulatorTick() {
	if m == nil {
		return
	}
	m.simulatorTicks.Inc()
}

// Registry returns the underlying registry, nil for a nil receiver.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
