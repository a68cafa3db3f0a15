// Package metrics exposes Prometheus collectors for the account service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates the service's Prometheus metrics on a private
// registry so tests can create collectors without registration conflicts.
type Collector struct {
	registry           *prometheus.Registry
	operationsTotal    *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	commissionsCharged prometheus.Counter
	busMessages        *prometheus.CounterVec
}

// NewCollector creates a Collector with all metrics registered
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		operationsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "account_operations_total",
			Help: "Total processed movement operations by type and outcome",
		}, []string{"operation", "outcome"}),
		operationDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "account_operation_duration_seconds",
			Help:    "Time taken to process a movement operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		commissionsCharged: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "account_commissions_charged_total",
			Help: "Total movements that incurred a commission",
		}),
		busMessages: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "bus_messages_total",
			Help: "Total message-bus deliveries by disposition",
		}, []string{"disposition"}),
	}
}

// RecordOperation counts one processed operation and observes its duration
func (c *Collector) RecordOperation(operation, outcome string, duration time.Duration) {
	c.operationsTotal.WithLabelValues(operation, outcome).Inc()
	c.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCommission counts one movement that incurred a commission
func (c *Collector) RecordCommission() {
	c.commissionsCharged.Inc()
}

// RecordBusMessage counts one bus delivery: processed, duplicate, or failed
func (c *Collector) RecordBusMessage(disposition string) {
	c.busMessages.WithLabelValues(disposition).Inc()
}

// Handler returns the /metrics HTTP handler for this collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
