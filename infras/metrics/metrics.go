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

const namespace = "meetbook"

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	slotMutations    *prometheus.CounterVec
	slotConflicts    *prometheus.CounterVec
	rosterRows       *prometheus.CounterVec
	rosterIngests    prometheus.Counter
	partnerDecisions *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDurations    *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return NewWithRegistry(registry)
}

// NewWithRegistry registers every collector on registry. Tests pass a fresh one.
func NewWithRegistry(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		slotMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_mutations_total",
			Help:      "Successful slot allocator mutations by operation",
		}, []string{"operation"}),
		slotConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_conflicts_total",
			Help:      "Rejected bookings by conflict kind",
		}, []string{"kind"}),
		rosterRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_rows_total",
			Help:      "Roster rows processed by outcome",
		}, []string{"outcome"}),
		rosterIngests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_ingests_total",
			Help:      "Completed roster uploads",
		}),
		partnerDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partner_decisions_total",
			Help:      "Partner request decisions by outcome",
		}, []string{"decision"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "status"}),
		httpDurations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) SlotMutation(operation string) {
	m.slotMutations.WithLabelValues(operation).Inc()
}

func (m *Metrics) SlotConflict(kind string) {
	m.slotConflicts.WithLabelValues(kind).Inc()
}

// RosterIngested records one upload and its per-outcome row counts.
func (m *Metrics) RosterIngested(inserted, updated, skipped, failed int) {
	m.rosterIngests.Inc()
	m.rosterRows.WithLabelValues("inserted").Add(float64(inserted))
	m.rosterRows.WithLabelValues("updated").Add(float64(updated))
	m.rosterRows.WithLabelValues("skipped").Add(float64(skipped))
	m.rosterRows.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) PartnerDecision(decision string) {
	m.partnerDecisions.WithLabelValues(decision).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDurations.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
