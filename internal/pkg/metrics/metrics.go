package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gym_booking"

// Metrics holds all prometheus metrics
type Metrics struct {
	Registry *prometheus.Registry

	AdmissionOutcomes *prometheus.CounterVec
	AdmissionDuration prometheus.Histogram
	LockWait          *prometheus.HistogramVec
	BootstrapRuns     *prometheus.CounterVec
	DirectoryLookups  *prometheus.CounterVec
	BookingsExpired   prometheus.Counter
	HTTPRequests      *prometheus.HistogramVec
}

// New registers every collector on its own registry so that tests can build
// as many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		AdmissionOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admission_outcomes_total",
			Help:      "Booking admission attempts by outcome code",
		}, []string{"outcome"}),
		AdmissionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "admission_duration_seconds",
			Help:      "Time taken to admit or decline a booking request",
			Buckets:   prometheus.DefBuckets,
		}),
		LockWait: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "admission_lock_wait_seconds",
			Help:      "Time spent waiting for the per-session-date admission lock",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"mode"}),
		BootstrapRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_bootstrap_runs_total",
			Help:      "Booking schema bootstrap runs by result",
		}, []string{"result"}),
		DirectoryLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directory_lookups_total",
			Help:      "Directory store lookups by entity and result",
		}, []string{"entity", "result"}),
		BookingsExpired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_expired_total",
			Help:      "Active bookings moved to EXPIRED by the sweeper",
		}),
		HTTPRequests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// PoolStats is a snapshot of a connection pool.
type PoolStats struct {
	Acquired int32
	Idle     int32
	Total    int32
}

// WatchPool exports the pool's connection counts, sampled at scrape time.
// Call it once per pool name.
func (m *Metrics) WatchPool(pool string, stat func() PoolStats) {
	gauge := func(name, help string, pick func(PoolStats) int32) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: prometheus.Labels{"pool": pool},
		}, func() float64 { return float64(pick(stat())) })
	}
	m.Registry.MustRegister(
		gauge("pool_acquired_connections", "Connections currently in use", func(s PoolStats) int32 { return s.Acquired }),
		gauge("pool_idle_connections", "Idle connections", func(s PoolStats) int32 { return s.Idle }),
		gauge("pool_total_connections", "Open connections", func(s PoolStats) int32 { return s.Total }),
	)
}

func (m *Metrics) ObserveAdmission(outcome string, elapsed time.Duration) {
	m.AdmissionOutcomes.WithLabelValues(outcome).Inc()
	m.AdmissionDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveLockWait(mode string, elapsed time.Duration) {
	m.LockWait.WithLabelValues(mode).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveBootstrap(result string) {
	m.BootstrapRuns.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveDirectoryLookup(entity, result string) {
	m.DirectoryLookups.WithLabelValues(entity, result).Inc()
}

func (m *Metrics) AddExpired(n int64) {
	m.BookingsExpired.Add(float64(n))
}
