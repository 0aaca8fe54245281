package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransferOperations *prometheus.CounterVec
	TransferDuration   prometheus.Histogram
	TransferAmount     prometheus.Histogram
	TransferErrors     *prometheus.CounterVec

	// Ledger metrics
	EntriesRecorded *prometheus.CounterVec
	RegisterEvents  *prometheus.CounterVec
	Recalculations  *prometheus.CounterVec
	RecalcPending   prometheus.Gauge
	OutboxPublished *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge
	DBRetries     *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on reg. Tests pass a fresh
// prometheus.NewRegistry so repeated construction does not collide.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Transfer metrics
		TransferOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajaledger_transfer_operations_total",
				Help: "Total transfer operations by kind",
			},
			[]string{"operation"},
		),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cajaledger_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cajaledger_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajaledger_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"operation", "error_type"},
		),

		// Ledger metrics
		EntriesRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajaledger_entries_recorded_total",
				Help: "Total ledger entries recorded outside transfers",
			},
			[]string{"method", "type"},
		),
		RegisterEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajaledger_register_events_total",
				Help: "Cash register openings and closings",
			},
			[]string{"event"},
		),
		Recalculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajaledger_recalculations_total",
				Help: "Cached balance recalculations by target kind and outcome",
			},
			[]string{"kind", "status"},
		),
		RecalcPending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cajaledger_recalc_pending",
			Help: "Recalculations waiting in the retry queue",
		}),
		OutboxPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajaledger_outbox_published_total",
				Help: "Outbox events handed to the publisher",
			},
			[]string{"event_type", "status"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajaledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cajaledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cajaledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajaledger_db_retries_total",
				Help: "Ledger transactions retried after a deadlock, serialization or lock failure",
			},
			[]string{"code"},
		),

		// Redis metrics
		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajaledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajaledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajaledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
