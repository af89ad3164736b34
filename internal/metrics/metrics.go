package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the booking counters exported on /metrics.
type Metrics struct {
	BookingsAllocated prometheus.Counter
	BookingsCancelled prometheus.Counter
	SeatsAvailable    prometheus.Gauge
	SnapshotSaveTime  prometheus.Histogram
	ErrorsCount       *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration panics.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsAllocated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_allocated_total",
			Help:      "The total number of seats allocated",
		}),
		BookingsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "The total number of bookings cancelled",
		}),
		SeatsAvailable: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seats_available",
			Help:      "Seats left on the flight",
		}),
		SnapshotSaveTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_save_seconds",
			Help:      "Time taken to persist the booking snapshot",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_errors_total",
			Help:      "The total number of failed booking operations",
		}, []string{"operation", "reason"}),
	}
}
