package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the agenda module: fetch-cycle health,
// stale-generation discards, and disposition throughput.
type Metrics struct {
	Refreshes           prometheus.Counter
	RefreshFailures     prometheus.Counter
	StaleFetchDiscarded prometheus.Counter
	RefreshDuration     prometheus.Histogram
	Dispositions        *prometheus.CounterVec
	OverdueItems        prometheus.Gauge
	PlannedItems        prometheus.Gauge
}

// New creates a Metrics instance with all agenda module metrics registered.
func New() *Metrics {
	return &Metrics{
		Refreshes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ajanda_timeline_refreshes_total",
			Help: "Total number of timeline refresh cycles",
		}),
		RefreshFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ajanda_timeline_refresh_failures_total",
			Help: "Total number of refresh cycles that failed on a store read",
		}),
		StaleFetchDiscarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ajanda_timeline_stale_fetch_discarded_total",
			Help: "Refresh results discarded because a newer generation superseded them",
		}),
		RefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ajanda_timeline_refresh_duration_seconds",
			Help:    "Duration of full aggregate fetch cycles",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		Dispositions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ajanda_renewal_dispositions_total",
			Help: "Terminal renewal actions by disposition",
		}, []string{"disposition"}),
		OverdueItems: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ajanda_timeline_overdue_items",
			Help: "Items currently in the overdue bucket",
		}),
		PlannedItems: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ajanda_timeline_planned_items",
			Help: "Items currently in the planned bucket",
		}),
	}
}

// ObserveRefresh records one completed refresh cycle.
func (m *Metrics) ObserveRefresh(start time.Time) {
	m.Refreshes.Inc()
	m.RefreshDuration.Observe(time.Since(start).Seconds())
}

// SetBucketSizes updates the bucket gauges after a snapshot install.
func (m *Metrics) SetBucketSizes(overdue, planned int) {
	m.OverdueItems.Set(float64(overdue))
	m.PlannedItems.Set(float64(planned))
}

// IncrementDisposition records a terminal renewal action.
func (m *Metrics) IncrementDisposition(disposition string) {
	m.Dispositions.WithLabelValues(disposition).Inc()
}
