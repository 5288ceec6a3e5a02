package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const opLabel = "op"

// Metrics records store activity. A nil *Metrics records nothing.
type Metrics struct {
	cntOps       *prometheus.CounterVec
	cntSkipped   prometheus.Counter
	histRetrieve *prometheus.HistogramVec
}

// NewMetrics creates the store collectors and registers them with reg when it
// is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cntOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pathstore",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Number of store operations by kind",
		}, []string{opLabel}),
		cntSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pathstore",
			Subsystem: "store",
			Name:      "skipped_records_total",
			Help:      "Number of batch sub-operations skipped because the record was absent",
		}),
		histRetrieve: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pathstore",
			Subsystem: "store",
			Name:      "retrieval_seconds",
			Help:      "Latency of record retrieval from the backend",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{opLabel}),
	}
	if reg != nil {
		reg.MustRegister(m.cntOps, m.cntSkipped, m.histRetrieve)
	}
	return m
}

func (m *Metrics) op(name string) {
	if m == nil {
		return
	}
	m.cntOps.WithLabelValues(name).Inc()
}

func (m *Metrics) skipped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.cntSkipped.Add(float64(n))
}

func (m *Metrics) observeRetrieval(name string, start time.Time) {
	if m == nil {
		return
	}
	m.histRetrieve.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

// Ops returns the operation counter, labelled by op.
func (m *Metrics) Ops() *prometheus.CounterVec { return m.cntOps }

// Skipped returns the counter of records skipped by batch operations.
func (m *Metrics) Skipped() prometheus.Counter { return m.cntSkipped }
