package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for the booking engine.
type SchedulingMetrics struct {
	bookTotal      *prometheus.CounterVec
	cancelTotal    *prometheus.CounterVec
	searchLatency  prometheus.Histogram
	searchOutcomes *prometheus.CounterVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		bookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "receptionist",
			Subsystem: "scheduling",
			Name:      "book_total",
			Help:      "Total booking attempts by outcome code",
		}, []string{"outcome"}),
		cancelTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "receptionist",
			Subsystem: "scheduling",
			Name:      "cancel_total",
			Help:      "Total cancellation attempts by outcome code",
		}, []string{"outcome"}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "receptionist",
			Subsystem: "scheduling",
			Name:      "next_available_latency_seconds",
			Help:      "Latency of next-available slot searches",
			Buckets:   prometheus.DefBuckets,
		}),
		searchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "receptionist",
			Subsystem: "scheduling",
			Name:      "next_available_total",
			Help:      "Total next-available searches by outcome code",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookTotal, m.cancelTotal, m.searchLatency, m.searchOutcomes)
	return m
}

func (m *SchedulingMetrics) ObserveBook(outcome string) {
	if m == nil {
		return
	}
	m.bookTotal.WithLabelValues(outcome).Inc()
}

func (m *SchedulingMetrics) ObserveCancel(outcome string) {
	if m == nil {
		return
	}
	m.cancelTotal.WithLabelValues(outcome).Inc()
}

func (m *SchedulingMetrics) ObserveSearch(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.searchOutcomes.WithLabelValues(outcome).Inc()
	m.searchLatency.Observe(seconds)
}
