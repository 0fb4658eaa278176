package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulerMetrics exposes counters/histograms for availability and
// booking flows plus HTTP latency.
type SchedulerMetrics struct {
	availabilityTotal *prometheus.CounterVec
	bookingTotal      *prometheus.CounterVec
	httpLatency       *prometheus.HistogramVec
}

func NewSchedulerMetrics(reg prometheus.Registerer) *SchedulerMetrics {
	m := &SchedulerMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "availability",
			Name:      "requests_total",
			Help:      "Availability computations by cache outcome",
		}, []string{"cache"}),
		bookingTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "booking",
			Name:      "attempts_total",
			Help:      "Booking write attempts by outcome",
		}, []string{"source", "outcome"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agenda",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.bookingTotal, m.httpLatency)
	return m
}

// ObserveAvailability records one computation. cache is "hit", "miss"
// or "off".
func (m *SchedulerMetrics) ObserveAvailability(cache string) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(cache).Inc()
}

func (m *SchedulerMetrics) ObserveBooking(source, outcome string) {
	if m == nil {
		return
	}
	if source == "" {
		source = "unknown"
	}
	m.bookingTotal.WithLabelValues(source, outcome).Inc()
}

func (m *SchedulerMetrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpLatency.WithLabelValues(method, route, status).Observe(seconds)
}
