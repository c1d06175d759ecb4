package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics exposes counters for the scheduling engine. A nil receiver
// is safe everywhere so services can run without a registry in tests.
type BookingMetrics struct {
	reservations      *prometheus.CounterVec
	availabilityCalls prometheus.Counter
	transitions       *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medidir",
			Subsystem: "booking",
			Name:      "reservations_total",
			Help:      "Reservation attempts by outcome",
		}, []string{"outcome"}),
		availabilityCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medidir",
			Subsystem: "booking",
			Name:      "availability_queries_total",
			Help:      "Total availability queries",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medidir",
			Subsystem: "booking",
			Name:      "status_transitions_total",
			Help:      "Booking status transitions by target status and outcome",
		}, []string{"to", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.reservations, m.availabilityCalls, m.transitions)
	return m
}

func (m *BookingMetrics) ObserveReservation(outcome string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveAvailabilityQuery() {
	if m == nil {
		return
	}
	m.availabilityCalls.Inc()
}

func (m *BookingMetrics) ObserveTransition(to string, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to, outcome).Inc()
}

// HTTPMetrics instruments the API router.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medidir",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status",
		}, []string{"method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medidir",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

func (m *HTTPMetrics) Observe(method string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, statusLabel(status)).Inc()
	m.latency.WithLabelValues(method).Observe(seconds)
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
