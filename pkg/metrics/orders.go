package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order lifecycle counters.
type OrderMetrics struct {
	transitions         *prometheus.CounterVec
	transitionFailures  *prometheus.CounterVec
	notifyFailures      prometheus.Counter
	reportDuration      *prometheus.HistogramVec
	ordersCreated       prometheus.Counter
	orderNumberRetries  prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Applied order status transitions by target status.",
	}, []string{"to_status"})
	transitionFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transition_failures_total",
		Help: "Rejected order transition attempts by reason.",
	}, []string{"reason"})
	notifyFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_notification_failures_total",
		Help: "Customer notification sends that failed after a transition.",
	})
	reportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sales_report_duration_seconds",
		Help:    "Time spent building sales reports.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders accepted into the system.",
	})
	orderNumberRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_number_retries_total",
		Help: "Order number generation retries after a collision.",
	})
	reg.MustRegister(transitions, transitionFailures, notifyFailures, reportDuration, ordersCreated, orderNumberRetries)
	return &OrderMetrics{
		transitions:        transitions,
		transitionFailures: transitionFailures,
		notifyFailures:     notifyFailures,
		reportDuration:     reportDuration,
		ordersCreated:      ordersCreated,
		orderNumberRetries: orderNumberRetries,
	}
}

// IncTransition increments the applied transition counter.
func (m *OrderMetrics) IncTransition(toStatus string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(toStatus)).Inc()
}

// IncTransitionFailure increments the rejected transition counter.
func (m *OrderMetrics) IncTransitionFailure(reason string) {
	if m == nil || m.transitionFailures == nil {
		return
	}
	m.transitionFailures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncNotifyFailure increments the notification failure counter.
func (m *OrderMetrics) IncNotifyFailure() {
	if m == nil || m.notifyFailures == nil {
		return
	}
	m.notifyFailures.Inc()
}

// ObserveReportDuration records how long a sales report took to serve.
func (m *OrderMetrics) ObserveReportDuration(source string, duration time.Duration) {
	if m == nil || m.reportDuration == nil {
		return
	}
	m.reportDuration.WithLabelValues(normalizeLabel(source)).Observe(duration.Seconds())
}

// IncOrderCreated increments the created order counter.
func (m *OrderMetrics) IncOrderCreated() {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
}

// IncOrderNumberRetry increments the collision retry counter.
func (m *OrderMetrics) IncOrderNumberRetry() {
	if m == nil || m.orderNumberRetries == nil {
		return
	}
	m.orderNumberRetries.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
