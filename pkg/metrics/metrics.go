package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
// Все методы Record* безопасны для nil-получателя (метрики выключены)
type Metrics struct {
	serviceName string

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCountTotal   *prometheus.GaugeVec

	// Бизнес-метрики
	BookingCommits       *prometheus.CounterVec
	StatusTransitions    *prometheus.CounterVec
	AvailabilityRequests *prometheus.CounterVec
	OutboxPublished      *prometheus.CounterVec
}

// New создает и регистрирует метрики в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),
		DBWaitCountTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count_total",
			Help: "Total number of connections waited for",
		}, []string{"service"}),
		BookingCommits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_commits_total",
			Help: "Booking commit attempts by outcome (committed, conflict, replayed, failed)",
		}, []string{"service", "outcome"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_status_transitions_total",
			Help: "Applied booking status transitions",
		}, []string{"service", "from", "to"}),
		AvailabilityRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_requests_total",
			Help: "Availability requests by staff mode (specific, any)",
		}, []string{"service", "mode"}),
		OutboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outbox_events_published_total",
			Help: "Outbox events published to the broker",
		}, []string{"service", "event_type"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCountTotal,
		m.BookingCommits,
		m.StatusTransitions,
		m.AvailabilityRequests,
		m.OutboxPublished,
	)

	return m
}

// ServiceName возвращает имя сервиса, используемое в лейблах
func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

func (m *Metrics) RecordHTTPRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(seconds)
}

func (m *Metrics) RecordDBQuery(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(seconds)
	if err != nil {
		m.DBQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

func (m *Metrics) RecordBookingCommit(outcome string) {
	if m == nil {
		return
	}
	m.BookingCommits.WithLabelValues(m.serviceName, outcome).Inc()
}

func (m *Metrics) RecordStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(m.serviceName, from, to).Inc()
}

func (m *Metrics) RecordAvailabilityRequest(mode string) {
	if m == nil {
		return
	}
	m.AvailabilityRequests.WithLabelValues(m.serviceName, mode).Inc()
}

func (m *Metrics) RecordOutboxPublished(eventType string, n int) {
	if m == nil {
		return
	}
	m.OutboxPublished.WithLabelValues(m.serviceName, eventType).Add(float64(n))
}
