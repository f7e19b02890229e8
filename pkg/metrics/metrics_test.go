package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/x", "200", 0.1)
		m.RecordDBQuery("select", 0.1, errors.New("boom"))
		m.RecordBookingCommit("committed")
		m.RecordStatusTransition("pending", "confirmed")
		m.RecordAvailabilityRequest("any")
		m.RecordOutboxPublished("booking.created", 2)
	})
	assert.Empty(t, m.ServiceName())
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "salon-scheduler")

	m.RecordBookingCommit("conflict")
	m.RecordBookingCommit("conflict")
	m.RecordBookingCommit("committed")
	m.RecordDBQuery("insert", 0.01, errors.New("boom"))
	m.RecordOutboxPublished("booking.created", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingCommits.WithLabelValues("salon-scheduler", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingCommits.WithLabelValues("salon-scheduler", "committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("salon-scheduler", "insert")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.OutboxPublished.WithLabelValues("salon-scheduler", "booking.created")))
}
