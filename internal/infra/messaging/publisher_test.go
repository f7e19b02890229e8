package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/outbox"
)

type fakeWriter struct {
	written []kafka.Message
	err     error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.written = append(w.written, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error { return nil }

const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

func records() []outbox.Record {
	return []outbox.Record{
		{
			ID:          "0b7a3d5e-0000-0000-0000-000000000001",
			AggregateID: "booking-1",
			TenantID:    7,
			EventType:   "booking.created",
			Payload:     []byte(`{"status":"pending"}`),
			Traceparent: traceparent,
			CreatedAt:   time.Date(2026, 5, 18, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          "0b7a3d5e-0000-0000-0000-000000000002",
			AggregateID: "booking-1",
			TenantID:    7,
			EventType:   "booking.status_changed",
			Payload:     []byte(`{"status":"confirmed"}`),
		},
	}
}

func TestPublisher_Publish(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	w := &fakeWriter{}
	p := NewPublisher(w, "scheduling.booking-events")

	ids, err := p.Publish(context.Background(), records())
	require.NoError(t, err)
	assert.Equal(t, []string{records()[0].ID, records()[1].ID}, ids)

	require.Len(t, w.written, 2)
	first := w.written[0]
	assert.Equal(t, "booking-1", string(first.Key))
	assert.Equal(t, "booking.created", HeaderValue(first.Headers, HeaderEventType))
	assert.Equal(t, records()[0].ID, HeaderValue(first.Headers, HeaderEventID))
	assert.Equal(t, "7", HeaderValue(first.Headers, HeaderTenantID))
	assert.Equal(t, traceparent, HeaderValue(first.Headers, "traceparent"))

	assert.Empty(t, HeaderValue(w.written[1].Headers, "traceparent"))
}

func TestPublisher_PartialFailure(t *testing.T) {
	w := &fakeWriter{err: kafka.WriteErrors{nil, errors.New("leader not available")}}
	p := NewPublisher(w, "topic")

	ids, err := p.Publish(context.Background(), records())
	assert.ErrorIs(t, err, ErrPublish)
	assert.Equal(t, []string{records()[0].ID}, ids)
}

func TestPublisher_TotalFailure(t *testing.T) {
	w := &fakeWriter{err: errors.New("dial tcp: connection refused")}
	p := NewPublisher(w, "topic")

	ids, err := p.Publish(context.Background(), records())
	assert.ErrorIs(t, err, ErrPublish)
	assert.Empty(t, ids)
}

func TestTraceHeadersRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	carrier := propagation.MapCarrier{"traceparent": traceparent}
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), carrier)

	msg := kafka.Message{Headers: InjectTraceHeaders(ctx, nil)}
	restored := ExtractTraceContext(context.Background(), msg)

	out := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(restored, out)
	assert.Equal(t, traceparent, out.Get("traceparent"))
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Nil(t, SplitBrokers(""))
}
