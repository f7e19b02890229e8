package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/outbox"
)

const (
	HeaderEventID   = "event_id"
	HeaderEventType = "event_type"
	HeaderTenantID  = "tenant_id"
)

// ErrPublish возвращается, когда часть сообщений не удалось отправить
var ErrPublish = errors.New("messaging: failed to publish events")

// MessageWriter часть *kafka.Writer, используемая publisher
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher отправляет события outbox в Kafka.
// Ключ сообщения = id бронирования, поэтому события одного бронирования идут в одну партицию по порядку.
type Publisher struct {
	writer MessageWriter
	topic  string
}

// NewKafkaPublisher создает publisher с Hash-балансировкой по ключу
func NewKafkaPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return NewPublisher(writer, topic)
}

// NewPublisher создает publisher поверх произвольного writer
func NewPublisher(writer MessageWriter, topic string) *Publisher {
	return &Publisher{writer: writer, topic: topic}
}

// Publish отправляет записи и возвращает id доставленных.
// При частичном сбое возвращает доставленные id вместе с ErrPublish.
func (p *Publisher) Publish(ctx context.Context, records []outbox.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	msgs := make([]kafka.Message, len(records))
	for i, r := range records {
		msgs[i] = p.message(ctx, r)
	}

	err := p.writer.WriteMessages(ctx, msgs...)
	if err == nil {
		ids := make([]string, len(records))
		for i, r := range records {
			ids[i] = r.ID
		}
		return ids, nil
	}

	var writeErrs kafka.WriteErrors
	if !errors.As(err, &writeErrs) || len(writeErrs) != len(records) {
		return nil, fmt.Errorf("%w: %v", ErrPublish, err)
	}

	ids := make([]string, 0, len(records))
	failed := make([]string, 0)
	for i, r := range records {
		if writeErrs[i] == nil {
			ids = append(ids, r.ID)
			continue
		}
		failed = append(failed, r.ID)
	}
	return ids, fmt.Errorf("%w: %d of %d failed (%s): %v", ErrPublish, len(failed), len(records), strings.Join(failed, ","), err)
}

// Close закрывает writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) message(ctx context.Context, r outbox.Record) kafka.Message {
	// Контекст трассировки запроса, создавшего событие
	carrier := propagation.MapCarrier{}
	if r.Traceparent != "" {
		carrier.Set("traceparent", r.Traceparent)
	}
	if r.Tracestate != "" {
		carrier.Set("tracestate", r.Tracestate)
	}
	msgCtx := otel.GetTextMapPropagator().Extract(ctx, carrier)

	headers := []kafka.Header{
		{Key: HeaderEventID, Value: []byte(r.ID)},
		{Key: HeaderEventType, Value: []byte(r.EventType)},
		{Key: HeaderTenantID, Value: []byte(fmt.Sprintf("%d", r.TenantID))},
	}

	return kafka.Message{
		Key:     []byte(r.AggregateID),
		Value:   r.Payload,
		Headers: InjectTraceHeaders(msgCtx, headers),
		Time:    r.CreatedAt,
	}
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// ReadyCheck проверка доступности первого брокера для /readyz
func ReadyCheck(brokers []string) func(context.Context) error {
	return func(ctx context.Context) error {
		if len(brokers) == 0 {
			return errors.New("kafka brokers not configured")
		}
		dialer := kafka.Dialer{Timeout: 2 * time.Second}
		conn, err := dialer.DialContext(ctx, "tcp", brokers[0])
		if err != nil {
			return err
		}
		return conn.Close()
	}
}
