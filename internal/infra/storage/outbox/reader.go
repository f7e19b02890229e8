package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Record невыгруженное событие outbox
type Record struct {
	ID            string    `db:"id"`
	AggregateType string    `db:"aggregate_type"`
	AggregateID   string    `db:"aggregate_id"`
	TenantID      int64     `db:"tenant_id"`
	EventType     string    `db:"event_type"`
	Payload       []byte    `db:"payload"`
	Traceparent   string    `db:"traceparent"`
	Tracestate    string    `db:"tracestate"`
	CreatedAt     time.Time `db:"created_at"`
}

// Reader выгружает события пачками. Строки пачки блокируются FOR UPDATE SKIP LOCKED,
// поэтому несколько реплик сервиса не публикуют одно событие одновременно.
type Reader struct {
	db *sqlx.DB
}

// NewReader создает reader поверх sqlx
func NewReader(db *sqlx.DB) *Reader {
	return &Reader{db: db}
}

const fetchUnpublishedQuery = `
	SELECT id, aggregate_type, aggregate_id, tenant_id, event_type, payload, traceparent, tracestate, created_at
	FROM outbox_events
	WHERE published_at IS NULL
	ORDER BY created_at, id
	LIMIT $1
	FOR UPDATE SKIP LOCKED`

const markPublishedQuery = `
	UPDATE outbox_events
	SET published_at = NOW()
	WHERE id = ANY($1::uuid[])`

// ProcessBatch читает до limit событий и передаёт их publish.
// publish возвращает id успешно опубликованных событий; они помечаются в той же транзакции.
// Возвращает количество помеченных событий.
func (r *Reader) ProcessBatch(ctx context.Context, limit int, publish func(context.Context, []Record) ([]string, error)) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: ProcessBatch - begin: %v", ErrTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	records := make([]Record, 0, limit)
	if err := tx.SelectContext(ctx, &records, fetchUnpublishedQuery, limit); err != nil {
		return 0, fmt.Errorf("%w: ProcessBatch - select: %v", ErrExecQuery, err)
	}
	if len(records) == 0 {
		return 0, tx.Commit()
	}

	published, publishErr := publish(ctx, records)
	if len(published) > 0 {
		if _, err := tx.ExecContext(ctx, markPublishedQuery, pq.Array(published)); err != nil {
			return 0, fmt.Errorf("%w: ProcessBatch - mark published: %v", ErrExecQuery, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: ProcessBatch - commit: %v", ErrTransaction, err)
	}

	return len(published), publishErr
}
