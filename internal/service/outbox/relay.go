package outbox

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/outbox"
)

const (
	defaultPollEvery = time.Second
	defaultBatchSize = 50
)

// Relay периодически переносит события из outbox в брокер.
// Доставка at-least-once: событие помечается только после успешной отправки.
type Relay struct {
	store     BatchProcessor
	publisher Publisher
	metrics   Metrics
	logger    Logger
	pollEvery time.Duration
	batchSize int
}

// NewRelay создает relay; metrics может быть nil
func NewRelay(store BatchProcessor, publisher Publisher, metrics Metrics, logger Logger, pollEvery time.Duration, batchSize int) *Relay {
	if pollEvery <= 0 {
		pollEvery = defaultPollEvery
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Relay{
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		pollEvery: pollEvery,
		batchSize: batchSize,
	}
}

// Run крутит цикл выгрузки до отмены ctx
func (r *Relay) Run(ctx context.Context) {
	r.logger.Info("Relay: started, poll every %s, batch size %d", r.pollEvery, r.batchSize)

	ticker := time.NewTicker(r.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Relay: stopped")
			return
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("Relay: publish batch failed: %v", err)
			}
		}
	}
}

// Flush выгружает пачки, пока они заполнены целиком. Возвращает количество опубликованных событий.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	total := 0
	for {
		var fetched int
		n, err := r.store.ProcessBatch(ctx, r.batchSize, func(ctx context.Context, records []outbox.Record) ([]string, error) {
			fetched = len(records)
			ids, err := r.publisher.Publish(ctx, records)
			r.record(records, ids)
			return ids, err
		})
		total += n
		if err != nil {
			return total, err
		}
		if fetched < r.batchSize {
			return total, nil
		}
	}
}

func (r *Relay) record(records []outbox.Record, published []string) {
	if r.metrics == nil || len(published) == 0 {
		return
	}
	ok := make(map[string]struct{}, len(published))
	for _, id := range published {
		ok[id] = struct{}{}
	}
	perType := make(map[string]int)
	for _, rec := range records {
		if _, found := ok[rec.ID]; found {
			perType[rec.EventType]++
		}
	}
	for eventType, n := range perType {
		r.metrics.RecordOutboxPublished(eventType, n)
	}
}
