package outbox

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/outbox"
)

// BatchProcessor выдаёт пачку невыгруженных событий и помечает опубликованные
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, limit int, publish func(context.Context, []outbox.Record) ([]string, error)) (int, error)
}

// Publisher отправляет события во внешний брокер
type Publisher interface {
	Publish(ctx context.Context, records []outbox.Record) ([]string, error)
}

// Metrics счётчики выгрузки
type Metrics interface {
	RecordOutboxPublished(eventType string, n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
