package outbox

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/psqlbuilder"
)

const table = "outbox_events"

// Repository записывает события в outbox.
// Вызывается внутри транзакции бизнес-операции: событие видно только вместе с изменением.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория outbox
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Add сохраняет событие вместе с контекстом трассировки текущего запроса
func (r *Repository) Add(ctx context.Context, event *domain.OutboxEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"aggregate_type",
			"aggregate_id",
			"tenant_id",
			"event_type",
			"payload",
			"traceparent",
			"tracestate",
			"created_at",
		).
		Values(
			event.ID,
			event.AggregateType,
			event.AggregateID,
			event.TenantID,
			string(event.EventType),
			event.Payload,
			carrier.Get("traceparent"),
			carrier.Get("tracestate"),
			event.CreatedAt,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Add - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Add - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}
