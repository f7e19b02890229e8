package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/pgerr"
	"github.com/m04kA/SMC-SalonScheduler/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"tenant_id",
	"client_id",
	"staff_id",
	"any_staff",
	"scheduled_start",
	"slot_count",
	"slot_minutes",
	"service_ids",
	"total_price",
	"status",
	"version",
	"idempotency_key",
	"fee_amount",
	"fee_currency",
	"fee_reason",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет бронирование одним условным INSERT.
// Пересечение с активным бронированием того же мастера отклоняет ограничение исключения
// bookings_no_overlap, повтор ключа идемпотентности отклоняет уникальный индекс.
// Если в контексте передана транзакция, запрос выполняется в ней.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"tenant_id",
			"client_id",
			"staff_id",
			"any_staff",
			"scheduled_start",
			"scheduled_end",
			"slot_count",
			"slot_minutes",
			"service_ids",
			"total_price",
			"status",
			"version",
			"idempotency_key",
		).
		Values(
			booking.ID,
			booking.TenantID,
			booking.ClientID,
			booking.StaffID,
			booking.AnyStaff,
			booking.ScheduledStart,
			booking.ScheduledEnd(),
			booking.SlotCount,
			booking.SlotMinutes,
			pq.Array(booking.ServiceIDs),
			booking.TotalPrice,
			booking.Status,
			booking.Version,
			booking.IdempotencyKey,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, classifyInsertError(err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// classifyInsertError переводит SQLSTATE в ошибки репозитория
func classifyInsertError(err error) error {
	switch {
	case pgerr.IsExclusionViolation(err):
		return fmt.Errorf("%w: %s", ErrSlotTaken, pgerr.Constraint(err))
	case pgerr.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s", ErrDuplicateIdempotencyKey, pgerr.Constraint(err))
	default:
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
}

// GetByID получает бронирование салона по ID
func (r *Repository) GetByID(ctx context.Context, tenantID int64, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByIdempotencyKey ищет бронирование по ключу идемпотентности.
// Используется для повторов запроса и при неоднозначной ошибке фиксации.
func (r *Repository) GetByIdempotencyKey(ctx context.Context, tenantID int64, key string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"tenant_id": tenantID, "idempotency_key": key}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIdempotencyKey - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIdempotencyKey - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListActive возвращает активные бронирования салона, пересекающиеся с [from, to).
// Результат только строит индекс занятости: решение о фиксации принимает ограничение в БД.
func (r *Repository) ListActive(ctx context.Context, tenantID int64, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		Where(squirrel.NotEq{"staff_id": nil}).
		Where(squirrel.Lt{"scheduled_start": to}).
		Where(squirrel.Gt{"scheduled_end": from}).
		OrderBy("staff_id ASC", "scheduled_start ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListByTenant получает бронирования салона с фильтрацией
// Поддерживает фильтрацию по:
// - Мастеру (StaffID) и клиенту (ClientID)
// - Периоду [From, To) по времени начала
// - Статусу (Status); без статуса и IncludeInactive возвращаются только активные
func (r *Repository) ListByTenant(ctx context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"tenant_id": filter.TenantID})

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"scheduled_start": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"scheduled_start": *filter.To})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)})
	}

	selectBuilder = selectBuilder.OrderBy("scheduled_start ASC", "staff_id ASC")
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTenant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTenant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus сохраняет новый статус, штраф и причину отмены с оптимистичной блокировкой.
// booking.Version должен содержать версию, прочитанную до перехода; при успехе она увеличивается.
func (r *Repository) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", booking.Status).
		Set("version", squirrel.Expr("version + 1")).
		Set("fee_amount", booking.FeeAmount).
		Set("fee_currency", booking.FeeCurrency).
		Set("fee_reason", booking.FeeReason).
		Set("cancellation_reason", booking.CancellationReason).
		Set("cancelled_at", booking.CancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":        booking.ID,
			"tenant_id": booking.TenantID,
			"version":   booking.Version,
		}).
		Suffix("RETURNING version, updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.Version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	booking.UpdatedAt = updatedAt.Time
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var serviceIDs pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.TenantID,
		&booking.ClientID,
		&booking.StaffID,
		&booking.AnyStaff,
		&booking.ScheduledStart,
		&booking.SlotCount,
		&booking.SlotMinutes,
		&serviceIDs,
		&booking.TotalPrice,
		&booking.Status,
		&booking.Version,
		&booking.IdempotencyKey,
		&booking.FeeAmount,
		&booking.FeeCurrency,
		&booking.FeeReason,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.ServiceIDs = []int64(serviceIDs)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
