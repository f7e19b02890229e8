package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/psqlbuilder"
)

const table = "tenant_scheduling_policy"

// Repository репозиторий политик расписания салонов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTenant получает политику салона
func (r *Repository) GetByTenant(ctx context.Context, tenantID int64) (*domain.TenantPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"tenant_id",
		"slot_minutes",
		"cancellation_fee",
		"fee_currency",
		"free_cancellation_hours",
		"late_grace_minutes",
		"advance_booking_days",
		"created_at",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - build select query: %v", ErrBuildQuery, err)
	}

	var policy domain.TenantPolicy
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.TenantID,
		&policy.SlotMinutes,
		&policy.CancellationFee,
		&policy.FeeCurrency,
		&policy.FreeCancellationHours,
		&policy.LateGraceMinutes,
		&policy.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - scan policy: %v", ErrScanRow, err)
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return &policy, nil
}

// Upsert создает или полностью заменяет политику салона
func (r *Repository) Upsert(ctx context.Context, policy *domain.TenantPolicy) (*domain.TenantPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"tenant_id",
			"slot_minutes",
			"cancellation_fee",
			"fee_currency",
			"free_cancellation_hours",
			"late_grace_minutes",
			"advance_booking_days",
		).
		Values(
			policy.TenantID,
			policy.SlotMinutes,
			policy.CancellationFee,
			policy.FeeCurrency,
			policy.FreeCancellationHours,
			policy.LateGraceMinutes,
			policy.AdvanceBookingDays,
		).
		Suffix(`ON CONFLICT (tenant_id) DO UPDATE SET
			slot_minutes = EXCLUDED.slot_minutes,
			cancellation_fee = EXCLUDED.cancellation_fee,
			fee_currency = EXCLUDED.fee_currency,
			free_cancellation_hours = EXCLUDED.free_cancellation_hours,
			late_grace_minutes = EXCLUDED.late_grace_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return policy, nil
}
