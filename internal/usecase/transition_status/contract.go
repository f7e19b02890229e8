package transition_status

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, tenantID int64, id uuid.UUID) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, booking *domain.Booking) error
}

// OutboxRepository запись событий в outbox в транзакции бронирования
type OutboxRepository interface {
	Add(ctx context.Context, event *domain.OutboxEvent) error
}

// PolicyRepository интерфейс репозитория политик расписания
type PolicyRepository interface {
	GetByTenant(ctx context.Context, tenantID int64) (*domain.TenantPolicy, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчик переходов статусов
type Metrics interface {
	RecordStatusTransition(from, to string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
