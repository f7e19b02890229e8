package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByIdempotencyKey(ctx context.Context, tenantID int64, key string) (*domain.Booking, error)
	ListActive(ctx context.Context, tenantID int64, from, to time.Time) ([]*domain.Booking, error)
}

// OutboxRepository запись событий в outbox в транзакции бронирования
type OutboxRepository interface {
	Add(ctx context.Context, event *domain.OutboxEvent) error
}

// PolicyRepository интерфейс репозитория политик расписания
type PolicyRepository interface {
	GetByTenant(ctx context.Context, tenantID int64) (*domain.TenantPolicy, error)
}

// SalonServiceClient интерфейс клиента для SalonService
type SalonServiceClient interface {
	GetTenant(ctx context.Context, tenantID int64) (*domain.Tenant, error)
	ListStaff(ctx context.Context, tenantID int64) ([]*domain.StaffMember, error)
	GetService(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики попыток фиксации бронирования
type Metrics interface {
	RecordBookingCommit(outcome string)
}

// IDGenerator генератор идентификаторов бронирований (для тестирования)
type IDGenerator interface {
	New() uuid.UUID
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

// RandomIDGenerator UUIDv4
type RandomIDGenerator struct{}

func (RandomIDGenerator) New() uuid.UUID {
	return uuid.New()
}
