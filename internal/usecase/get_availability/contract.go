package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListActive(ctx context.Context, tenantID int64, from, to time.Time) ([]*domain.Booking, error)
}

// PolicyRepository интерфейс репозитория политик расписания
type PolicyRepository interface {
	GetByTenant(ctx context.Context, tenantID int64) (*domain.TenantPolicy, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// SalonServiceClient интерфейс клиента для SalonService
type SalonServiceClient interface {
	GetTenant(ctx context.Context, tenantID int64) (*domain.Tenant, error)
	ListStaff(ctx context.Context, tenantID int64) ([]*domain.StaffMember, error)
	GetService(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error)
}

// Metrics счётчики запросов доступности
type Metrics interface {
	RecordAvailabilityRequest(mode string)
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
