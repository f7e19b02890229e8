package bookings

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований (только чтение)
type BookingRepository interface {
	GetByID(ctx context.Context, tenantID int64, id uuid.UUID) (*domain.Booking, error)
	ListByTenant(ctx context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error)
}

// SalonServiceClient интерфейс клиента для SalonService
type SalonServiceClient interface {
	GetTenant(ctx context.Context, tenantID int64) (*domain.Tenant, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
