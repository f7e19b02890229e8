package policy

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// PolicyRepository интерфейс репозитория политик расписания
type PolicyRepository interface {
	GetByTenant(ctx context.Context, tenantID int64) (*domain.TenantPolicy, error)
	Upsert(ctx context.Context, policy *domain.TenantPolicy) (*domain.TenantPolicy, error)
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
