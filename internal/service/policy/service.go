package policy

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	policyRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/policy"
	salonClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/salonservice"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/policy/models"
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// Service сервис для работы с политикой расписания салона
type Service struct {
	policyRepo  PolicyRepository
	salonClient SalonServiceClient
	logger      Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(
	policyRepo PolicyRepository,
	salonClient SalonServiceClient,
	logger Logger,
) *Service {
	return &Service{
		policyRepo:  policyRepo,
		salonClient: salonClient,
		logger:      logger,
	}
}

// Get политика салона; если салон её не настраивал, возвращаются значения по умолчанию
func (s *Service) Get(ctx context.Context, tenantID int64) (*models.PolicyResponse, error) {
	s.logger.Info("Get: fetching policy for tenant=%d", tenantID)

	p, isDefault, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainPolicy(p, isDefault), nil
}

// Update частичное обновление политики салона
func (s *Service) Update(ctx context.Context, tenantID int64, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Update: updating policy for tenant=%d", tenantID)

	// 1. Проверяем, что салон существует
	if _, err := s.salonClient.GetTenant(ctx, tenantID); err != nil {
		if errors.Is(err, salonClient.ErrTenantNotFound) {
			s.logger.Warn("Update: tenant id=%d not found", tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("Update: failed to get tenant id=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	// 2. Текущая политика (или значения по умолчанию)
	p, _, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	// 3. Применяем изменения и валидируем результат
	req.Apply(p)
	if err := validatePolicy(p); err != nil {
		s.logger.Warn("Update: validation failed for tenant=%d: %v", tenantID, err)
		return nil, err
	}

	saved, err := s.policyRepo.Upsert(ctx, p)
	if err != nil {
		s.logger.Error("Update: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated policy for tenant=%d: slot=%dm, fee=%.2f %s",
		tenantID, saved.SlotMinutes, saved.CancellationFee, saved.FeeCurrency)
	return models.FromDomainPolicy(saved, false), nil
}

func (s *Service) load(ctx context.Context, tenantID int64) (*domain.TenantPolicy, bool, error) {
	p, err := s.policyRepo.GetByTenant(ctx, tenantID)
	if err == nil {
		return p, false, nil
	}
	if errors.Is(err, policyRepo.ErrPolicyNotFound) {
		return domain.NewDefaultTenantPolicy(tenantID), true, nil
	}
	s.logger.Error("load: repository error for tenant=%d: %v", tenantID, err)
	return nil, false, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
}

// validatePolicy проверяет диапазоны значений политики
func validatePolicy(p *domain.TenantPolicy) error {
	if p.SlotMinutes < domain.MinSlotMinutes || p.SlotMinutes > domain.MaxSlotMinutes {
		return fmt.Errorf("%w: slotMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotMinutes, domain.MaxSlotMinutes)
	}
	if p.SlotMinutes%domain.MinSlotMinutes != 0 {
		return fmt.Errorf("%w: slotMinutes must be a multiple of %d", ErrInvalidInput, domain.MinSlotMinutes)
	}

	if p.CancellationFee < 0 || p.CancellationFee > domain.MaxCancellationFee {
		return fmt.Errorf("%w: cancellationFee must be between 0 and %.0f", ErrInvalidInput, domain.MaxCancellationFee)
	}

	if !currencyCode.MatchString(p.FeeCurrency) {
		return fmt.Errorf("%w: feeCurrency must be an ISO 4217 code", ErrInvalidInput)
	}

	if p.FreeCancellationHours < 0 || p.FreeCancellationHours > domain.MaxFreeCancellationHours {
		return fmt.Errorf("%w: freeCancellationHours must be between 0 and %d", ErrInvalidInput, domain.MaxFreeCancellationHours)
	}

	if p.LateGraceMinutes < 0 || p.LateGraceMinutes > domain.MaxLateGraceMinutes {
		return fmt.Errorf("%w: lateGraceMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxLateGraceMinutes)
	}

	if p.AdvanceBookingDays < 0 || p.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between 0 and %d", ErrInvalidInput, domain.MaxAdvanceBookingDays)
	}

	return nil
}
