package get_availability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	policyRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/policy"
	salonClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/salonservice"
	"github.com/m04kA/SMC-SalonScheduler/internal/scheduling"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-SalonScheduler/internal/usecase/get_availability")

const (
	modeSpecificStaff = "specific_staff"
	modeAnyStaff      = "any_staff"
)

// UseCase use case для получения доступных слотов на день
type UseCase struct {
	bookingRepo  BookingRepository
	policyRepo   PolicyRepository
	salonClient  SalonServiceClient
	txManager    TxManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case; metrics может быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	policyRepo PolicyRepository,
	salonClient SalonServiceClient,
	txManager TxManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		policyRepo:   policyRepo,
		salonClient:  salonClient,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступности.
// Политика и бронирования дня читаются одной read-only транзакцией, без блокировок.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	mode := modeAnyStaff
	if req.StaffID != nil {
		mode = modeSpecificStaff
	}

	uc.logger.Info("GetAvailability: tenant=%d, date=%s, mode=%s, services=%v, duration=%d",
		req.TenantID, req.Date.Format(domain.DateFormat), mode, req.ServiceIDs, req.TotalDurationMinutes)

	ctx, span := tracer.Start(ctx, "GetAvailability")
	span.SetAttributes(
		attribute.Int64("tenant.id", req.TenantID),
		attribute.String("availability.mode", mode),
	)
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RecordAvailabilityRequest(mode)
	}

	// 2. Получаем салон
	tenant, err := uc.salonClient.GetTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, salonClient.ErrTenantNotFound) {
			uc.logger.Warn("GetAvailability: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetAvailability: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	loc, err := tenant.Location()
	if err != nil {
		uc.logger.Error("GetAvailability: tenant id=%d has invalid timezone %q: %v", req.TenantID, tenant.Timezone, err)
		return nil, fmt.Errorf("%w: invalid tenant timezone: %v", ErrInternal, err)
	}

	// 3. Текущее время и день в часовом поясе салона
	now := uc.timeProvider.Now().In(loc)
	day := scheduling.LocalDay(req.Date, loc)

	// 4. Длительность визита
	duration, err := uc.totalDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	// 5. Мастера, среди которых ищем окно
	staff, err := uc.candidateStaff(ctx, req)
	if err != nil {
		return nil, err
	}

	// 6. Политика и активные бронирования дня одним снимком
	var (
		policy   *domain.TenantPolicy
		bookings []*domain.Booking
	)
	from, to := scheduling.DayWindow(day, loc)
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		p, err := uc.policyRepo.GetByTenant(txCtx, req.TenantID)
		if err != nil {
			if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
				uc.logger.Error("GetAvailability: failed to get policy for tenant=%d: %v", req.TenantID, err)
				return fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
			}
			p = domain.NewDefaultTenantPolicy(req.TenantID)
		}

		// 7. Валидация даты до чтения бронирований
		if err := validateDate(day, now, p); err != nil {
			uc.logger.Warn("GetAvailability: date validation failed: %v", err)
			return err
		}

		list, err := uc.bookingRepo.ListActive(txCtx, req.TenantID, from, to)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		policy, bookings = p, list
		return nil
	})
	if err != nil {
		return nil, err
	}
	slotCount := policy.SlotCount(duration)

	// 8. Сетка, занятость и разрешение доступности
	grid, occ, err := scheduling.PlanDay(tenant, staff, day, policy.SlotMinutes, loc, bookings)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to plan day for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to build grid: %v", ErrInternal, err)
	}

	slots, err := scheduling.Resolve(grid, occ, slotCount, req.StaffID, now)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to resolve slots: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailability: tenant=%d, date=%s: %d slots, %d available, staff=%d",
		req.TenantID, day.Format(domain.DateFormat), len(slots), countAvailable(slots), len(staff))

	return &Response{
		TenantID:        req.TenantID,
		Date:            day,
		Timezone:        loc.String(),
		StaffID:         req.StaffID,
		DurationMinutes: duration,
		SlotMinutes:     policy.SlotMinutes,
		SlotCount:       slotCount,
		Slots:           slots,
	}, nil
}

// totalDuration сумма длительностей услуг или явная длительность
func (uc *UseCase) totalDuration(ctx context.Context, req *Request) (int, error) {
	if len(req.ServiceIDs) == 0 {
		return req.TotalDurationMinutes, nil
	}

	total := 0
	for _, id := range req.ServiceIDs {
		service, err := uc.salonClient.GetService(ctx, req.TenantID, id)
		if err != nil {
			if errors.Is(err, salonClient.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailability: service id=%d not found in tenant=%d", id, req.TenantID)
				return 0, fmt.Errorf("%w: id=%d", ErrServiceNotFound, id)
			}
			uc.logger.Error("GetAvailability: failed to get service id=%d: %v", id, err)
			return 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		total += service.DurationMinutes
	}
	return total, nil
}

// candidateStaff конкретный мастер или все активные мастера, оказывающие услуги
func (uc *UseCase) candidateStaff(ctx context.Context, req *Request) ([]*domain.StaffMember, error) {
	all, err := uc.salonClient.ListStaff(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list staff for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}

	if req.StaffID == nil {
		return domain.EligibleStaff(all, req.ServiceIDs), nil
	}

	member := domain.FindStaff(all, *req.StaffID)
	if member == nil || !member.Active {
		uc.logger.Warn("GetAvailability: staff id=%d not found in tenant=%d", *req.StaffID, req.TenantID)
		return nil, ErrStaffNotFound
	}
	if !member.Performs(req.ServiceIDs) {
		uc.logger.Warn("GetAvailability: staff id=%d does not perform services %v", *req.StaffID, req.ServiceIDs)
		return nil, ErrStaffNotQualified
	}
	return []*domain.StaffMember{member}, nil
}

func countAvailable(slots []domain.AvailabilitySlot) int {
	n := 0
	for _, s := range slots {
		if s.Available {
			n++
		}
	}
	return n
}
