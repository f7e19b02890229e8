package create_booking

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/booking"
	policyRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/policy"
	salonClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/salonservice"
	"github.com/m04kA/SMC-SalonScheduler/internal/scheduling"
	"github.com/m04kA/SMC-SalonScheduler/pkg/pgerr"
	"github.com/m04kA/SMC-SalonScheduler/pkg/ptr"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_booking")

// Исходы фиксации для метрик
const (
	outcomeCommitted = "committed"
	outcomeConflict  = "conflict"
	outcomeReplayed  = "replayed"
	outcomeFailed    = "failed"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	outboxRepo   OutboxRepository
	policyRepo   PolicyRepository
	salonClient  SalonServiceClient
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	ids          IDGenerator
	logger       Logger
}

// NewUseCase создает новый экземпляр use case; metrics может быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	outboxRepo OutboxRepository,
	policyRepo PolicyRepository,
	salonClient SalonServiceClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		outboxRepo:   outboxRepo,
		policyRepo:   policyRepo,
		salonClient:  salonClient,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		ids:          RandomIDGenerator{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// WithIDGenerator подменяет генератор идентификаторов
func (uc *UseCase) WithIDGenerator(g IDGenerator) *UseCase {
	uc.ids = g
	return uc
}

// visit всё, что нужно для попыток вставки
type visit struct {
	slotCount  int
	slotMins   int
	totalPrice float64
	candidates []int64
}

// Execute выполняет use case создания бронирования.
//
// Решение о занятости принимает только условная вставка в хранилище (ограничение исключения),
// снимок занятости используется лишь для выбора кандидатов. Каждый мастер пробуется не более
// одного раза; конфликт по тому же мастеру и окну не повторяется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("CreateBooking: tenant=%d, client=%d, staff=%v, start=%s, services=%v, key=%q",
		req.TenantID, req.ClientID, staffLabel(req.StaffID), req.ScheduledStart.UTC().Format("2006-01-02T15:04Z"),
		req.ServiceIDs, req.IdempotencyKey)

	ctx, span := tracer.Start(ctx, "CreateBooking")
	span.SetAttributes(
		attribute.Int64("tenant.id", req.TenantID),
		attribute.Bool("booking.any_staff", req.StaffID == nil),
	)
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Повтор запроса с тем же ключом возвращает исходное бронирование
	if resp, err := uc.replay(ctx, req); resp != nil || err != nil {
		return resp, err
	}

	// 3. Салон, политика, услуги, кандидаты
	v, err := uc.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Условная вставка по кандидатам
	for _, staffID := range v.candidates {
		booking := uc.newBooking(req, v, staffID)

		created, err := uc.commit(ctx, booking)
		switch {
		case err == nil:
			uc.record(outcomeCommitted)
			uc.logger.Info("CreateBooking: created booking id=%s, staff=%d, start=%s",
				created.ID, staffID, created.ScheduledStart.UTC().Format("2006-01-02T15:04Z"))
			span.SetAttributes(attribute.String("booking.id", created.ID.String()))
			return &Response{Booking: created}, nil

		case errors.Is(err, bookingRepo.ErrSlotTaken):
			uc.record(outcomeConflict)
			uc.logger.Warn("CreateBooking: staff=%d is already booked at %s", staffID, req.ScheduledStart.UTC())
			continue

		case errors.Is(err, bookingRepo.ErrDuplicateIdempotencyKey):
			// Параллельный запрос с тем же ключом успел раньше
			uc.logger.Warn("CreateBooking: concurrent request with key=%q committed first", req.IdempotencyKey)
			resp, rerr := uc.replay(ctx, req)
			if rerr != nil {
				return nil, rerr
			}
			if resp != nil {
				return resp, nil
			}
			uc.record(outcomeFailed)
			return nil, fmt.Errorf("%w: duplicate idempotency key but no booking found", ErrInternal)

		case pgerr.IsRetryable(err):
			// Сериализация или дедлок: транзакция точно откатилась, окно ушло другому писателю
			uc.record(outcomeConflict)
			uc.logger.Warn("CreateBooking: staff=%d lost a serialization race at %s: %v", staffID, req.ScheduledStart.UTC(), err)
			continue

		default:
			// Неоднозначный сбой: транзакция могла зафиксироваться
			uc.logger.Error("CreateBooking: commit failed for staff=%d: %v", staffID, err)
			resp, rerr := uc.replay(ctx, req)
			if rerr == nil && resp != nil {
				resp.Replayed = false
				uc.logger.Info("CreateBooking: booking id=%s was committed despite the error", resp.Booking.ID)
				return resp, nil
			}
			uc.record(outcomeFailed)
			return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
	}

	uc.logger.Warn("CreateBooking: slot %s is taken for all %d candidates",
		req.ScheduledStart.UTC(), len(v.candidates))
	return nil, ErrSlotNotAvailable
}

// replay ищет бронирование по ключу идемпотентности; (nil, nil), если его нет
func (uc *UseCase) replay(ctx context.Context, req *Request) (*Response, error) {
	existing, err := uc.bookingRepo.GetByIdempotencyKey(ctx, req.TenantID, req.IdempotencyKey)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, nil
		}
		uc.logger.Error("CreateBooking: failed to look up key=%q: %v", req.IdempotencyKey, err)
		return nil, fmt.Errorf("%w: failed to look up idempotency key: %v", ErrInternal, err)
	}

	if !sameVisit(existing, req) {
		uc.logger.Warn("CreateBooking: key=%q already used by booking id=%s", req.IdempotencyKey, existing.ID)
		return nil, ErrIdempotencyKeyReused
	}

	uc.record(outcomeReplayed)
	uc.logger.Info("CreateBooking: replaying booking id=%s for key=%q", existing.ID, req.IdempotencyKey)
	return &Response{Booking: existing, Replayed: true}, nil
}

// prepare загружает салон и политику, проверяет начало визита и выбирает кандидатов
func (uc *UseCase) prepare(ctx context.Context, req *Request) (*visit, error) {
	tenant, err := uc.salonClient.GetTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, salonClient.ErrTenantNotFound) {
			uc.logger.Warn("CreateBooking: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("CreateBooking: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	loc, err := tenant.Location()
	if err != nil {
		uc.logger.Error("CreateBooking: tenant id=%d has invalid timezone %q: %v", req.TenantID, tenant.Timezone, err)
		return nil, fmt.Errorf("%w: invalid tenant timezone: %v", ErrInternal, err)
	}

	policy, err := uc.policyRepo.GetByTenant(ctx, req.TenantID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			uc.logger.Error("CreateBooking: failed to get policy for tenant=%d: %v", req.TenantID, err)
			return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
		}
		policy = domain.NewDefaultTenantPolicy(req.TenantID)
	}

	now := uc.timeProvider.Now().In(loc)
	if err := validateStart(req.ScheduledStart, now, policy); err != nil {
		uc.logger.Warn("CreateBooking: start validation failed: %v", err)
		return nil, err
	}

	duration, price, err := uc.services(ctx, req)
	if err != nil {
		return nil, err
	}

	staff, err := uc.eligibleStaff(ctx, req)
	if err != nil {
		return nil, err
	}

	day := scheduling.LocalDay(req.ScheduledStart.In(loc), loc)
	from, to := scheduling.DayWindow(day, loc)
	bookings, err := uc.bookingRepo.ListActive(ctx, req.TenantID, from, to)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	grid, occ, err := scheduling.PlanDay(tenant, staff, day, policy.SlotMinutes, loc, bookings)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to plan day for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to build grid: %v", ErrInternal, err)
	}
	if grid.Len() == 0 {
		uc.logger.Warn("CreateBooking: tenant=%d is closed on %s", req.TenantID, day.Format(domain.DateFormat))
		return nil, ErrTenantClosed
	}

	slotCount := policy.SlotCount(duration)
	index, ok := grid.IndexOf(req.ScheduledStart)
	if !ok || index+slotCount > grid.Len() {
		uc.logger.Warn("CreateBooking: start %s with %d slots does not fit the grid", req.ScheduledStart.In(loc), slotCount)
		return nil, fmt.Errorf("%w: start must be a grid slot and the visit must end by closing time", ErrInvalidTimeSlot)
	}

	v := &visit{
		slotCount:  slotCount,
		slotMins:   policy.SlotMinutes,
		totalPrice: price,
	}

	if req.StaffID != nil {
		if !occ.OnShift(*req.StaffID, index, slotCount) {
			uc.logger.Warn("CreateBooking: staff=%d is not working at %s", *req.StaffID, req.ScheduledStart.In(loc))
			return nil, fmt.Errorf("%w: staff member is not working at this time", ErrInvalidTimeSlot)
		}
		v.candidates = []int64{*req.StaffID}
		return v, nil
	}

	v.candidates = scheduling.FreeStaff(occ, index, slotCount)
	if len(v.candidates) == 0 {
		uc.record(outcomeConflict)
		uc.logger.Warn("CreateBooking: no free staff at %s", req.ScheduledStart.In(loc))
		return nil, ErrSlotNotAvailable
	}
	return v, nil
}

// services суммарная длительность и цена услуг визита
func (uc *UseCase) services(ctx context.Context, req *Request) (int, float64, error) {
	duration, price := 0, 0.0
	for _, id := range req.ServiceIDs {
		service, err := uc.salonClient.GetService(ctx, req.TenantID, id)
		if err != nil {
			if errors.Is(err, salonClient.ErrServiceNotFound) {
				uc.logger.Warn("CreateBooking: service id=%d not found in tenant=%d", id, req.TenantID)
				return 0, 0, fmt.Errorf("%w: id=%d", ErrServiceNotFound, id)
			}
			uc.logger.Error("CreateBooking: failed to get service id=%d: %v", id, err)
			return 0, 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		duration += service.DurationMinutes
		price += service.Price
	}
	return duration, price, nil
}

// eligibleStaff конкретный мастер или все активные мастера, оказывающие услуги
func (uc *UseCase) eligibleStaff(ctx context.Context, req *Request) ([]*domain.StaffMember, error) {
	all, err := uc.salonClient.ListStaff(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list staff for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}

	if req.StaffID == nil {
		return domain.EligibleStaff(all, req.ServiceIDs), nil
	}

	member := domain.FindStaff(all, *req.StaffID)
	if member == nil || !member.Active {
		uc.logger.Warn("CreateBooking: staff id=%d not found in tenant=%d", *req.StaffID, req.TenantID)
		return nil, ErrStaffNotFound
	}
	if !member.Performs(req.ServiceIDs) {
		uc.logger.Warn("CreateBooking: staff id=%d does not perform services %v", *req.StaffID, req.ServiceIDs)
		return nil, ErrStaffNotQualified
	}
	return []*domain.StaffMember{member}, nil
}

func (uc *UseCase) newBooking(req *Request, v *visit, staffID int64) *domain.Booking {
	return &domain.Booking{
		ID:             uc.ids.New(),
		TenantID:       req.TenantID,
		ClientID:       req.ClientID,
		StaffID:        ptr.Ptr(staffID),
		AnyStaff:       req.StaffID == nil,
		ScheduledStart: req.ScheduledStart.UTC(),
		SlotCount:      v.slotCount,
		SlotMinutes:    v.slotMins,
		ServiceIDs:     append([]int64(nil), req.ServiceIDs...),
		TotalPrice:     v.totalPrice,
		Status:         domain.StatusPending,
		Version:        1,
		IdempotencyKey: req.IdempotencyKey,
	}
}

// commit вставка бронирования и события booking.created одной транзакцией
func (uc *UseCase) commit(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	var created *domain.Booking
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return err
		}

		event, err := domain.NewBookingCreatedEvent(b, uc.timeProvider.Now())
		if err != nil {
			return err
		}
		if err := uc.outboxRepo.Add(txCtx, event); err != nil {
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *UseCase) record(outcome string) {
	if uc.metrics != nil {
		uc.metrics.RecordBookingCommit(outcome)
	}
}

func staffLabel(staffID *int64) string {
	if staffID == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *staffID)
}
