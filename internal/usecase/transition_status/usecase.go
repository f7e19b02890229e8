package transition_status

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
)

var tracer = otel.Tracer("github.com/m04kA/SMC-SalonScheduler/internal/usecase/transition_status")

// UseCase единственный путь смены статуса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	outboxRepo   OutboxRepository
	policyRepo   PolicyRepository
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case; metrics может быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	outboxRepo OutboxRepository,
	policyRepo PolicyRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		outboxRepo:   outboxRepo,
		policyRepo:   policyRepo,
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

// Execute переводит бронирование в новый статус с оптимистичной блокировкой по версии.
// Штраф по политике салона сохраняется в бронировании и передаётся в событии booking.status_changed.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("TransitionStatus: tenant=%d, booking=%s, to=%s", req.TenantID, req.BookingID, req.Status)

	ctx, span := tracer.Start(ctx, "TransitionStatus")
	span.SetAttributes(
		attribute.Int64("tenant.id", req.TenantID),
		attribute.String("booking.id", req.BookingID.String()),
		attribute.String("booking.status.to", string(req.Status)),
	)
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionStatus: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.TenantID, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("TransitionStatus: booking id=%s not found in tenant=%d", req.BookingID, req.TenantID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("TransitionStatus: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if req.ExpectedVersion != nil && *req.ExpectedVersion != booking.Version {
		uc.logger.Warn("TransitionStatus: booking id=%s stale version %d, current %d",
			booking.ID, *req.ExpectedVersion, booking.Version)
		return nil, ErrConcurrentUpdate
	}

	// 3. Проверяем переход
	previous := booking.Status
	if err := domain.ValidateTransition(previous, req.Status); err != nil {
		uc.logger.Error("TransitionStatus: booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, previous, req.Status)
	}

	// 4. Политика салона и штраф
	policy, err := uc.policyRepo.GetByTenant(ctx, req.TenantID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			uc.logger.Error("TransitionStatus: failed to get policy for tenant=%d: %v", req.TenantID, err)
			return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
		}
		policy = domain.NewDefaultTenantPolicy(req.TenantID)
	}

	now := uc.timeProvider.Now()
	fee := policy.Cancellation().TransitionFee(booking, req.Status, now)

	// 5. Применяем изменения
	booking.Status = req.Status
	if fee != nil {
		reason := string(fee.Reason)
		booking.FeeAmount = &fee.Amount
		booking.FeeCurrency = &fee.Currency
		booking.FeeReason = &reason
	}
	if req.Status == domain.StatusCancelled {
		booking.CancelledAt = &now
		booking.CancellationReason = req.Reason
	}

	// 6. Обновление и событие одной транзакцией
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.UpdateStatus(txCtx, booking); err != nil {
			return err
		}

		event, err := domain.NewStatusChangedEvent(booking, previous, fee, now)
		if err != nil {
			return err
		}
		return uc.outboxRepo.Add(txCtx, event)
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			uc.logger.Warn("TransitionStatus: booking id=%s was modified concurrently", booking.ID)
			return nil, ErrConcurrentUpdate
		}
		uc.logger.Error("TransitionStatus: failed to update booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordStatusTransition(string(previous), string(req.Status))
	}

	if fee != nil {
		uc.logger.Info("TransitionStatus: booking id=%s %s -> %s, fee %.2f %s (%s)",
			booking.ID, previous, booking.Status, fee.Amount, fee.Currency, fee.Reason)
	} else {
		uc.logger.Info("TransitionStatus: booking id=%s %s -> %s, version=%d",
			booking.ID, previous, booking.Status, booking.Version)
	}

	return &Response{Booking: booking, PreviousStatus: previous, Fee: fee}, nil
}
