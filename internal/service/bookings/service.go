package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/booking"
	salonClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/salonservice"
	"github.com/m04kA/SMC-SalonScheduler/internal/scheduling"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
)

// Service сервис чтения бронирований. Создание и смена статуса идут только через use case'ы.
type Service struct {
	bookingRepo BookingRepository
	salonClient SalonServiceClient
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	salonClient SalonServiceClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		salonClient: salonClient,
		logger:      logger,
	}
}

// GetByID получает бронирование салона по ID.
// clientID != nil ограничивает доступ бронированиями этого клиента.
func (s *Service) GetByID(ctx context.Context, tenantID int64, id uuid.UUID, clientID *int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s in tenant=%d", id, tenantID)

	booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if clientID != nil && booking.ClientID != *clientID {
		s.logger.Warn("GetByID: client=%d has no access to booking id=%s", *clientID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetTenantBookings получает бронирования салона с фильтрацией.
// Дата фильтра трактуется в часовом поясе салона.
//
// Примеры использования:
// - Все активные бронирования: GetTenantBookings(ctx, &GetTenantBookingsRequest{TenantID: 1})
// - Расписание мастера на день: указать Date и StaffID
// - Включая отменённые и no-show: IncludeInactive = true
func (s *Service) GetTenantBookings(ctx context.Context, req *models.GetTenantBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetTenantBookings: fetching bookings for tenant=%d", req.TenantID)
	if req.Date != nil {
		logMsg += fmt.Sprintf(", date=%s", req.Date.Format(domain.DateFormat))
	}
	if req.StaffID != nil {
		logMsg += fmt.Sprintf(", staff=%d", *req.StaffID)
	}
	if req.ClientID != nil {
		logMsg += fmt.Sprintf(", client=%d", *req.ClientID)
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTenantBookings: invalid filter for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Date != nil {
		tenant, err := s.salonClient.GetTenant(ctx, req.TenantID)
		if err != nil {
			if errors.Is(err, salonClient.ErrTenantNotFound) {
				s.logger.Warn("GetTenantBookings: tenant id=%d not found", req.TenantID)
				return nil, ErrTenantNotFound
			}
			s.logger.Error("GetTenantBookings: failed to get tenant id=%d: %v", req.TenantID, err)
			return nil, fmt.Errorf("%w: GetTenantBookings - failed to get tenant: %v", ErrInternal, err)
		}
		loc, err := tenant.Location()
		if err != nil {
			return nil, fmt.Errorf("%w: GetTenantBookings - invalid tenant timezone: %v", ErrInternal, err)
		}
		from, to := scheduling.DayWindow(*req.Date, loc)
		filter.From, filter.To = &from, &to
	}

	bookings, err := s.bookingRepo.ListByTenant(ctx, filter)
	if err != nil {
		s.logger.Error("GetTenantBookings: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: GetTenantBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTenantBookings: successfully fetched %d bookings for tenant=%d", len(bookings), req.TenantID)
	return models.FromDomainBookingList(bookings), nil
}
