package get_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// validateRequest валидирует входные данные запроса до любых обращений к внешним сервисам
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per visit", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceIds must be positive", ErrInvalidInput)
		}
	}

	if len(req.ServiceIDs) == 0 && req.TotalDurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет дату в часовом поясе салона: не в прошлом и в пределах горизонта
func validateDate(day time.Time, now time.Time, policy *domain.TenantPolicy) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, day.Location())
	if day.Before(today) {
		return ErrDateInPast
	}

	if !policy.HasAdvanceBookingLimit() {
		return nil
	}

	maxDate := today.AddDate(0, 0, policy.AdvanceBookingDays)
	if day.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.AdvanceBookingDays)
	}

	return nil
}
