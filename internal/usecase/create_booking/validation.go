package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.ScheduledStart.IsZero() {
		return fmt.Errorf("%w: scheduledStart is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per visit", ErrInvalidInput, domain.MaxServicesPerBooking)
	}
	seen := make(map[int64]struct{}, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceIds must be positive", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate service id=%d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	// Ключ нормализуется один раз: дальше он хранится и ищется в таком виде
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	key := req.IdempotencyKey
	if key == "" {
		return fmt.Errorf("%w: idempotency key is required", ErrInvalidInput)
	}
	if len(key) > domain.MaxIdempotencyKeyLength {
		return fmt.Errorf("%w: idempotency key must be at most %d characters", ErrInvalidInput, domain.MaxIdempotencyKeyLength)
	}

	return nil
}

// validateStart начало визита не в прошлом и день в пределах горизонта бронирования
func validateStart(start, now time.Time, policy *domain.TenantPolicy) error {
	if start.Before(now) {
		return ErrDateInPast
	}

	if !policy.HasAdvanceBookingLimit() {
		return nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	local := start.In(now.Location())
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, now.Location())
	if day.After(today.AddDate(0, 0, policy.AdvanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.AdvanceBookingDays)
	}

	return nil
}

// sameVisit проверяет, что повтор по ключу описывает тот же визит.
// Мастер сравнивается, только если запрос его называет: при "любом мастере" его выбрал сервис.
func sameVisit(existing *domain.Booking, req *Request) bool {
	if existing.ClientID != req.ClientID || !existing.ScheduledStart.Equal(req.ScheduledStart) {
		return false
	}
	if req.StaffID != nil && (existing.StaffID == nil || *existing.StaffID != *req.StaffID) {
		return false
	}
	return sameServices(existing.ServiceIDs, req.ServiceIDs)
}

// sameServices совпадение наборов услуг без учёта порядка
func sameServices(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int64]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}
