package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_booking"
)

// HeaderIdempotencyKey ключ идемпотентности запроса на бронирование
const HeaderIdempotencyKey = "Idempotency-Key"

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ClientID       int64   `json:"clientId,omitempty"` // Если не указан, берётся из X-User-ID
	StaffID        *int64  `json:"staffId,omitempty"`  // nil = любой мастер
	ScheduledStart string  `json:"scheduledStart"`     // RFC3339, "2026-05-18T12:00:00+02:00"
	ServiceIDs     []int64 `json:"serviceIds"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(tenantID int64, idempotencyKey string) (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.ScheduledStart)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		TenantID:       tenantID,
		ClientID:       r.ClientID,
		StaffID:        r.StaffID,
		ScheduledStart: start,
		ServiceIDs:     r.ServiceIDs,
		IdempotencyKey: idempotencyKey,
	}, nil
}
