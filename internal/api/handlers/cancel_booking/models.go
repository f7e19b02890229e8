package cancel_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	transitionStatus "github.com/m04kA/SMC-SalonScheduler/internal/usecase/transition_status"
)

// CancelBookingRequest HTTP request model, тело необязательно
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
	ExpectedVersion    *int    `json:"expectedVersion,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в переход в cancelled
func (r *CancelBookingRequest) ToUseCaseRequest(tenantID int64, bookingID uuid.UUID) *transitionStatus.Request {
	return &transitionStatus.Request{
		TenantID:        tenantID,
		BookingID:       bookingID,
		Status:          domain.StatusCancelled,
		Reason:          r.CancellationReason,
		ExpectedVersion: r.ExpectedVersion,
	}
}
