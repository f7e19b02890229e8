package transition_status

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	transitionStatus "github.com/m04kA/SMC-SalonScheduler/internal/usecase/transition_status"
)

// TransitionStatusRequest HTTP request model
type TransitionStatusRequest struct {
	Status          string  `json:"status"`
	Reason          *string `json:"reason,omitempty"`
	ExpectedVersion *int    `json:"expectedVersion,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TransitionStatusRequest) ToUseCaseRequest(tenantID int64, bookingID uuid.UUID) *transitionStatus.Request {
	return &transitionStatus.Request{
		TenantID:        tenantID,
		BookingID:       bookingID,
		Status:          domain.BookingStatus(r.Status),
		Reason:          r.Reason,
		ExpectedVersion: r.ExpectedVersion,
	}
}
