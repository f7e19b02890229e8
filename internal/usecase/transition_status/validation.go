package transition_status

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.BookingID == uuid.Nil {
		return fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}

	if !req.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	if req.ExpectedVersion != nil && *req.ExpectedVersion <= 0 {
		return fmt.Errorf("%w: version must be positive", ErrInvalidInput)
	}

	return nil
}
