package transition_status

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
	transitionStatus "github.com/m04kA/SMC-SalonScheduler/internal/usecase/transition_status"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenant      = "отсутствует ID салона"
	msgNotFound           = "бронирование не найдено"
	msgInvalidTransition  = "переход в указанный статус запрещён"
	msgConcurrentUpdate   = "бронирование было изменено, обновите данные и повторите"
	msgInvalidParams      = "некорректные параметры смены статуса"
)

type Handler struct {
	useCase TransitionStatusUseCase
	logger  Logger
}

func NewHandler(useCase TransitionStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	var req TransitionStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(tenantID, bookingID))
	if err != nil {
		switch {
		case errors.Is(err, transitionStatus.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/status - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, transitionStatus.ErrInvalidTransition):
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, transitionStatus.ErrConcurrentUpdate):
			h.logger.Warn("PATCH /bookings/{id}/status - Concurrent update: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		case errors.Is(err, transitionStatus.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("PATCH /bookings/{id}/status - Failed to change status: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Status changed: booking_id=%s, %s -> %s",
		bookingID, result.PreviousStatus, result.Booking.Status)
	handlers.RespondJSON(w, http.StatusOK, models.FromStatusChange(result.Booking, result.PreviousStatus, result.Fee))
}
