package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStart         = "некорректное время начала, ожидается RFC3339"
	msgMissingTenant        = "отсутствует ID салона"
	msgMissingClient        = "отсутствует ID клиента"
	msgForeignClient        = "нельзя создать бронирование для другого клиента"
	msgMissingKey           = "отсутствует заголовок Idempotency-Key"
	msgSlotNotAvailable     = "выбранное время уже занято, обновите доступность"
	msgKeyReused            = "ключ идемпотентности уже использован для другого бронирования"
	msgTenantNotFound       = "салон не найден"
	msgServiceNotFound      = "услуга не найдена"
	msgStaffNotFound        = "мастер не найден"
	msgStaffNotQualified    = "мастер не оказывает выбранные услуги"
	msgTenantClosed         = "салон закрыт в выбранную дату"
	msgDateInPast           = "время бронирования в прошлом"
	msgDateTooFar           = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeSlot      = "время не совпадает с сеткой салона или выходит за рабочие часы"
	msgInvalidRequestParams = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Повтор с тем же Idempotency-Key возвращает исходное бронирование со статусом 200
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	key := r.Header.Get(HeaderIdempotencyKey)
	if key == "" {
		h.logger.Warn("POST /bookings - Missing idempotency key: tenant_id=%d", tenantID)
		handlers.RespondBadRequest(w, msgMissingKey)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Пользователь из шлюза бронирует только для себя; clientId в теле нужен инструментам салона
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		if req.ClientID != 0 && req.ClientID != userID {
			h.logger.Warn("POST /bookings - User %d tried to book for client %d: tenant_id=%d", userID, req.ClientID, tenantID)
			handlers.RespondForbidden(w, msgForeignClient)
			return
		}
		req.ClientID = userID
	}
	if req.ClientID == 0 {
		h.logger.Warn("POST /bookings - Missing client ID: tenant_id=%d", tenantID)
		handlers.RespondBadRequest(w, msgMissingClient)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(tenantID, key)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid scheduled start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: tenant_id=%d, client_id=%d, start=%s",
				tenantID, req.ClientID, req.ScheduledStart)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrIdempotencyKeyReused):
			h.logger.Warn("POST /bookings - Idempotency key reused: tenant_id=%d, key=%s", tenantID, key)
			handlers.RespondUnprocessable(w, msgKeyReused)

		case errors.Is(err, createBooking.ErrTenantNotFound):
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createBooking.ErrStaffNotQualified):
			handlers.RespondUnprocessable(w, msgStaffNotQualified)

		case errors.Is(err, createBooking.ErrTenantClosed):
			handlers.RespondUnprocessable(w, msgTenantClosed)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			handlers.RespondUnprocessable(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrDateInPast):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestParams)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: tenant_id=%d, client_id=%d, error=%v",
				tenantID, req.ClientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := models.FromDomainBooking(result.Booking)

	if result.Replayed {
		h.logger.Info("POST /bookings - Idempotent replay: booking_id=%s, tenant_id=%d", response.ID, tenantID)
		handlers.RespondJSON(w, http.StatusOK, response)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, tenant_id=%d, client_id=%d",
		response.ID, tenantID, req.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
