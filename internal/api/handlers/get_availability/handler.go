package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	getAvailability "github.com/m04kA/SMC-SalonScheduler/internal/usecase/get_availability"
)

const (
	msgInvalidTenantID    = "некорректный ID салона"
	msgInvalidStaffID     = "некорректный ID мастера"
	msgInvalidServiceIDs  = "некорректный список услуг, ожидается serviceIds=1,2"
	msgInvalidDuration    = "некорректная длительность"
	msgMissingDuration    = "укажите durationMinutes или serviceIds"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateInPast         = "дата в прошлом"
	msgDateTooFar         = "дата слишком далеко в будущем"
	msgTenantNotFound     = "салон не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotFound      = "мастер не найден"
	msgStaffNotQualified  = "мастер не оказывает выбранные услуги"
	msgInvalidRequestData = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/availability
// Query params: date (required, YYYY-MM-DD), staffId, durationMinutes, serviceIds (1,2,3)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := strconv.ParseInt(mux.Vars(r)["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/availability - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	query := r.URL.Query()
	req := &getAvailability.Request{TenantID: tenantID}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /tenants/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	req.Date, err = time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if raw := query.Get("staffId"); raw != "" {
		staffID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/availability - Invalid staff ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStaffID)
			return
		}
		req.StaffID = &staffID
	}

	if raw := query.Get("serviceIds"); raw != "" {
		req.ServiceIDs, err = parseIDList(raw)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/availability - Invalid service IDs: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceIDs)
			return
		}
	}

	if raw := query.Get("durationMinutes"); raw != "" {
		req.TotalDurationMinutes, err = strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/availability - Invalid duration: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
	} else if len(req.ServiceIDs) == 0 {
		handlers.RespondBadRequest(w, msgMissingDuration)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrTenantNotFound):
			handlers.RespondNotFound(w, msgTenantNotFound)
		case errors.Is(err, getAvailability.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)
		case errors.Is(err, getAvailability.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)
		case errors.Is(err, getAvailability.ErrStaffNotQualified):
			handlers.RespondUnprocessable(w, msgStaffNotQualified)
		case errors.Is(err, getAvailability.ErrDateInPast):
			handlers.RespondBadRequest(w, msgDateInPast)
		case errors.Is(err, getAvailability.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)
		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestData)
		default:
			h.logger.Error("GET /tenants/{id}/availability - Failed to get availability: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// parseIDList "1,2,3" -> []int64{1, 2, 3}
func parseIDList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
