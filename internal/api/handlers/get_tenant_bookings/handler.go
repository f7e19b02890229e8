package get_tenant_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings"
)

const (
	msgInvalidTenantID = "некорректный ID салона"
	msgInvalidParams   = "некорректные параметры запроса"
	msgTenantNotFound  = "салон не найден"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/bookings
// Query params: date, staffId, clientId, status, includeInactive, limit (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := strconv.ParseInt(mux.Vars(r)["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/bookings - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	serviceReq, err := ToServiceRequest(tenantID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetTenantBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, bookings.ErrTenantNotFound):
			handlers.RespondNotFound(w, msgTenantNotFound)

		default:
			h.logger.Error("GET /tenants/{id}/bookings - Failed to get bookings: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/bookings - Bookings retrieved successfully: tenant_id=%d, count=%d",
		tenantID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
