package update_policy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/policy"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/policy/models"
)

const (
	msgInvalidTenantID    = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgTenantNotFound     = "салон не найден"
	msgInvalidData        = "некорректные данные политики"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/tenants/{tenantId}/policy
// Обновляются только переданные поля
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := strconv.ParseInt(mux.Vars(r)["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /tenants/{id}/policy - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req models.UpdatePolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /tenants/{id}/policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), tenantID, &req)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrTenantNotFound):
			h.logger.Warn("PUT /tenants/{id}/policy - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, policy.ErrInvalidInput):
			h.logger.Warn("PUT /tenants/{id}/policy - Invalid data: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /tenants/{id}/policy - Failed to update policy: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /tenants/{id}/policy - Policy updated successfully: tenant_id=%d, slot_minutes=%d",
		tenantID, result.SlotMinutes)
	handlers.RespondJSON(w, http.StatusOK, result)
}
