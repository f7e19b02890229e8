package get_policy

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
)

const (
	msgInvalidTenantID = "некорректный ID салона"
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

// Handle GET /api/v1/tenants/{tenantId}/policy
// Если салон не настраивал политику, возвращаются значения по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := strconv.ParseInt(mux.Vars(r)["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/policy - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	result, err := h.service.Get(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("GET /tenants/{id}/policy - Failed to get policy: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
