package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
)

const checkTimeout = 2 * time.Second

// Check именованная проверка зависимости для /readyz
type Check struct {
	Name  string
	Check func(ctx context.Context) error
}

// Status ответ /healthz и /readyz
type Status struct {
	Status   string            `json:"status"`
	Failures map[string]string `json:"failures,omitempty"`
}

type Handler struct {
	checks []Check
}

func NewHandler(checks ...Check) *Handler {
	return &Handler{checks: checks}
}

// Live GET /healthz, процесс жив
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Status{Status: "ok"})
}

// Ready GET /readyz, все зависимости (БД, Redis, Kafka) доступны
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	failures := make(map[string]string)
	for _, c := range h.checks {
		if c.Check == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := c.Check(ctx)
		cancel()
		if err != nil {
			name := c.Name
			if name == "" {
				name = "dependency"
			}
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		handlers.RespondJSON(w, http.StatusServiceUnavailable, Status{Status: "unavailable", Failures: failures})
		return
	}
	handlers.RespondJSON(w, http.StatusOK, Status{Status: "ok"})
}
