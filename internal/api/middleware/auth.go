package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
)

const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderUserID   = "X-User-ID"
)

const (
	msgMissingTenant  = "отсутствует или некорректен заголовок X-Tenant-ID"
	msgInvalidUser    = "некорректный заголовок X-User-ID"
	msgTenantMismatch = "салон в пути не совпадает с X-Tenant-ID"
)

type ctxKey int

const (
	ctxKeyTenantID ctxKey = iota
	ctxKeyUserID
	ctxKeyRequestID
)

// Auth извлекает салон (обязателен) и пользователя (опционален) из заголовков шлюза.
// Если маршрут содержит {tenantId}, он должен совпадать с X-Tenant-ID.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := strconv.ParseInt(r.Header.Get(HeaderTenantID), 10, 64)
		if err != nil || tenantID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingTenant)
			return
		}

		if pathTenant, ok := mux.Vars(r)["tenantId"]; ok && pathTenant != strconv.FormatInt(tenantID, 10) {
			handlers.RespondForbidden(w, msgTenantMismatch)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyTenantID, tenantID)

		if raw := r.Header.Get(HeaderUserID); raw != "" {
			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				handlers.RespondUnauthorized(w, msgInvalidUser)
				return
			}
			ctx = context.WithValue(ctx, ctxKeyUserID, userID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTenantID салон текущего запроса
func GetTenantID(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(ctxKeyTenantID).(int64)
	return v, ok
}

// GetUserID пользователь текущего запроса
func GetUserID(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(ctxKeyUserID).(int64)
	return v, ok
}

// WithIdentity кладёт салон и пользователя в контекст (для тестов handler'ов)
func WithIdentity(ctx context.Context, tenantID int64, userID *int64) context.Context {
	ctx = context.WithValue(ctx, ctxKeyTenantID, tenantID)
	if userID != nil {
		ctx = context.WithValue(ctx, ctxKeyUserID, *userID)
	}
	return ctx
}
