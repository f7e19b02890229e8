package get_client_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonScheduler/internal/testutil"
	"github.com/m04kA/SMC-SalonScheduler/pkg/ptr"
)

type serviceFunc func(ctx context.Context, req *models.GetTenantBookingsRequest) (*models.BookingListResponse, error)

func (f serviceFunc) GetTenantBookings(ctx context.Context, req *models.GetTenantBookingsRequest) (*models.BookingListResponse, error) {
	return f(ctx, req)
}

func get(svc BookingService, target string, userID *int64) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/clients/{clientId}/bookings", NewHandler(svc, &testutil.Logger{}).Handle)

	r := httptest.NewRequest(http.MethodGet, target, nil)
	r = r.WithContext(middleware.WithIdentity(r.Context(), 1, userID))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestHandler(t *testing.T) {
	var got *models.GetTenantBookingsRequest
	svc := serviceFunc(func(_ context.Context, req *models.GetTenantBookingsRequest) (*models.BookingListResponse, error) {
		got = req
		if req.Status != nil && *req.Status == "bogus" {
			return nil, bookings.ErrInvalidInput
		}
		return &models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil
	})

	rec := get(svc, "/clients/42/bookings?status=confirmed&includeInactive=true", ptr.Ptr(int64(42)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
	assert.Equal(t, int64(1), got.TenantID)
	assert.Equal(t, int64(42), *got.ClientID)
	assert.Equal(t, "confirmed", *got.Status)
	assert.True(t, got.IncludeInactive)

	assert.Equal(t, http.StatusOK, get(svc, "/clients/42/bookings", nil).Code)
	assert.Equal(t, http.StatusForbidden, get(svc, "/clients/42/bookings", ptr.Ptr(int64(7))).Code)
	assert.Equal(t, http.StatusBadRequest, get(svc, "/clients/abc/bookings", nil).Code)
	assert.Equal(t, http.StatusBadRequest, get(svc, "/clients/42/bookings?includeInactive=maybe", nil).Code)
	assert.Equal(t, http.StatusBadRequest, get(svc, "/clients/42/bookings?status=bogus", nil).Code)
}
