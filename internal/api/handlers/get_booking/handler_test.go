package get_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonScheduler/internal/testutil"
	"github.com/m04kA/SMC-SalonScheduler/pkg/ptr"
)

type serviceFunc func(ctx context.Context, tenantID int64, id uuid.UUID, clientID *int64) (*models.BookingResponse, error)

func (f serviceFunc) GetByID(ctx context.Context, tenantID int64, id uuid.UUID, clientID *int64) (*models.BookingResponse, error) {
	return f(ctx, tenantID, id, clientID)
}

func get(svc BookingService, id string, userID *int64) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/bookings/{bookingId}", NewHandler(svc, &testutil.Logger{}).Handle)

	r := httptest.NewRequest(http.MethodGet, "/bookings/"+id, nil)
	r = r.WithContext(middleware.WithIdentity(r.Context(), 1, userID))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestHandler(t *testing.T) {
	id := uuid.New()

	var gotClient *int64
	svc := serviceFunc(func(_ context.Context, tenantID int64, got uuid.UUID, clientID *int64) (*models.BookingResponse, error) {
		gotClient = clientID
		switch {
		case got != id:
			return nil, bookings.ErrBookingNotFound
		case clientID != nil && *clientID != 42:
			return nil, bookings.ErrAccessDenied
		}
		return &models.BookingResponse{ID: got.String(), TenantID: tenantID}, nil
	})

	rec := get(svc, id.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotClient)

	rec = get(svc, id.String(), ptr.Ptr(int64(42)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), *gotClient)

	assert.Equal(t, http.StatusForbidden, get(svc, id.String(), ptr.Ptr(int64(7))).Code)
	assert.Equal(t, http.StatusNotFound, get(svc, uuid.NewString(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, get(svc, "15", nil).Code)

	failing := serviceFunc(func(context.Context, int64, uuid.UUID, *int64) (*models.BookingResponse, error) {
		return nil, bookings.ErrInternal
	})
	assert.Equal(t, http.StatusInternalServerError, get(failing, id.String(), nil).Code)
}
