package transition_status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonScheduler/internal/testutil"
	transitionStatus "github.com/m04kA/SMC-SalonScheduler/internal/usecase/transition_status"
)

type useCaseFunc func(ctx context.Context, req *transitionStatus.Request) (*transitionStatus.Response, error)

func (f useCaseFunc) Execute(ctx context.Context, req *transitionStatus.Request) (*transitionStatus.Response, error) {
	return f(ctx, req)
}

func patch(uc TransitionStatusUseCase, id, payload string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/bookings/{bookingId}/status", NewHandler(uc, &testutil.Logger{}).Handle)

	r := httptest.NewRequest(http.MethodPatch, "/bookings/"+id+"/status", strings.NewReader(payload))
	r = r.WithContext(middleware.WithIdentity(r.Context(), 1, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestHandler_Success(t *testing.T) {
	id := uuid.New()

	var got *transitionStatus.Request
	uc := useCaseFunc(func(_ context.Context, req *transitionStatus.Request) (*transitionStatus.Response, error) {
		got = req
		return &transitionStatus.Response{
			Booking:        &domain.Booking{ID: req.BookingID, TenantID: req.TenantID, Status: req.Status, Version: 3},
			PreviousStatus: domain.StatusConfirmed,
			Fee:            &domain.Fee{Amount: 10, Currency: "EUR", Reason: domain.FeeReasonLateArrival},
		}, nil
	})

	rec := patch(uc, id.String(), `{"status":"no_show","expectedVersion":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(1), got.TenantID)
	assert.Equal(t, id, got.BookingID)
	assert.Equal(t, domain.StatusNoShow, got.Status)
	assert.Equal(t, 2, *got.ExpectedVersion)

	var resp models.StatusChangeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "confirmed", resp.PreviousStatus)
	assert.Equal(t, "no_show", resp.Booking.Status)
	require.NotNil(t, resp.Fee)
	assert.Equal(t, "late_arrival", resp.Fee.Reason)
}

func TestHandler_Errors(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		err  error
		code int
	}{
		{transitionStatus.ErrBookingNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: completed -> confirmed", transitionStatus.ErrInvalidTransition), http.StatusConflict},
		{transitionStatus.ErrConcurrentUpdate, http.StatusConflict},
		{transitionStatus.ErrInvalidInput, http.StatusBadRequest},
		{transitionStatus.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := useCaseFunc(func(context.Context, *transitionStatus.Request) (*transitionStatus.Response, error) {
				return nil, tt.err
			})
			assert.Equal(t, tt.code, patch(uc, id, `{"status":"confirmed"}`).Code)
		})
	}

	unused := useCaseFunc(func(context.Context, *transitionStatus.Request) (*transitionStatus.Response, error) {
		t.Fatal("use case must not be called")
		return nil, nil
	})
	assert.Equal(t, http.StatusBadRequest, patch(unused, "42", `{"status":"confirmed"}`).Code)
	assert.Equal(t, http.StatusBadRequest, patch(unused, id, `{"state":"confirmed"}`).Code)
}
