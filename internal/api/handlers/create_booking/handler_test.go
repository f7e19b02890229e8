package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonScheduler/internal/testutil"
	createBooking "github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonScheduler/pkg/ptr"
)

type useCaseFunc func(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)

func (f useCaseFunc) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	return f(ctx, req)
}

const body = `{"staffId":2,"scheduledStart":"2026-05-18T14:00:00+02:00","serviceIds":[10,11]}`

func booking(req *createBooking.Request) *domain.Booking {
	return &domain.Booking{
		ID:             uuid.New(),
		TenantID:       req.TenantID,
		ClientID:       req.ClientID,
		StaffID:        req.StaffID,
		ScheduledStart: req.ScheduledStart.UTC(),
		SlotCount:      2,
		SlotMinutes:    60,
		ServiceIDs:     req.ServiceIDs,
		Status:         domain.StatusPending,
		Version:        1,
		IdempotencyKey: req.IdempotencyKey,
	}
}

func post(uc CreateBookingUseCase, payload, key string, userID *int64) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(payload))
	if key != "" {
		r.Header.Set(HeaderIdempotencyKey, key)
	}
	r = r.WithContext(middleware.WithIdentity(r.Context(), 1, userID))

	rec := httptest.NewRecorder()
	NewHandler(uc, &testutil.Logger{}).Handle(rec, r)
	return rec
}

func TestHandler_Created(t *testing.T) {
	var got *createBooking.Request
	uc := useCaseFunc(func(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
		got = req
		return &createBooking.Response{Booking: booking(req)}, nil
	})

	rec := post(uc, body, "visit-1", ptr.Ptr(int64(42)))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.TenantID)
	assert.Equal(t, int64(42), got.ClientID)
	assert.Equal(t, "visit-1", got.IdempotencyKey)
	assert.Equal(t, []int64{10, 11}, got.ServiceIDs)
	assert.True(t, got.ScheduledStart.Equal(time.Date(2026, 5, 18, 12, 0, 0, 0, time.UTC)))

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 1, resp.Version)
	assert.Equal(t, 120, resp.DurationMinutes)
}

func TestHandler_ReplayReturnsOK(t *testing.T) {
	uc := useCaseFunc(func(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
		return &createBooking.Response{Booking: booking(req), Replayed: true}, nil
	})

	rec := post(uc, `{"clientId":7,"scheduledStart":"2026-05-18T12:00:00Z","serviceIds":[10]}`, "visit-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_ClientComesFromUserHeader(t *testing.T) {
	var got *createBooking.Request
	uc := useCaseFunc(func(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
		got = req
		return &createBooking.Response{Booking: booking(req)}, nil
	})

	rec := post(uc, `{"clientId":42,"scheduledStart":"2026-05-18T12:00:00Z","serviceIds":[10]}`, "visit-1", ptr.Ptr(int64(42)))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(42), got.ClientID)

	got = nil
	rec = post(uc, `{"clientId":7,"scheduledStart":"2026-05-18T12:00:00Z","serviceIds":[10]}`, "visit-2", ptr.Ptr(int64(42)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, got)
}

func TestHandler_BadRequests(t *testing.T) {
	called := false
	uc := useCaseFunc(func(context.Context, *createBooking.Request) (*createBooking.Response, error) {
		called = true
		return nil, nil
	})

	tests := []struct {
		name    string
		payload string
		key     string
		userID  *int64
	}{
		{"missing idempotency key", body, "", ptr.Ptr(int64(42))},
		{"malformed json", `{"scheduledStart":`, "k", ptr.Ptr(int64(42))},
		{"unknown field", `{"userId":1,"scheduledStart":"2026-05-18T12:00:00Z","serviceIds":[10]}`, "k", ptr.Ptr(int64(42))},
		{"no client", body, "k", nil},
		{"start without offset", `{"scheduledStart":"2026-05-18 12:00","serviceIds":[10]}`, "k", ptr.Ptr(int64(42))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(uc, tt.payload, tt.key, tt.userID)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.False(t, called)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{createBooking.ErrSlotNotAvailable, http.StatusConflict},
		{createBooking.ErrIdempotencyKeyReused, http.StatusUnprocessableEntity},
		{createBooking.ErrTenantNotFound, http.StatusNotFound},
		{createBooking.ErrServiceNotFound, http.StatusNotFound},
		{createBooking.ErrStaffNotFound, http.StatusNotFound},
		{createBooking.ErrStaffNotQualified, http.StatusUnprocessableEntity},
		{createBooking.ErrTenantClosed, http.StatusUnprocessableEntity},
		{createBooking.ErrInvalidTimeSlot, http.StatusUnprocessableEntity},
		{createBooking.ErrDateInPast, http.StatusBadRequest},
		{createBooking.ErrDateTooFarInFuture, http.StatusBadRequest},
		{createBooking.ErrInvalidInput, http.StatusBadRequest},
		{createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := useCaseFunc(func(context.Context, *createBooking.Request) (*createBooking.Response, error) {
				return nil, tt.err
			})
			rec := post(uc, body, "k", ptr.Ptr(int64(42)))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
