package cancel_booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonScheduler/internal/testutil"
	transitionStatus "github.com/m04kA/SMC-SalonScheduler/internal/usecase/transition_status"
	"github.com/m04kA/SMC-SalonScheduler/pkg/ptr"
)

// Полный путь через настоящий use case и хранилище в памяти
type fixture struct {
	store  *testutil.Store
	clock  *testutil.Clock
	router *mux.Router
}

var start = time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	policy := domain.NewDefaultTenantPolicy(1)
	policy.CancellationFee = 25
	store.SetPolicy(policy)

	clock := testutil.NewClock(start.Add(-30 * time.Hour))
	uc := transitionStatus.NewUseCase(store, store, store, &testutil.TxManager{Store: store}, nil, &testutil.Logger{}).
		WithTimeProvider(clock)

	router := mux.NewRouter()
	router.HandleFunc("/bookings/{bookingId}/cancel", NewHandler(uc, &testutil.Logger{}).Handle)
	return &fixture{store: store, clock: clock, router: router}
}

func (f *fixture) seed() *domain.Booking {
	b := &domain.Booking{
		ID:             uuid.New(),
		TenantID:       1,
		ClientID:       42,
		StaffID:        ptr.Ptr(int64(1)),
		ScheduledStart: start,
		SlotCount:      1,
		SlotMinutes:    60,
		ServiceIDs:     []int64{10},
		Status:         domain.StatusConfirmed,
		Version:        1,
		IdempotencyKey: "seed",
	}
	f.store.Put(b)
	return b
}

func (f *fixture) cancel(id, payload string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPatch, "/bookings/"+id+"/cancel", strings.NewReader(payload))
	r = r.WithContext(middleware.WithIdentity(r.Context(), 1, nil))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)
	return rec
}

func TestHandler_LateCancellationReturnsFee(t *testing.T) {
	f := newFixture(t)
	b := f.seed()

	rec := f.cancel(b.ID.String(), `{"cancellationReason":"sick"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.StatusChangeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "confirmed", resp.PreviousStatus)
	assert.Equal(t, "cancelled", resp.Booking.Status)
	assert.Equal(t, "sick", *resp.Booking.CancellationReason)
	require.NotNil(t, resp.Fee)
	assert.Equal(t, 25.0, resp.Fee.Amount)
	assert.Equal(t, "late_cancellation", resp.Fee.Reason)
}

func TestHandler_EarlyCancellationWithoutBody(t *testing.T) {
	f := newFixture(t)
	b := f.seed()
	f.clock.Set(start.Add(-72 * time.Hour))

	rec := f.cancel(b.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.StatusChangeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Fee)
	assert.Equal(t, 2, resp.Booking.Version)
}

func TestHandler_Errors(t *testing.T) {
	f := newFixture(t)
	b := f.seed()

	assert.Equal(t, http.StatusBadRequest, f.cancel("7", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.cancel(b.ID.String(), `{"reason":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, f.cancel("00000000-0000-0000-0000-0000000000ff", "").Code)
	assert.Equal(t, http.StatusConflict, f.cancel(b.ID.String(), `{"expectedVersion":5}`).Code)

	require.Equal(t, http.StatusOK, f.cancel(b.ID.String(), "").Code)
	assert.Equal(t, http.StatusConflict, f.cancel(b.ID.String(), "").Code, "cancelled is terminal")
}
