package update_policy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/service/policy"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/policy/models"
	"github.com/m04kA/SMC-SalonScheduler/internal/testutil"
)

func put(t *testing.T, router *mux.Router, target, payload string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, target, strings.NewReader(payload)))
	return rec
}

func TestHandler(t *testing.T) {
	store := testutil.NewStore()
	svc := policy.NewService(store, testutil.NewSalon(1, "UTC"), &testutil.Logger{})

	router := mux.NewRouter()
	router.HandleFunc("/tenants/{tenantId}/policy", NewHandler(svc, &testutil.Logger{}).Handle)

	rec := put(t, router, "/tenants/1/policy", `{"slotMinutes":30,"cancellationFee":25}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.PolicyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 30, resp.SlotMinutes)
	assert.Equal(t, 25.0, resp.CancellationFee)
	assert.False(t, resp.IsDefault)

	assert.Equal(t, http.StatusBadRequest, put(t, router, "/tenants/x/policy", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, put(t, router, "/tenants/1/policy", `{"slot":30}`).Code)
	assert.Equal(t, http.StatusBadRequest, put(t, router, "/tenants/1/policy", `{"slotMinutes":7}`).Code)
	assert.Equal(t, http.StatusNotFound, put(t, router, "/tenants/99/policy", `{"slotMinutes":30}`).Code)
}
