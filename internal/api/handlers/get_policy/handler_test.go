package get_policy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/policy"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/policy/models"
	"github.com/m04kA/SMC-SalonScheduler/internal/testutil"
)

func TestHandler(t *testing.T) {
	store := testutil.NewStore()
	custom := domain.NewDefaultTenantPolicy(2)
	custom.SlotMinutes = 15
	store.SetPolicy(custom)

	svc := policy.NewService(store, testutil.NewSalon(1, "UTC"), &testutil.Logger{})
	router := mux.NewRouter()
	router.HandleFunc("/tenants/{tenantId}/policy", NewHandler(svc, &testutil.Logger{}).Handle)

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	var resp models.PolicyResponse
	rec := get("/tenants/1/policy")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsDefault)
	assert.Equal(t, domain.DefaultSlotMinutes, resp.SlotMinutes)

	rec = get("/tenants/2/policy")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsDefault)
	assert.Equal(t, 15, resp.SlotMinutes)

	assert.Equal(t, http.StatusBadRequest, get("/tenants/one/policy").Code)
}
