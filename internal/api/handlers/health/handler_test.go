package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLive(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler().Live(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReady(t *testing.T) {
	ok := Check{Name: "postgres", Check: func(context.Context) error { return nil }}
	down := Check{Name: "kafka", Check: func(context.Context) error { return errors.New("dial tcp: refused") }}

	rec := httptest.NewRecorder()
	NewHandler(ok, Check{Name: "skipped"}).Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHandler(ok, down).Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, map[string]string{"kafka": "dial tcp: refused"}, status.Failures)
}
