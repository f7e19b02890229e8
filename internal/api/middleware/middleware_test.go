package middleware

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

type recordedRequest struct {
	method, path, status string
}

type fakeMetrics struct {
	requests []recordedRequest
}

func (m *fakeMetrics) RecordHTTPRequest(method, path, status string, _ float64) {
	m.requests = append(m.requests, recordedRequest{method, path, status})
}

func identityRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(Auth)
	echo := func(w http.ResponseWriter, r *http.Request) {
		tenantID, _ := GetTenantID(r.Context())
		userID, _ := GetUserID(r.Context())
		fmt.Fprintf(w, "%d/%d", tenantID, userID)
	}
	r.HandleFunc("/bookings", echo)
	r.HandleFunc("/tenants/{tenantId}/policy", echo)
	return r
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		tenant     string
		user       string
		wantStatus int
		wantBody   string
	}{
		{"tenant and user", "/bookings", "1", "42", http.StatusOK, "1/42"},
		{"tenant only", "/bookings", "1", "", http.StatusOK, "1/0"},
		{"missing tenant", "/bookings", "", "42", http.StatusUnauthorized, ""},
		{"malformed tenant", "/bookings", "abc", "", http.StatusUnauthorized, ""},
		{"malformed user", "/bookings", "1", "-3", http.StatusUnauthorized, ""},
		{"path tenant matches", "/tenants/1/policy", "1", "", http.StatusOK, "1/0"},
		{"path tenant differs", "/tenants/2/policy", "1", "", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.tenant != "" {
				req.Header.Set(HeaderTenantID, tt.tenant)
			}
			if tt.user != "" {
				req.Header.Set(HeaderUserID, tt.user)
			}
			rec := httptest.NewRecorder()

			identityRouter().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRequestIDAndAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	metrics := &fakeMetrics{}

	r := mux.NewRouter()
	r.Use(RequestID, AccessLog(logger, metrics))
	r.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/bookings/abc", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", rec.Header().Get(HeaderRequestID))
	require.Len(t, metrics.requests, 1)
	assert.Equal(t, recordedRequest{"GET", "/bookings/{bookingId}", "404"}, metrics.requests[0])
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"status":404`)
}

func TestAccessLog_TraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})

	handler := AccessLog(logger, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req = req.WithContext(trace.ContextWithSpanContext(req.Context(), sc))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"trace_id":"4bf92f3577b34da6a3ce929d0e0e4736"`)
}

func TestRequestIDIsGenerated(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, GetRequestID(r.Context()))
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestRateLimiter_RedisUnavailable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	limiter := NewRateLimiter(rdb, 10, time.Minute, "test")
	logger := &warnLog{}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	limiter.Middleware(logger, true)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	limiter.Middleware(logger, false)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.Len(t, logger.lines, 2)
	assert.Contains(t, logger.lines[0], "fail_open=true")
	assert.Contains(t, logger.lines[1], "fail_open=false")
}

type warnLog struct {
	lines []string
}

func (l *warnLog) Warn(format string, v ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:5555"
	assert.Equal(t, "10.0.0.5", clientKey(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientKey(req))
}
