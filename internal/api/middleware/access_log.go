package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += int64(n)
	return n, err
}

func (w *statusRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// HTTPMetrics счётчик и длительность HTTP-запросов
type HTTPMetrics interface {
	RecordHTTPRequest(method, path, status string, seconds float64)
}

// AccessLog пишет по строке на запрос и обновляет HTTP-метрики; metrics может быть nil
func AccessLog(logger *slog.Logger, metrics HTTPMetrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			route := routeTemplate(r)
			if metrics != nil {
				metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(rec.statusCode()), elapsed.Seconds())
			}
			attrs := []any{
				"request_id", GetRequestID(r.Context()),
				"method", r.Method,
				"route", route,
				"path", r.URL.Path,
				"status", rec.statusCode(),
				"bytes", rec.bytes,
				"duration_ms", elapsed.Milliseconds(),
			}
			// otelhttp стоит снаружи роутера, поэтому спан уже в контексте
			if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
				attrs = append(attrs, "trace_id", sc.TraceID().String())
			}
			logger.Info("http request", attrs...)
		})
	}
}

// routeTemplate шаблон маршрута mux, чтобы не раздувать кардинальность метрик
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
