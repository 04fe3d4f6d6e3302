package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/prometheus"
)

type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *captureLogger) record(level, msg string, fields []logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: m})
}

func (l *captureLogger) Debug(msg string, fields ...logging.Field) { l.record("debug", msg, fields) }
func (l *captureLogger) Info(msg string, fields ...logging.Field)  { l.record("info", msg, fields) }
func (l *captureLogger) Warn(msg string, fields ...logging.Field)  { l.record("warn", msg, fields) }
func (l *captureLogger) Error(msg string, fields ...logging.Field) { l.record("error", msg, fields) }
func (l *captureLogger) Fatal(msg string, fields ...logging.Field) { l.record("fatal", msg, fields) }

func (l *captureLogger) With(...logging.Field) logging.Logger { return l }
func (l *captureLogger) Named(string) logging.Logger          { return l }

func (l *captureLogger) last(t *testing.T) logEntry {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	require.NotEmpty(t, l.entries)
	return l.entries[len(l.entries)-1]
}

func (l *captureLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func serve(handler http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRequestLogging_LevelsByStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success logs info", http.StatusOK, "info"},
		{"client error logs warn", http.StatusBadRequest, "warn"},
		{"server error logs error", http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &captureLogger{}
			handler := RequestLogging(log, DefaultLoggingConfig())(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte("body"))
				}))

			serve(handler, "GET", "/api/v1/documents")

			entry := log.last(t)
			assert.Equal(t, tt.wantLevel, entry.level)
			assert.Equal(t, "GET", entry.fields["method"])
			assert.Equal(t, "/api/v1/documents", entry.fields["path"])
			assert.Equal(t, tt.status, entry.fields["status"])
			assert.Equal(t, int64(4), entry.fields["bytes"])
		})
	}
}

func TestRequestLogging_SkipsConfiguredPaths(t *testing.T) {
	log := &captureLogger{}
	handler := RequestLogging(log, DefaultLoggingConfig())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	serve(handler, "GET", "/healthz")
	serve(handler, "GET", "/metrics")
	assert.Equal(t, 0, log.count())

	serve(handler, "GET", "/api/v1/documents")
	assert.Equal(t, 1, log.count())
}

func TestRequestLogging_SlowRequestWarns(t *testing.T) {
	log := &captureLogger{}
	cfg := LoggingConfig{SlowThreshold: time.Nanosecond}
	handler := RequestLogging(log, cfg)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))

	serve(handler, "GET", "/slow")
	assert.Equal(t, "warn", log.last(t).level)
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	handler := CORS(DefaultCORSConfig())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("preflight must not reach the handler")
		}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/documents", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORS_AllowListedOrigin(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://app.example.com"}
	handler := CORS(cfg)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics_RecordsRequests(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector("lexcompare_test", nil)
	require.NoError(t, err)
	m := prometheus.NewAppMetrics(collector)

	handler := Metrics(m)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

	serve(handler, "POST", "/api/v1/documents")

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `lexcompare_test_http_requests_total{method="POST",path="/api/v1/documents",status_code="201"} 1`)
	assert.Contains(t, body, `lexcompare_test_http_request_duration_seconds_count{method="POST",path="/api/v1/documents"} 1`)
}
