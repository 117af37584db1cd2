package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// captureLog routes the default logger into a buffer of JSON lines for the
// duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// lastEntry decodes the final log line in buf.
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestLoggerLevelByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		write  bool
		level  string
	}{
		{"implicit ok", 0, true, "INFO"},
		{"created", http.StatusCreated, false, "INFO"},
		{"client error stays info", http.StatusUnprocessableEntity, false, "INFO"},
		{"internal error", http.StatusInternalServerError, false, "ERROR"},
		{"unavailable", http.StatusServiceUnavailable, false, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				if tt.write {
					w.Write([]byte("ok"))
				}
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/listings", nil))

			entry := lastEntry(t, buf)
			if entry["level"] != tt.level {
				t.Errorf("level: got %v, want %s", entry["level"], tt.level)
			}
			want := tt.status
			if want == 0 {
				want = http.StatusOK
			}
			if got, _ := entry["status"].(float64); int(got) != want {
				t.Errorf("logged status: got %v, want %d", entry["status"], want)
			}
			if rec.Code != want {
				t.Errorf("response status: got %d, want %d", rec.Code, want)
			}
			if entry["method"] != http.MethodPost || entry["path"] != "/listings" {
				t.Errorf("method/path: got %v %v", entry["method"], entry["path"])
			}
		})
	}
}

func TestLoggerRequestID(t *testing.T) {
	buf := captureLog(t)

	var seen string
	h := chimw.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "req-abc-123" {
		t.Fatalf("handler saw request id %q", seen)
	}
	if got := lastEntry(t, buf)["request_id"]; got != "req-abc-123" {
		t.Errorf("request_id: got %v, want req-abc-123", got)
	}
}

func TestLoggerWithoutRequestID(t *testing.T) {
	buf := captureLog(t)

	Logger(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	entry := lastEntry(t, buf)
	if got, ok := entry["request_id"]; !ok || got != "" {
		t.Errorf("request_id: got %v (present %v), want empty string", got, ok)
	}
	if entry["level"] != "INFO" {
		t.Errorf("level: got %v, want INFO", entry["level"])
	}
}

func TestResponseWriterFirstStatusWins(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError)
	rw.Write([]byte("gone"))

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("statusCode: got %d, want 404", rw.statusCode)
	}
}
