package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/ghuser/grocerylist/pkg/config"
)

func newTestLogger(buf *bytes.Buffer) Logger {
	return NewWithWriter(buf, "debug")
}

func parseLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("failed to parse log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func parseLastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := parseLines(t, buf)
	if len(lines) == 0 {
		t.Fatal("expected at least one log line")
	}
	return lines[len(lines)-1]
}

func TestInfoContext_TraceFields(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	var buf bytes.Buffer
	log := newTestLogger(&buf)

	ctx, span := tp.Tracer("test").Start(context.Background(), "create-item")
	log.InfoContext(ctx, "with span")
	span.End()
	withSpan := parseLastLine(t, &buf)

	log.InfoContext(context.Background(), "without span")
	withoutSpan := parseLastLine(t, &buf)

	if withSpan["trace_id"] != span.SpanContext().TraceID().String() {
		t.Errorf("trace_id: got %v", withSpan["trace_id"])
	}
	if _, ok := withSpan["span_id"]; !ok {
		t.Error("expected span_id")
	}
	if _, ok := withoutSpan["trace_id"]; ok {
		t.Error("trace_id should not be present without a span")
	}
}

func TestNew_BindsServiceAndEnv(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info").With("service", "grocerylist", "env", config.EnvTesting)
	log.Info("started")

	entry := parseLastLine(t, &buf)
	if entry["service"] != "grocerylist" || entry["env"] != config.EnvTesting {
		t.Fatalf("unexpected bound attributes: %v", entry)
	}
}

func TestMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"ok", http.StatusOK, "INFO"},
		{"created", http.StatusCreated, "INFO"},
		{"not found", http.StatusNotFound, "WARN"},
		{"method not allowed", http.StatusMethodNotAllowed, "WARN"},
		{"internal", http.StatusInternalServerError, "ERROR"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := Middleware(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{}`))
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items", http.NoBody))

			entry := parseLastLine(t, &buf)
			if entry["level"] != tc.wantLevel {
				t.Errorf("level: got %v, want %s", entry["level"], tc.wantLevel)
			}
			if entry["status"] != float64(tc.status) {
				t.Errorf("status: got %v, want %d", entry["status"], tc.status)
			}
			if entry["bytes"] != float64(2) {
				t.Errorf("bytes: got %v, want 2", entry["bytes"])
			}
		})
	}
}

func TestMiddleware_SkipsHealthyProbes(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(Middleware(newTestLogger(&buf)))
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if buf.Len() != 0 {
		t.Fatalf("expected no request logs for probes, got %s", buf.String())
	}

	r2 := chi.NewRouter()
	r2.Use(Middleware(newTestLogger(&buf)))
	r2.Get("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) })
	r2.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if entry := parseLastLine(t, &buf); entry["path"] != "/health" {
		t.Fatalf("expected failing probe to be logged, got %v", entry)
	}
}

func TestMiddleware_RequestIDAndTrace(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	var buf bytes.Buffer
	log := newTestLogger(&buf)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Middleware(log))
	r.Get("/items", func(w http.ResponseWriter, req *http.Request) {
		ctx, span := otel.Tracer("test").Start(req.Context(), "list-items")
		defer span.End()
		log.InfoContext(ctx, "listing")
		w.WriteHeader(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items", http.NoBody))

	lines := parseLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected handler and request lines, got %d", len(lines))
	}
	handlerLine, requestLine := lines[0], lines[1]
	if _, ok := handlerLine["trace_id"]; !ok {
		t.Error("expected trace_id in handler log")
	}
	if requestLine["request_id"] == nil || requestLine["request_id"] != handlerLine["request_id"] {
		t.Errorf("request_id mismatch: %v vs %v", requestLine["request_id"], handlerLine["request_id"])
	}
	if requestLine["method"] != http.MethodGet {
		t.Errorf("expected method GET, got %v", requestLine["method"])
	}
}

func TestRecovery_WritesJSON500(t *testing.T) {
	var buf bytes.Buffer
	h := Recovery(newTestLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil map write")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Internal server error" {
		t.Errorf("unexpected body: %v", body)
	}
	entry := parseLastLine(t, &buf)
	if entry["msg"] != "panic recovered" || entry["stack"] == nil || entry["path"] != "/items" {
		t.Errorf("unexpected log entry: %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug": "DEBUG",
		"WARN":  "WARN",
		"error": "ERROR",
		"":      "INFO",
		"loud":  "INFO",
	}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %s", buf.String())
	}
	log.Warn("kept")
	if entry := parseLastLine(t, &buf); entry["msg"] != "kept" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}
