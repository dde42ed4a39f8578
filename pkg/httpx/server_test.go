package httpx_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ghuser/grocerylist/pkg/httpx"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func newRouter(cfg httpx.ServerConfig) http.Handler {
	r := httpx.NewRouter(cfg)
	r.Get("/items", okHandler)
	r.Post("/items", func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	return r
}

func TestNewRouter_SecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter(httpx.ServerConfig{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items", http.NoBody))

	checks := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'self'",
	}
	for header, expected := range checks {
		if got := rr.Header().Get(header); got != expected {
			t.Errorf("%s: got %q, want %q", header, got, expected)
		}
	}
}

func TestNewRouter_UnknownPathIsJSON404(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter(httpx.ServerConfig{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/groceries", http.NoBody))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != httpx.MsgNotFound {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestNewRouter_RateLimit(t *testing.T) {
	h := newRouter(httpx.ServerConfig{RequestsPerMinute: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/items", http.NoBody)
		req.RemoteAddr = "203.0.113.7:4000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
		if i == 2 && !strings.Contains(rr.Body.String(), httpx.MsgTooManyRequests) {
			t.Errorf("expected JSON rate-limit body, got %q", rr.Body.String())
		}
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestNewRouter_BodyLimit(t *testing.T) {
	h := newRouter(httpx.ServerConfig{MaxBodyBytes: 16})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"within limit", `{"name":"Milk"}`, http.StatusCreated},
		{"over limit", `{"name":"` + strings.Repeat("a", 32) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rr.Code)
			}
		})
	}
}

func TestCORSMiddleware_AllowsPatch(t *testing.T) {
	h := httpx.CORSMiddleware("https://shop.example.com, http://localhost:3000")(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodOptions, "/items/1", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("Access-Control-Allow-Origin: got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPatch) {
		t.Fatalf("Access-Control-Allow-Methods: got %q, want PATCH", got)
	}
}

func TestNewServer_Timeouts(t *testing.T) {
	srv := httpx.NewServer(":0", http.NotFoundHandler())
	if srv.ReadHeaderTimeout == 0 || srv.ReadTimeout == 0 || srv.IdleTimeout == 0 {
		t.Fatalf("expected timeouts to be set: %+v", srv)
	}
	if srv.WriteTimeout <= httpx.DefaultHandlerTimeout {
		t.Fatalf("write timeout %v must exceed handler timeout %v", srv.WriteTimeout, httpx.DefaultHandlerTimeout)
	}
}
