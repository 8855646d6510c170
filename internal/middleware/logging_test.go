package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("records method, status and duration", func(t *testing.T) {
		t.Parallel()

		core, logs := observer.New(zap.InfoLevel)
		handler := Logging(zap.New(core))(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/oauth/google/login", nil))

		entries := logs.FilterMessage("http_request").All()
		if len(entries) != 1 {
			t.Fatalf("Expected 1 log entry, got %d", len(entries))
		}

		fields := entries[0].ContextMap()
		if fields["method"] != "GET" {
			t.Errorf("Expected method GET, got %v", fields["method"])
		}
		if fields["path"] != "/api/oauth/google/login" {
			t.Errorf("Expected clean path to pass through, got %v", fields["path"])
		}
		if fields["status_code"] != int64(http.StatusTeapot) {
			t.Errorf("Expected status 418, got %v", fields["status_code"])
		}
	})

	t.Run("sanitizes the logged path", func(t *testing.T) {
		t.Parallel()

		core, logs := observer.New(zap.InfoLevel)
		handler := Logging(zap.New(core))(next)

		req := httptest.NewRequest("GET", "/api/oauth/google/callback", nil)
		req.URL.Path = "/api/oauth/google/callback\x00\x1b[2J" + strings.Repeat("a", 600)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		entries := logs.FilterMessage("http_request").All()
		if len(entries) != 1 {
			t.Fatalf("Expected 1 log entry, got %d", len(entries))
		}

		path, _ := entries[0].ContextMap()["path"].(string)
		if strings.ContainsAny(path, "\x00\x1b") {
			t.Errorf("Expected control characters to be stripped, got %q", path)
		}
		if len(path) > 510 {
			t.Errorf("Expected path to be truncated, got %d chars", len(path))
		}
	})
}
