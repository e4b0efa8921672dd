package logging

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompactHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("graph built", "nodes", 3, "title", "Two Words", "key", "0123456789abcdef")

	line := buf.String()
	if !strings.HasPrefix(line, "[INFO]  ") {
		t.Errorf("Expected INFO prefix, got %q", line)
	}
	for _, want := range []string{"graph built |", "nodes=3", `title="Two Words"`, "key=01234567"} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "89abcdef") {
		t.Errorf("Expected memo key to be shortened in %q", line)
	}
}

func TestCompactHandlerBoundAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, nil)).With("component", "web").WithGroup("req")

	logger.Info("done", "status", 200)

	line := buf.String()
	if !strings.Contains(line, "component=web") {
		t.Errorf("Expected bound attribute in %q", line)
	}
	if !strings.Contains(line, "req.status=200") {
		t.Errorf("Expected grouped attribute in %q", line)
	}
}

func TestCompactHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected INFO to be filtered, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		verbosity string
		verbose   int
		want      slog.Level
	}{
		{"", 0, slog.LevelInfo},
		{"", 1, slog.LevelDebug},
		{"", 3, LevelTrace},
		{"warn", 2, slog.LevelWarn},
		{"ERROR", 0, slog.LevelError},
		{"bogus", 0, slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.verbosity, tt.verbose); got != tt.want {
			t.Errorf("ParseLevel(%q, %d) = %v, want %v", tt.verbosity, tt.verbose, got, tt.want)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, slog.LevelInfo)
	defer SetOutput(&bytes.Buffer{}, slog.LevelInfo)

	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/graph", nil)
	req.Header.Set(RequestIDHeader, "fixed-request-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "fixed-request-id" {
		t.Errorf("Expected request id in context, got %q", seen)
	}
	if rec.Header().Get(RequestIDHeader) != "fixed-request-id" {
		t.Errorf("Expected request id echoed in header, got %q", rec.Header().Get(RequestIDHeader))
	}
	if !strings.Contains(buf.String(), "request rejected") {
		t.Errorf("Expected 4xx to be logged as rejected, got %q", buf.String())
	}
}

func TestRequestIDMiddlewareGeneratesID(t *testing.T) {
	SetOutput(&bytes.Buffer{}, slog.LevelInfo)

	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if len(rec.Header().Get(RequestIDHeader)) != 36 {
		t.Errorf("Expected generated UUID, got %q", rec.Header().Get(RequestIDHeader))
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	if GetRequestID(context.Background()) != "" {
		t.Error("Expected empty request id")
	}
}
