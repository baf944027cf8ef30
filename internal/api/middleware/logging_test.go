package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heartcraft/storefront/internal/api/middleware"
	"github.com/stretchr/testify/assert"
)

func captureDefaultLogger(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	return &buf
}

func TestLogging(t *testing.T) {

	t.Run("Propagates incoming request ID", func(t *testing.T) {
		// Arrange
		buf := captureDefaultLogger(t)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			middleware.LoggerFromContext(r.Context()).Info("inside handler")
			w.WriteHeader(http.StatusTeapot)
		})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptest.NewRecorder()

		// Act
		middleware.Logging(next).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
		logs := buf.String()
		assert.Contains(t, logs, `"correlation_id":"req-123"`)
		assert.Contains(t, logs, "Incoming request")
		assert.Contains(t, logs, "inside handler")
		assert.Contains(t, logs, `"http_status":418`)
	})

	t.Run("Generates request ID when absent", func(t *testing.T) {
		captureDefaultLogger(t)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
		rr := httptest.NewRecorder()

		middleware.Logging(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, rr.Header().Get("X-Request-ID"), 36)
	})
}

func TestLoggerFromContext(t *testing.T) {
	assert.Equal(t, slog.Default(), middleware.LoggerFromContext(context.Background()))

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := middleware.WithLogger(context.Background(), logger)
	assert.Same(t, logger, middleware.LoggerFromContext(ctx))
}
