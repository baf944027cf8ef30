package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heartcraft/storefront/internal/api/middleware"
	"github.com/heartcraft/storefront/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	cfg := &config.CORSConfig{
		Enabled:          true,
		AllowedOrigins:   []string{"https://shop.example.com", "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		method         string
		origin         string
		preflight      bool
		expectedStatus int
		expectAllowed  bool
	}{
		{"Exact origin", http.MethodGet, "https://shop.example.com", false, http.StatusOK, true},
		{"Wildcard port", http.MethodGet, "http://localhost:5173", false, http.StatusOK, true},
		{"Unknown origin", http.MethodGet, "https://evil.example.org", false, http.StatusOK, false},
		{"No origin", http.MethodGet, "", false, http.StatusOK, false},
		{"Preflight", http.MethodOptions, "https://shop.example.com", true, http.StatusNoContent, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(tc.method, "/api/v1/carts", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rr := httptest.NewRecorder()

			// Act
			middleware.CORS(cfg)(next).ServeHTTP(rr, req)

			// Assert
			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectAllowed {
				assert.Equal(t, tc.origin, rr.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
				assert.Equal(t, "GET, POST", rr.Header().Get("Access-Control-Allow-Methods"))
				assert.Equal(t, "600", rr.Header().Get("Access-Control-Max-Age"))
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}

	t.Run("Disabled", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://shop.example.com")
		rr := httptest.NewRecorder()

		middleware.CORS(&config.CORSConfig{Enabled: false})(next).ServeHTTP(rr, req)

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}
