package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/carwash-booking/internal/analytics"
	"github.com/richxcame/carwash-booking/internal/bookings"
	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/richxcame/carwash-booking/internal/fleetleads"
	"github.com/richxcame/carwash-booking/internal/notifications"
	"github.com/richxcame/carwash-booking/internal/pricing"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/config"
	"github.com/richxcame/carwash-booking/pkg/middleware"
	"github.com/richxcame/carwash-booking/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = validation.RegisterGinValidations()
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			ServiceName:    "carwash-api-test",
			CORSOrigins:    "http://localhost:3000, https://wash.example",
			RequestTimeout: 5,
		},
	}
}

// setupTestRouter wires the real router. Only routes that never reach
// storage are exercised here.
func setupTestRouter(checks map[string]common.Checker) *gin.Engine {
	dispatcher := notifications.NewDispatcher(notifications.NewLogNotifier("ar"))
	h := &handlers{
		catalog:       catalog.NewHandler(catalog.NewService(nil, nil)),
		pricing:       pricing.NewHandler(pricing.NewEngine(nil, nil)),
		bookings:      bookings.NewHandler(bookings.NewService(nil, nil, nil, nil, nil, bookings.Options{})),
		fleetLeads:    fleetleads.NewHandler(fleetleads.NewService(nil, nil)),
		notifications: notifications.NewHandler(dispatcher),
		analytics:     analytics.NewHandler(analytics.NewService(nil, time.UTC)),
	}
	return newRouter(testConfig(), h, checks, nil)
}

func doRequest(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ============== Health Tests ==============

func TestHealthEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		checks     map[string]common.Checker
		wantCode   int
		wantStatus string
	}{
		{
			name:       "liveness",
			path:       "/healthz",
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name: "ready",
			path: "/health/ready",
			checks: map[string]common.Checker{
				"database": func(context.Context) error { return nil },
			},
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name: "database down",
			path: "/health/ready",
			checks: map[string]common.Checker{
				"database": func(context.Context) error { return errors.New("connection refused") },
				"redis":    func(context.Context) error { return nil },
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(setupTestRouter(tt.checks), http.MethodGet, tt.path, nil, nil)

			require.Equal(t, tt.wantCode, w.Code)
			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp["status"])
			assert.Equal(t, "carwash-api-test", resp["service"])
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(nil)
	doRequest(router, http.MethodGet, "/healthz", nil, nil)

	w := doRequest(router, http.MethodGet, "/metrics", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

// ============== Middleware Tests ==============

func TestCorrelationIDIsEchoed(t *testing.T) {
	w := doRequest(setupTestRouter(nil), http.MethodGet, "/healthz", nil,
		map[string]string{middleware.CorrelationIDHeader: "req-123"})

	assert.Equal(t, "req-123", w.Header().Get(middleware.CorrelationIDHeader))
	assert.NotEmpty(t, w.Header().Get("X-Content-Type-Options"))
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name      string
		origin    string
		wantAllow string
	}{
		{"configured origin", "https://wash.example", "https://wash.example"},
		{"unknown origin", "https://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(setupTestRouter(nil), http.MethodOptions, "/api/v1/bookings", nil, map[string]string{
				"Origin":                        tt.origin,
				"Access-Control-Request-Method": http.MethodPost,
			})

			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitOrigins(" a, ,b "))
	assert.Nil(t, splitOrigins(""))
}

func TestCorsConfig_EmptyAllowsAll(t *testing.T) {
	cfg := corsConfig("")
	assert.True(t, cfg.AllowAllOrigins)
	assert.Empty(t, cfg.AllowOrigins)
}

// ============== Route Tests ==============

func TestPublicRoutesValidateBeforeStorage(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"booking", "/api/v1/bookings"},
		{"quote", "/api/v1/pricing/quote"},
		{"fleet lead", "/api/v1/fleet-leads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(setupTestRouter(nil), http.MethodPost, tt.path, map[string]interface{}{}, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAdminNotificationRoute(t *testing.T) {
	w := doRequest(setupTestRouter(nil), http.MethodPost, "/api/v1/admin/notifications", map[string]interface{}{
		"phone":    "+967771234567",
		"template": "custom",
		"custom":   "Your car is ready",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Contains(t, data["id"], "wam_")
}

func TestUnknownRoute(t *testing.T) {
	w := doRequest(setupTestRouter(nil), http.MethodGet, "/api/v1/unknown", nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
