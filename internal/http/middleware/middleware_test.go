package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/contractgov/contract-api/internal/config"
	"github.com/contractgov/contract-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := middleware.Recovery(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/contracts", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "internal_error")
	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRecovery_AfterHeadersWritten(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := middleware.Recovery(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		panic("late")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, 1, logs.Len())
}

func TestLogging_RequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := middleware.Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Len(t, rr.Header().Get("X-Request-ID"), 36)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
	})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(http.StatusTeapot), entries[1].ContextMap()["status_code"])
	assert.Equal(t, "req-123", entries[1].ContextMap()["request_id"])
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.Metrics)
	r.Get("/api/v1/contracts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	before := testutil.ToFloat64(middleware.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/contracts/{id}", "204"))
	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/contracts/"+id, nil))
	}
	after := testutil.ToFloat64(middleware.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/contracts/{id}", "204"))
	assert.Equal(t, 3.0, after-before)
}

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.SecurityConfig{
		EnableHSTS:            true,
		HSTSMaxAge:            600,
		HSTSIncludeSubdomains: true,
		ContentTypeNosniff:    true,
		FrameOptions:          "DENY",
		ReferrerPolicy:        "no-referrer",
	}
	h := middleware.SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "max-age=600; includeSubDomains", rr.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rr.Header().Get("Referrer-Policy"))
	assert.Empty(t, rr.Header().Get("Content-Security-Policy"))
}

func TestRateLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name       string
		cfg        config.RateLimitConfig
		remoteAddr string
		path       string
		want       []int
	}{
		{
			name:       "disabled",
			cfg:        config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1},
			remoteAddr: "203.0.113.7:5000",
			path:       "/api/v1/contracts",
			want:       []int{200, 200, 200},
		},
		{
			name:       "limited by ip",
			cfg:        config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, RequestsPerMinuteAuth: 2},
			remoteAddr: "203.0.113.8:5000",
			path:       "/api/v1/contracts",
			want:       []int{200, 200, 429},
		},
		{
			name:       "whitelisted ip",
			cfg:        config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, WhitelistIPs: []string{"203.0.113.9"}},
			remoteAddr: "203.0.113.9:5000",
			path:       "/api/v1/contracts",
			want:       []int{200, 200, 200},
		},
		{
			name:       "whitelisted path prefix",
			cfg:        config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, WhitelistPaths: []string{"/health/*"}},
			remoteAddr: "203.0.113.10:5000",
			path:       "/health/db",
			want:       []int{200, 200, 200},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := middleware.NewRateLimiter(&tt.cfg, zap.NewNop())
			h := rl.LimitByIP(ok)

			got := make([]int, 0, len(tt.want))
			for range tt.want {
				req := httptest.NewRequest(http.MethodGet, tt.path, nil)
				req.RemoteAddr = tt.remoteAddr
				rr := httptest.NewRecorder()
				h.ServeHTTP(rr, req)
				got = append(got, rr.Code)
				if rr.Code == http.StatusTooManyRequests {
					assert.True(t, strings.Contains(rr.Body.String(), "rate_limited"))
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSecurityHeaders_PathRules(t *testing.T) {
	cfg := &config.SecurityConfig{ContentSecurityPolicy: "default-src 'self'"}
	h := middleware.SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		path      string
		csp       bool
		cacheNone bool
	}{
		{path: "/api/v1/contracts", csp: true, cacheNone: true},
		{path: "/swagger/index.html", csp: false, cacheNone: false},
		{path: "/health", csp: true, cacheNone: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.csp, rr.Header().Get("Content-Security-Policy") != "")
			assert.Equal(t, tt.cacheNone, rr.Header().Get("Cache-Control") == "no-store")
		})
	}
}

func TestCORS_ExposesReportHeaders(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins: []string{"https://painel.contractgov.gov.br"},
		AllowedMethods: []string{"GET"},
		ExposedHeaders: []string{"x-report-path"},
	}
	h := middleware.CORS(cfg, "production", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		origin  string
		allowed bool
	}{
		{origin: "https://painel.contractgov.gov.br", allowed: true},
		{origin: "https://evil.example", allowed: false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.allowed, rr.Header().Get("Access-Control-Allow-Origin") == tt.origin)
			if tt.allowed {
				exposed := rr.Header().Get("Access-Control-Expose-Headers")
				assert.Contains(t, strings.ToLower(exposed), "x-request-id")
				assert.Equal(t, 1, strings.Count(strings.ToLower(exposed), "x-report-path"))
			}
		})
	}
}

func TestLogging_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		want   zapcore.Level
	}{
		{status: http.StatusOK, want: zapcore.InfoLevel},
		{status: http.StatusNotFound, want: zapcore.WarnLevel},
		{status: http.StatusServiceUnavailable, want: zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			h := middleware.Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/contracts", nil))

			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tt.want, logs.All()[0].Level)
		})
	}
}
