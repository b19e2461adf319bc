package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/contractgov/contract-api/internal/auth"
	"github.com/contractgov/contract-api/internal/config"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/http/handler"
	"github.com/contractgov/contract-api/internal/http/middleware"
	"github.com/contractgov/contract-api/internal/http/router"
	"github.com/contractgov/contract-api/internal/repository"
	"github.com/contractgov/contract-api/internal/service"
	"github.com/contractgov/contract-api/internal/storage"
	"github.com/contractgov/contract-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		App:  config.AppConfig{Name: "ContractGov API", Environment: "development"},
		Auth: config.AuthConfig{JWTSecret: "router-test-secret-abc", Issuer: "contractgov-test", TokenTTLHours: 1},
		Storage: config.StorageConfig{
			Mode:          "local",
			LocalBasePath: t.TempDir(),
			ReportPrefix:  "reports",
		},
		Jobs:    config.JobsConfig{DeadlineWindowDays: 15},
		Server:  config.ServerConfig{EnableSwagger: true},
		CORS:    config.CORSConfig{AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"}},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Security: config.SecurityConfig{
			ContentTypeNosniff: true,
			FrameOptions:       "DENY",
		},
		RateLimit: config.RateLimitConfig{
			Enabled:                        true,
			RequestsPerMinute:              1000,
			RequestsPerMinuteAuth:          1000,
			RequestsPerMinuteAuthEndpoints: 5,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	store, err := storage.NewStorage(context.Background(), &cfg.Storage, log)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	tokens := auth.NewTokenManager(&cfg.Auth)
	contractService := service.NewContractService(repository.NewContractRepository(db), log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		auth.NewMiddleware(tokens, sessionRepo, log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		handler.NewAuthHandler(service.NewAuthService(userRepo, sessionRepo, tokens, &cfg.Auth, log), log),
		handler.NewContractHandler(contractService, log),
		handler.NewDashboardHandler(service.NewDashboardService(contractService, cfg.Jobs.DeadlineWindowDays, log), log),
		handler.NewReportHandler(service.NewReportService(contractService, store, cfg, log), log),
	)
	return rt.Setup()
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	h := newTestServer(t, testConfig(t))

	tests := []struct {
		path string
		code int
	}{
		{path: "/health", code: http.StatusOK},
		{path: "/health/db", code: http.StatusOK},
		{path: "/health/ready", code: http.StatusOK},
		{path: "/metrics", code: http.StatusOK},
		{path: "/swagger/doc.json", code: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := do(t, h, http.MethodGet, tt.path, "", nil)
			assert.Equal(t, tt.code, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestRouter_ProtectedRoutesRequireSession(t *testing.T) {
	h := newTestServer(t, testConfig(t))

	for _, path := range []string{"/api/v1/contracts", "/api/v1/dashboard", "/api/v1/auth/me", "/api/v1/reports/contracts.pdf"} {
		t.Run(path, func(t *testing.T) {
			rr := do(t, h, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestRouter_ContractLifecycle(t *testing.T) {
	h := newTestServer(t, testConfig(t))

	rr := do(t, h, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "engenharia@metro.sp.gov.br",
		"password": "segredo1",
		"name":     "Engenharia",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var session domain.SessionDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	token := session.AccessToken

	rr = do(t, h, http.MethodPost, "/api/v1/contracts", token, map[string]interface{}{
		"clienteOrgao":   "Companhia do Metropolitano",
		"estado":         "SP",
		"valorGlobal":    2500000,
		"status":         "Ativo",
		"qtdeElevadores": 12,
		"dataInicio":     "2026-01-15",
		"contatos":       []map[string]string{{"nome": "Paulo Lima"}},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created domain.UpsertContractResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	contractPath := "/api/v1/contracts/" + created.ID.String()

	rr = do(t, h, http.MethodGet, contractPath, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/v1/contracts/draft", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var metrics domain.DashboardMetrics
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &metrics))
	assert.Equal(t, 1, metrics.ActiveCount)
	assert.Equal(t, 12, metrics.TotalElevators)

	rr = do(t, h, http.MethodGet, "/api/v1/reports/contracts.pdf?archive=true", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("X-Report-Path"), "reports/"))

	rr = do(t, h, http.MethodDelete, contractPath, token, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/v1/auth/signout", token, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/v1/contracts", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "revoked session must not authenticate")
}

func TestRouter_AuthEndpointRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.RequestsPerMinuteAuthEndpoints = 2
	h := newTestServer(t, cfg)

	body := map[string]string{"email": "ninguem@gov.br", "password": "errada"}
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(t, h, http.MethodPost, "/api/v1/auth/signin", "", body).Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}
