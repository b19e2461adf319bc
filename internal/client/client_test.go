package client_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/contractgov/contract-api/internal/app"
	"github.com/contractgov/contract-api/internal/auth"
	"github.com/contractgov/contract-api/internal/client"
	"github.com/contractgov/contract-api/internal/config"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/http/handler"
	"github.com/contractgov/contract-api/internal/http/middleware"
	"github.com/contractgov/contract-api/internal/http/router"
	"github.com/contractgov/contract-api/internal/repository"
	"github.com/contractgov/contract-api/internal/service"
	"github.com/contractgov/contract-api/internal/storage"
	"github.com/contractgov/contract-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	_ app.Store         = (*client.Client)(nil)
	_ app.Authenticator = (*client.Client)(nil)
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		App:     config.AppConfig{Name: "ContractGov API", Environment: "development"},
		Auth:    config.AuthConfig{JWTSecret: "client-test-secret-123", Issuer: "contractgov-test", TokenTTLHours: 1},
		Storage: config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir(), ReportPrefix: "reports"},
		Jobs:    config.JobsConfig{DeadlineWindowDays: 15},
	}
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()
	store, err := storage.NewStorage(context.Background(), &cfg.Storage, log)
	require.NoError(t, err)

	sessions := repository.NewSessionRepository(db)
	tokens := auth.NewTokenManager(&cfg.Auth)
	contracts := service.NewContractService(repository.NewContractRepository(db), log)
	rt := router.NewRouter(
		cfg, log, db,
		auth.NewMiddleware(tokens, sessions, log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		handler.NewAuthHandler(service.NewAuthService(repository.NewUserRepository(db), sessions, tokens, &cfg.Auth, log), log),
		handler.NewContractHandler(contracts, log),
		handler.NewDashboardHandler(service.NewDashboardService(contracts, cfg.Jobs.DeadlineWindowDays, log), log),
		handler.NewReportHandler(service.NewReportService(contracts, store, cfg, log), log),
	)

	srv := httptest.NewServer(rt.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_NoTokenSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	c := client.New(srv.URL, staticToken(""))
	_, err := c.List(context.Background(), "")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
	assert.ErrorIs(t, c.Delete(context.Background(), uuid.New()), service.ErrUnauthorized)
	assert.Equal(t, 0, calls)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{status: http.StatusUnauthorized, want: service.ErrUnauthorized},
		{status: http.StatusNotFound, want: service.ErrNotFound},
		{status: http.StatusBadRequest, want: service.ErrInvalidInput},
		{status: http.StatusConflict, want: service.ErrConflict},
		{status: http.StatusServiceUnavailable, want: service.ErrStorageUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"type":"x","title":"t","status":0,"detail":"from server"}`))
			}))
			defer srv.Close()

			_, err := client.New(srv.URL, staticToken("tok")).Get(context.Background(), uuid.New())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			apiErr, ok := client.APIErrorFrom(err)
			require.True(t, ok)
			assert.Equal(t, "from server", apiErr.Detail)
		})
	}

	t.Run("unmapped status keeps api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := client.New(srv.URL, staticToken("tok")).Dashboard(context.Background())
		apiErr, ok := client.APIErrorFrom(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	})
}

func TestClient_AgainstRouter(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	gate := app.NewSessionGate()
	c := client.New(srv.URL, gate)

	_, err := c.SignIn(ctx, &domain.SignInRequest{Email: "obras@rio.rj.gov.br", Password: "segredo1"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	session, err := c.SignUp(ctx, &domain.SignUpRequest{Email: "obras@rio.rj.gov.br", Password: "segredo1", Name: "Obras"})
	require.NoError(t, err)
	gate.Set(session)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "obras@rio.rj.gov.br", me.User.Email)

	draft, err := c.Draft(ctx)
	require.NoError(t, err)
	req := domain.RequestFromDTO(*draft)
	req.ClientAgency = "Secretaria Municipal de Obras"
	req.State = "RJ"
	req.ElevatorsQty = 6
	req.InstalledElevators = 2
	deadline := domain.NewDate(time.Now()).AddDays(5)
	req.Deadline = &deadline
	req.Contacts = []domain.ContactInput{{Name: "Bruno", Email: "bruno@rio.rj.gov.br"}}

	created, err := c.Upsert(ctx, &req)
	require.NoError(t, err)

	req.ID = &created.ID
	req.Status = domain.ContractStatusActive
	updated, err := c.Upsert(ctx, &req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	list, err := c.List(ctx, "obras")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ContractStatusActive, list[0].Status)

	metrics, err := c.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, metrics.InstalledElevators)

	alerts, err := c.Deadlines(ctx, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 5, alerts[0].DaysRemaining)

	report, err := c.Export(ctx, "pdf", true)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(report.Content, []byte("%PDF-")))
	assert.Contains(t, report.FileName, "Relatorio_Contratos_")
	assert.NotEmpty(t, report.StoragePath)

	_, err = c.Export(ctx, "csv", false)
	assert.Error(t, err)

	require.NoError(t, c.Delete(ctx, created.ID))
	_, err = c.Get(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	require.NoError(t, c.SignOut(ctx))
	_, err = c.Session(ctx)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
