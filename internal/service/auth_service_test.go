package service_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/contractgov/contract-api/internal/auth"
	"github.com/contractgov/contract-api/internal/config"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/repository"
	"github.com/contractgov/contract-api/internal/service"
	"github.com/contractgov/contract-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type authFixture struct {
	svc      *service.AuthService
	tokens   *auth.TokenManager
	sessions *repository.SessionRepository
}

func newAuthFixture(t *testing.T, db *gorm.DB) authFixture {
	t.Helper()
	cfg := &config.AuthConfig{
		JWTSecret:     "service-test-secret-123",
		Issuer:        "contractgov-test",
		TokenTTLHours: 2,
		AdminEmails:   []string{"diretoria@contractgov.com.br"},
	}
	tokens := auth.NewTokenManager(cfg)
	sessions := repository.NewSessionRepository(db)
	return authFixture{
		svc:      service.NewAuthService(repository.NewUserRepository(db), sessions, tokens, cfg, zap.NewNop()),
		tokens:   tokens,
		sessions: sessions,
	}
}

func (f authFixture) contextFor(t *testing.T, session *domain.SessionDTO) context.Context {
	t.Helper()
	userCtx, err := f.tokens.ValidateToken(session.AccessToken)
	require.NoError(t, err)
	return auth.WithUserContext(context.Background(), userCtx)
}

func TestAuthService_SignUpAndSignIn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newAuthFixture(t, db)
	ctx := context.Background()

	session, err := f.svc.SignUp(ctx, &domain.SignUpRequest{
		Email:    " Gestor@Prefeitura.SP.gov.br ",
		Password: "segredo1",
		Name:     "Gestor Municipal",
	}, "cli/1.0")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.Equal(t, "gestor@prefeitura.sp.gov.br", session.User.Email)
	require.NotNil(t, session.Profile)
	assert.Equal(t, domain.RoleUser, session.Profile.Role)
	assert.Equal(t, "Usuário", session.Profile.RoleLabel)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := f.svc.SignUp(ctx, &domain.SignUpRequest{Email: "gestor@prefeitura.sp.gov.br", Password: "outra123"}, "")
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("sign in with correct password", func(t *testing.T) {
		signedIn, err := f.svc.SignIn(ctx, &domain.SignInRequest{Email: "GESTOR@prefeitura.sp.gov.br", Password: "segredo1"}, "")
		require.NoError(t, err)
		assert.NotEqual(t, session.ID, signedIn.ID)
		assert.Equal(t, session.User.ID, signedIn.User.ID)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, err := f.svc.SignIn(ctx, &domain.SignInRequest{Email: "gestor@prefeitura.sp.gov.br", Password: "errada"}, "")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)

		_, err = f.svc.SignIn(ctx, &domain.SignInRequest{Email: "ninguem@gov.br", Password: "segredo1"}, "")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthService_AdminRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newAuthFixture(t, db)

	session, err := f.svc.SignUp(context.Background(), &domain.SignUpRequest{
		Email:    "Diretoria@ContractGov.com.br",
		Password: "segredo1",
	}, "")
	require.NoError(t, err)
	require.NotNil(t, session.Profile)
	assert.Equal(t, domain.RoleAdmin, session.Profile.Role)
	assert.Equal(t, "Administrador", session.Profile.RoleLabel)

	userCtx, err := f.tokens.ValidateToken(session.AccessToken)
	require.NoError(t, err)
	assert.True(t, userCtx.IsAdmin())
}

func TestAuthService_SessionMeAndSignOut(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newAuthFixture(t, db)

	session, err := f.svc.SignUp(context.Background(), &domain.SignUpRequest{
		Email:    "fiscal@orgao.gov.br",
		Password: "segredo1",
		Name:     "Fiscal",
	}, "")
	require.NoError(t, err)
	ctx := f.contextFor(t, session)

	current, err := f.svc.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.ID, current.ID)
	assert.Empty(t, current.AccessToken)
	assert.Equal(t, session.ExpiresAt, current.ExpiresAt)

	me, err := f.svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fiscal@orgao.gov.br", me.User.Email)
	require.NotNil(t, me.Profile)
	assert.Equal(t, "Fiscal", me.Profile.FullName)

	require.NoError(t, f.svc.SignOut(ctx))
	stored, err := f.sessions.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.RevokedAt)

	_, err = f.svc.Me(context.Background())
	assert.ErrorIs(t, err, service.ErrUnauthorized)
	assert.ErrorIs(t, f.svc.SignOut(context.Background()), service.ErrUnauthorized)
}

func TestAuthService_UserAgentTruncation(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"short agent kept", "contractgov-cli/1.0", "contractgov-cli/1.0"},
		{"ascii cut at limit", strings.Repeat("a", 520), strings.Repeat("a", 500)},
		{"multibyte cut on rune boundary", strings.Repeat("a", 499) + "çãé", strings.Repeat("a", 499) + "ç"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			f := newAuthFixture(t, db)

			session, err := f.svc.SignUp(context.Background(), &domain.SignUpRequest{
				Email:    testutil.UniqueEmail("agente"),
				Password: "segredo1",
			}, tt.userAgent)
			require.NoError(t, err)

			stored, err := f.sessions.GetByID(context.Background(), session.ID)
			require.NoError(t, err)
			assert.True(t, utf8.ValidString(stored.UserAgent))
			assert.Equal(t, tt.want, stored.UserAgent)
		})
	}
}
