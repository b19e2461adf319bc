package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/repository"
	"github.com/contractgov/contract-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSessionRepository(db)
	user := testutil.CreateTestUser(t, db, testutil.UniqueEmail("session"))
	ctx := context.Background()

	session := &domain.Session{UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour), UserAgent: "test"}
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive(time.Now()))

	first := time.Now().Truncate(time.Second)
	require.NoError(t, repo.Revoke(ctx, session.ID, first))
	require.NoError(t, repo.Revoke(ctx, session.ID, first.Add(time.Hour)))

	got, err = repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive(time.Now()))
	require.NotNil(t, got.RevokedAt)
	assert.True(t, got.RevokedAt.Equal(first))
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSessionRepository(db)
	user := testutil.CreateTestUser(t, db, testutil.UniqueEmail("session"))
	ctx := context.Background()

	expired := &domain.Session{UserID: user.ID, ExpiresAt: time.Now().Add(-48 * time.Hour)}
	live := &domain.Session{UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, live))

	n, err := repo.DeleteExpired(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByID(ctx, expired.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetByID(ctx, live.ID)
	assert.NoError(t, err)
}

func TestUserRepository_CreateWithProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := &domain.User{Email: "gestora@orgao.gov.br", Name: "Gestora", PasswordHash: "hash"}
	profile := &domain.Profile{FullName: "Gestora", Role: domain.RoleAdmin}
	require.NoError(t, repo.CreateWithProfile(ctx, user, profile))

	got, err := repo.GetByEmail(ctx, "  Gestora@Orgao.gov.br ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	p, err := repo.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, p.Role)

	t.Run("duplicate email fails without leaving a profile", func(t *testing.T) {
		dup := &domain.User{Email: "gestora@orgao.gov.br", PasswordHash: "hash"}
		err := repo.CreateWithProfile(ctx, dup, &domain.Profile{Role: domain.RoleUser})
		assert.Error(t, err)

		var profiles int64
		require.NoError(t, db.Model(&domain.Profile{}).Count(&profiles).Error)
		assert.Equal(t, int64(1), profiles)
	})
}
