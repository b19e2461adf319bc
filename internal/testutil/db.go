// Package testutil provides shared helpers for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/contractgov/contract-api/internal/auth"
	"github.com/contractgov/contract-api/internal/database"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a migrated in-memory SQLite database. The pool is limited
// to one connection so every query sees the same in-memory database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateTestUser inserts a user with a standard profile
func CreateTestUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&domain.Profile{UserID: user.ID, FullName: user.Name, Role: domain.RoleUser}).Error)
	return user
}

// UserContext returns a context authenticated as the given user
func UserContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:    user.ID,
		Email:     user.Email,
		SessionID: uuid.New(),
		Role:      domain.RoleUser,
	})
}

// AnonymousContext returns a context without a user
func AnonymousContext() context.Context {
	return context.Background()
}

// UniqueEmail builds a distinct email for a test
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.gov.br", prefix, uuid.NewString()[:8])
}
