package auth

import (
	"context"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/google/uuid"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
	SessionID   uuid.UUID
	Role        domain.Role
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// IsAdmin reports whether the profile role is admin. The role only changes
// labels; it grants no extra data access.
func (u *UserContext) IsAdmin() bool {
	return u.Role == domain.RoleAdmin
}
