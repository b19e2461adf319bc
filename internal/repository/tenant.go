package repository

import (
	"context"

	"github.com/contractgov/contract-api/internal/auth"
	"gorm.io/gorm"
)

// ApplyOwnerFilter restricts a query to rows owned by the authenticated user.
// Without a user in the context the query matches nothing.
func ApplyOwnerFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return query.Where("1 = 0")
	}
	return query.Where("user_id = ?", user.UserID)
}
