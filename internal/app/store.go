// Package app holds the client-side state of the contract dashboard: the
// session gate, the view navigator and the controller that ties them to a
// contract store.
package app

import (
	"context"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/google/uuid"
)

// Store is the contract persistence the controller works against.
// Implementations return service.ErrUnauthorized when no session is active.
type Store interface {
	List(ctx context.Context, search string) ([]domain.ContractDTO, error)
	Upsert(ctx context.Context, req *domain.UpsertContractRequest) (*domain.UpsertContractResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Authenticator opens and closes sessions against the backend
type Authenticator interface {
	SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SessionDTO, error)
	SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.SessionDTO, error)
	SignOut(ctx context.Context) error
	Session(ctx context.Context) (*domain.SessionDTO, error)
}
