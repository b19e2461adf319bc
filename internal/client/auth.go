package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/service"
)

func (c *Client) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SessionDTO, error) {
	var session domain.SessionDTO
	if err := c.do(ctx, http.MethodPost, "/auth/signup", false, req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignIn reports wrong credentials as service.ErrInvalidCredentials
func (c *Client) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.SessionDTO, error) {
	var session domain.SessionDTO
	if err := c.do(ctx, http.MethodPost, "/auth/signin", false, req, &session); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			if apiErr, ok := APIErrorFrom(err); ok {
				return nil, fmt.Errorf("%w: %w", service.ErrInvalidCredentials, apiErr)
			}
			return nil, service.ErrInvalidCredentials
		}
		return nil, err
	}
	return &session, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/signout", true, nil, nil)
	return err
}

func (c *Client) Session(ctx context.Context) (*domain.SessionDTO, error) {
	var session domain.SessionDTO
	if err := c.do(ctx, http.MethodGet, "/auth/session", true, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Me(ctx context.Context) (*domain.MeResponse, error) {
	var me domain.MeResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", true, nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}
