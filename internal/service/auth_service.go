package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/contractgov/contract-api/internal/auth"
	"github.com/contractgov/contract-api/internal/config"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/mapper"
	"github.com/contractgov/contract-api/internal/repository"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
	tokens      *auth.TokenManager
	cfg         *config.AuthConfig
	logger      *zap.Logger
	now         func() time.Time
}

func NewAuthService(
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	tokens *auth.TokenManager,
	cfg *config.AuthConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// SignUp creates an account with its profile and opens a session for it.
// Emails listed in the admin configuration get the admin role.
func (s *AuthService) SignUp(ctx context.Context, req *domain.SignUpRequest, userAgent string) (*domain.SessionDTO, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	role := domain.RoleUser
	if s.cfg.IsAdminEmail(email) {
		role = domain.RoleAdmin
	}

	user := &domain.User{Email: email, Name: name, PasswordHash: hash}
	profile := &domain.Profile{FullName: name, Role: role}
	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)),
	)
	return s.openSession(ctx, user, profile, userAgent)
}

// SignIn checks the credentials and opens a new session
func (s *AuthService) SignIn(ctx context.Context, req *domain.SignInRequest, userAgent string) (*domain.SessionDTO, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.logger.Warn("sign-in rejected", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	profile, err := s.userRepo.GetProfile(ctx, user.ID)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("failed to record last login", zap.Error(err))
	}
	return s.openSession(ctx, user, profile, userAgent)
}

// SignOut revokes the session carried by the caller's token
func (s *AuthService) SignOut(ctx context.Context) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if err := s.sessionRepo.Revoke(ctx, userCtx.SessionID, s.now()); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	s.logger.Info("user signed out",
		zap.String("user_id", userCtx.UserID.String()),
		zap.String("session_id", userCtx.SessionID.String()),
	)
	return nil
}

// Session describes the caller's current session. The token is not echoed back.
func (s *AuthService) Session(ctx context.Context) (*domain.SessionDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	session, err := s.sessionRepo.GetByID(ctx, userCtx.SessionID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	user, profile, err := s.loadUser(ctx, userCtx)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToSessionDTO(session, user, profile, "")
	return &dto, nil
}

// Me returns the caller's user and profile
func (s *AuthService) Me(ctx context.Context) (*domain.MeResponse, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	user, profile, err := s.loadUser(ctx, userCtx)
	if err != nil {
		return nil, err
	}
	return &domain.MeResponse{
		User:    mapper.ToUserDTO(user),
		Profile: mapper.ToProfileDTO(profile),
	}, nil
}

// loadUser returns the caller's user and, when present, profile
func (s *AuthService) loadUser(ctx context.Context, userCtx *auth.UserContext) (*domain.User, *domain.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	profile, err := s.userRepo.GetProfile(ctx, user.ID)
	if err != nil {
		if !isNotFound(err) {
			return nil, nil, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = nil
	}
	return user, profile, nil
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User, profile *domain.Profile, userAgent string) (*domain.SessionDTO, error) {
	role := domain.RoleUser
	if profile != nil {
		role = profile.Role
	}

	session := &domain.Session{
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.tokens.TTL()),
		UserAgent: truncate(userAgent, 500),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.tokens.Issue(user, role, session.ID, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToSessionDTO(session, user, profile, token)
	return &dto, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// truncate keeps at most max runes so a cut never splits a UTF-8 sequence
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
