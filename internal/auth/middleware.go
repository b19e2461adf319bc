package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionStore looks up sessions referenced by tokens
type SessionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens   *TokenManager
	sessions SessionStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenManager, sessions SessionStore, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Authenticate requires a valid bearer token whose session is still active
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		userCtx, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		session, err := m.sessions.GetByID(r.Context(), userCtx.SessionID)
		if err != nil || session.UserID != userCtx.UserID || !session.IsActive(m.now()) {
			m.logger.Warn("session rejected",
				zap.String("path", r.URL.Path),
				zap.String("session_id", userCtx.SessionID.String()),
				zap.String("user_id", userCtx.UserID.String()),
			)
			http.Error(w, "Unauthorized: session expired or signed out", http.StatusUnauthorized)
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user_id", userCtx.UserID.String()),
			zap.String("user_email", userCtx.Email),
			zap.Duration("auth_duration", time.Since(start)),
		)

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
