package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/contractgov/contract-api/internal/auth"
	"github.com/contractgov/contract-api/internal/config"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// RateLimiter groups the three request budgets of the API: per IP before
// authentication, per user after it, and a tighter per-IP budget for the
// credential endpoints.
type RateLimiter struct {
	cfg    *config.RateLimitConfig
	logger *zap.Logger

	byIP        func(http.Handler) http.Handler
	byUser      func(http.Handler) http.Handler
	credentials func(http.Handler) http.Handler

	trustedIPs   map[string]struct{}
	exemptExact  map[string]struct{}
	exemptPrefix []string
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(cfg *config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		cfg:         cfg,
		logger:      logger,
		trustedIPs:  make(map[string]struct{}, len(cfg.WhitelistIPs)),
		exemptExact: make(map[string]struct{}, len(cfg.WhitelistPaths)),
	}
	for _, ip := range cfg.WhitelistIPs {
		rl.trustedIPs[ip] = struct{}{}
	}
	for _, p := range cfg.WhitelistPaths {
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			rl.exemptPrefix = append(rl.exemptPrefix, prefix)
			continue
		}
		rl.exemptExact[p] = struct{}{}
	}

	// limiters stay nil when disabled; every middleware checks Enabled first
	if !cfg.Enabled {
		return rl
	}

	perUser := cfg.RequestsPerMinuteAuth
	if perUser <= 0 {
		perUser = cfg.RequestsPerMinute
	}
	credentialLimit := cfg.RequestsPerMinuteAuthEndpoints
	if credentialLimit <= 0 {
		credentialLimit = cfg.RequestsPerMinute
	}

	rl.byIP = rl.limit(cfg.RequestsPerMinute, httprate.KeyByIP)
	rl.byUser = rl.limit(perUser, rl.userOrIPKey)
	rl.credentials = rl.limit(credentialLimit, httprate.KeyByIP, httprate.KeyByEndpoint)

	logger.Info("rate limiter initialized",
		zap.Int("per_ip", cfg.RequestsPerMinute),
		zap.Int("per_user", perUser),
		zap.Int("credential_endpoints", credentialLimit),
		zap.Int("trusted_ips", len(rl.trustedIPs)),
	)
	return rl
}

func (rl *RateLimiter) limit(perMinute int, keys ...httprate.KeyFunc) func(http.Handler) http.Handler {
	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(keys...),
		httprate.WithLimitHandler(rl.tooManyRequests),
	)
}

// LimitByIP applies the per-IP budget; it runs before authentication
func (rl *RateLimiter) LimitByIP(next http.Handler) http.Handler {
	return rl.guard(next, rl.byIP, true)
}

// Limit applies the per-user budget to authenticated requests and falls back
// to the per-IP budget otherwise
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	perUser := rl.byUser(next)
	perIP := rl.byIP(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt(r, true) {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := auth.FromContext(r.Context()); ok {
			perUser.ServeHTTP(w, r)
			return
		}
		perIP.ServeHTTP(w, r)
	})
}

// LimitAuthEndpoints guards sign-in and sign-up against brute force. Trusted
// IPs skip it; exempt paths do not.
func (rl *RateLimiter) LimitAuthEndpoints(next http.Handler) http.Handler {
	return rl.guard(next, rl.credentials, false)
}

func (rl *RateLimiter) guard(next http.Handler, limiter func(http.Handler) http.Handler, pathExempt bool) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	limited := limiter(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt(r, pathExempt) {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) exempt(r *http.Request, checkPath bool) bool {
	if _, ok := rl.trustedIPs[clientIP(r)]; ok {
		return true
	}
	if !checkPath {
		return false
	}
	if _, ok := rl.exemptExact[r.URL.Path]; ok {
		return true
	}
	for _, prefix := range rl.exemptPrefix {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

func (rl *RateLimiter) userOrIPKey(r *http.Request) (string, error) {
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		return "user:" + userCtx.UserID.String(), nil
	}
	return "ip:" + clientIP(r), nil
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// socket address
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) tooManyRequests(w http.ResponseWriter, r *http.Request) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("client_ip", clientIP(r)),
	}
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		fields = append(fields, zap.String("user_id", userCtx.UserID.String()))
	}
	rl.logger.Warn("rate limit exceeded", fields...)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(domain.NewAPIError(http.StatusTooManyRequests, "Too many requests, try again in a minute"))
}
