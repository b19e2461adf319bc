package middleware

import (
	"net/http"
	"strings"

	"github.com/contractgov/contract-api/internal/config"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// headers the dashboard front end reads from responses
var alwaysExposed = []string{"X-Request-ID", "X-Report-Path", "Content-Disposition"}

// CORS builds the cross-origin policy. With no configured origins, development
// accepts any origin and every other environment rejects all of them.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   mergeHeaders(cfg.ExposedHeaders, alwaysExposed),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	dev := environment == "" || environment == "development" || environment == "local"
	anyOrigin := func(r *http.Request, origin string) bool { return origin != "" }

	switch {
	case contains(cfg.AllowedOrigins, "*"):
		if !dev {
			logger.Warn("cors allows any origin outside development", zap.String("environment", environment))
		}
		options.AllowOriginFunc = anyOrigin
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("cors configured", zap.Strings("origins", cfg.AllowedOrigins))
	case dev:
		options.AllowOriginFunc = anyOrigin
	default:
		// an empty AllowedOrigins means "*" to go-chi/cors
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("cors has no allowed origins, cross-origin requests are rejected", zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func mergeHeaders(configured, extra []string) []string {
	out := append([]string(nil), configured...)
	for _, h := range extra {
		if !contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
