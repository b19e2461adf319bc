package router

import (
	"net/http"

	_ "github.com/contractgov/contract-api/docs" // Register swagger docs
	"github.com/contractgov/contract-api/internal/auth"
	"github.com/contractgov/contract-api/internal/config"
	"github.com/contractgov/contract-api/internal/http/handler"
	"github.com/contractgov/contract-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	authHandler      *handler.AuthHandler
	contractHandler  *handler.ContractHandler
	dashboardHandler *handler.DashboardHandler
	reportHandler    *handler.ReportHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	contractHandler *handler.ContractHandler,
	dashboardHandler *handler.DashboardHandler,
	reportHandler *handler.ReportHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		authHandler:      authHandler,
		contractHandler:  contractHandler,
		dashboardHandler: dashboardHandler,
		reportHandler:    reportHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	if rt.cfg.Metrics.Enabled {
		r.Use(middleware.Metrics)
	}
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	r.Get("/health", rt.live)
	r.Get("/health/db", rt.databaseHealth)
	r.Get("/health/ready", rt.ready)

	if rt.cfg.Metrics.Enabled {
		path := rt.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.Handler())
	}

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public credential endpoints
		r.Group(func(r chi.Router) {
			r.Use(rt.rateLimiter.LimitAuthEndpoints)
			r.Post("/auth/signup", rt.authHandler.SignUp)
			r.Post("/auth/signin", rt.authHandler.SignIn)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			r.Post("/auth/signout", rt.authHandler.SignOut)
			r.Get("/auth/session", rt.authHandler.Session)
			r.Get("/auth/me", rt.authHandler.Me)

			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", rt.contractHandler.List)
				r.Post("/", rt.contractHandler.Create)
				r.Get("/draft", rt.contractHandler.Draft)
				r.Get("/{id}", rt.contractHandler.GetByID)
				r.Put("/{id}", rt.contractHandler.Update)
				r.Delete("/{id}", rt.contractHandler.Delete)
			})

			r.Get("/dashboard", rt.dashboardHandler.GetMetrics)
			r.Get("/dashboard/deadlines", rt.dashboardHandler.GetDeadlines)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/contracts.pdf", rt.reportHandler.ExportPDF)
				r.Get("/contracts.xlsx", rt.reportHandler.ExportExcel)
			})
		})
	})

	return r
}
