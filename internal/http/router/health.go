package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/contractgov/contract-api/internal/database"
	"go.uber.org/zap"
)

const healthTimeout = 3 * time.Second

type poolStats struct {
	MaxOpenConnections int   `json:"max_open_connections"`
	OpenConnections    int   `json:"open_connections"`
	InUse              int   `json:"in_use"`
	Idle               int   `json:"idle"`
	WaitCount          int64 `json:"wait_count"`
	WaitDurationMs     int64 `json:"wait_duration_ms"`
	MaxIdleClosed      int64 `json:"max_idle_closed"`
	MaxLifetimeClosed  int64 `json:"max_lifetime_closed"`
}

type healthReport struct {
	Status  string                  `json:"status"`
	Service string                  `json:"service,omitempty"`
	Error   string                  `json:"error,omitempty"`
	Stats   *poolStats              `json:"stats,omitempty"`
	Checks  map[string]healthReport `json:"checks,omitempty"`
}

func (rt *Router) live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// databaseHealth pings the database and reports pool statistics
func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	report, status := rt.checkDatabase(r.Context())
	report.Service = "database"
	writeHealth(w, status, report)
}

// ready reports 503 until every dependency answers
func (rt *Router) ready(w http.ResponseWriter, r *http.Request) {
	db, status := rt.checkDatabase(r.Context())
	db.Stats = nil
	writeHealth(w, status, healthReport{
		Status: db.Status,
		Checks: map[string]healthReport{"database": db},
	})
}

func (rt *Router) checkDatabase(ctx context.Context) (healthReport, int) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	stats, err := database.Ping(ctx, rt.db)
	if err != nil {
		rt.logger.Error("database health check failed", zap.Error(err))
		return healthReport{Status: "unhealthy", Error: err.Error()}, http.StatusServiceUnavailable
	}
	return healthReport{
		Status: "healthy",
		Stats: &poolStats{
			MaxOpenConnections: stats.MaxOpenConnections,
			OpenConnections:    stats.OpenConnections,
			InUse:              stats.InUse,
			Idle:               stats.Idle,
			WaitCount:          stats.WaitCount,
			WaitDurationMs:     stats.WaitDuration.Milliseconds(),
			MaxIdleClosed:      stats.MaxIdleClosed,
			MaxLifetimeClosed:  stats.MaxLifetimeClosed,
		},
	}, http.StatusOK
}

func writeHealth(w http.ResponseWriter, status int, report healthReport) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(report)
}
