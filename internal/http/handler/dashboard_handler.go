package handler

import (
	"net/http"
	"strconv"

	"github.com/contractgov/contract-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetMetrics godoc
// @Summary Get dashboard metrics
// @Description Returns KPI figures over the caller's contracts.
// @Description
// @Description **Sales:** `salesYear` and `salesMonth` sum contracts whose start date falls in the current year and month. `globalSales` sums all contracts.
// @Description
// @Description **Counts:** `activeCount`, `pendingCount` and `totalCount` by status.
// @Description
// @Description **Equipment:** contracted and installed elevators and platforms, with totals.
// @Description
// @Description **By state:** `byState` accumulates figures per state code. `chart` is ordered by contract count.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardMetrics
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.GetMetrics(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "get dashboard metrics")
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

// GetDeadlines godoc
// @Summary Get deadline alerts
// @Description Lists active and pending contracts whose execution deadline is past or within the window
// @Tags Dashboard
// @Produce json
// @Param days query int false "Window in days (defaults to the configured window)"
// @Success 200 {array} domain.DeadlineAlert
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /dashboard/deadlines [get]
func (h *DashboardHandler) GetDeadlines(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = parsed
	}

	alerts, err := h.dashboardService.GetDeadlines(r.Context(), days)
	if err != nil {
		handleServiceError(w, h.logger, err, "get deadline alerts")
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}
