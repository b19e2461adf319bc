package service

import (
	"context"
	"time"

	"github.com/contractgov/contract-api/internal/dashboard"
	"github.com/contractgov/contract-api/internal/domain"
	"go.uber.org/zap"
)

type DashboardService struct {
	contracts  *ContractService
	windowDays int
	logger     *zap.Logger
	now        func() time.Time
}

func NewDashboardService(contracts *ContractService, windowDays int, logger *zap.Logger) *DashboardService {
	if windowDays <= 0 {
		windowDays = dashboard.DefaultDeadlineWindowDays
	}
	return &DashboardService{
		contracts:  contracts,
		windowDays: windowDays,
		logger:     logger,
		now:        time.Now,
	}
}

// GetMetrics computes the KPI figures and per-state chart over the caller's contracts
func (s *DashboardService) GetMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	contracts, err := s.contracts.List(ctx, "")
	if err != nil {
		return nil, err
	}
	metrics := dashboard.Aggregate(contracts, s.now())
	return &metrics, nil
}

// GetDeadlines lists open contracts whose deadline falls within days from
// today, or is already past. A non-positive days uses the configured window.
func (s *DashboardService) GetDeadlines(ctx context.Context, days int) ([]domain.DeadlineAlert, error) {
	contracts, err := s.contracts.List(ctx, "")
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = s.windowDays
	}
	return dashboard.ApproachingDeadlines(contracts, s.now(), days), nil
}
