// Package dashboard derives KPI figures, the per-state chart series and
// deadline alerts from an in-memory contract list. All functions are pure;
// callers recompute after every change to the list.
package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/contractgov/contract-api/internal/domain"
)

// DefaultDeadlineWindowDays is how far ahead a deadline counts as approaching
const DefaultDeadlineWindowDays = 15

// Aggregate computes the dashboard metrics for contracts relative to now.
// Year and month sales use the contract start date.
func Aggregate(contracts []domain.ContractDTO, now time.Time) domain.DashboardMetrics {
	m := domain.DashboardMetrics{
		ByState: []domain.StateSummary{},
		Chart:   []domain.StateChartPoint{},
	}

	year, month, _ := now.Date()
	index := make(map[string]int)

	for _, c := range contracts {
		m.GlobalSales += c.GlobalValue
		if !c.StartDate.IsZero() && c.StartDate.Year() == year {
			m.SalesYear += c.GlobalValue
			if c.StartDate.Month() == month {
				m.SalesMonth += c.GlobalValue
			}
		}

		switch c.Status {
		case domain.ContractStatusActive:
			m.ActiveCount++
		case domain.ContractStatusPending:
			m.PendingCount++
		}

		m.TotalElevators += c.ElevatorsQty
		m.TotalPlatforms += c.PlatformsQty
		m.InstalledElevators += c.InstalledElevators
		m.InstalledPlatforms += c.InstalledPlatforms

		i, ok := index[c.State]
		if !ok {
			i = len(m.ByState)
			index[c.State] = i
			m.ByState = append(m.ByState, domain.StateSummary{State: c.State})
		}
		s := &m.ByState[i]
		s.Count++
		s.Sales += c.GlobalValue
		s.Elevators += c.ElevatorsQty
		s.Platforms += c.PlatformsQty
		s.InstalledElevators += c.InstalledElevators
		s.InstalledPlatforms += c.InstalledPlatforms
	}

	m.TotalCount = len(contracts)
	m.TotalInstalled = m.InstalledElevators + m.InstalledPlatforms
	m.TotalContracted = m.TotalElevators + m.TotalPlatforms
	m.Chart = ChartSeries(m.ByState)

	return m
}

// ChartSeries turns per-state summaries into chart points sorted by
// descending contract count. Ties keep the order of the input.
func ChartSeries(states []domain.StateSummary) []domain.StateChartPoint {
	points := make([]domain.StateChartPoint, len(states))
	for i, s := range states {
		points[i] = domain.StateChartPoint{
			State:      s.State,
			Count:      s.Count,
			Installed:  s.InstalledElevators + s.InstalledPlatforms,
			Contracted: s.Elevators + s.Platforms,
		}
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Count > points[j].Count
	})
	return points
}

// FilterContracts returns the contracts whose organization name or state code
// contains term, ignoring case. An empty term returns the input unchanged.
func FilterContracts(contracts []domain.ContractDTO, term string) []domain.ContractDTO {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return contracts
	}
	filtered := make([]domain.ContractDTO, 0, len(contracts))
	for _, c := range contracts {
		if strings.Contains(strings.ToLower(c.ClientAgency), term) ||
			strings.Contains(strings.ToLower(c.State), term) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
