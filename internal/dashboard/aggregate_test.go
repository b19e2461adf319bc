package dashboard_test

import (
	"testing"
	"time"

	"github.com/contractgov/contract-api/internal/dashboard"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestAggregate_StateExample(t *testing.T) {
	contracts := []domain.ContractDTO{
		{State: "SP", ElevatorsQty: 10, InstalledElevators: 4, Status: domain.ContractStatusActive},
		{State: "SP", ElevatorsQty: 5, InstalledElevators: 5, Status: domain.ContractStatusPending},
	}

	m := dashboard.Aggregate(contracts, time.Now())

	require.Len(t, m.Chart, 1)
	assert.Equal(t, domain.StateChartPoint{State: "SP", Count: 2, Installed: 9, Contracted: 15}, m.Chart[0])
	assert.Equal(t, 1, m.ActiveCount)
	assert.Equal(t, 1, m.PendingCount)
	assert.Equal(t, 2, m.TotalCount)
}

func TestAggregate_Sales(t *testing.T) {
	now := time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC)
	contracts := []domain.ContractDTO{
		{State: "SP", GlobalValue: 100, StartDate: date(t, "2024-05-02")},
		{State: "RJ", GlobalValue: 200, StartDate: date(t, "2024-01-15")},
		{State: "MG", GlobalValue: 400, StartDate: date(t, "2023-05-10")},
		{State: "BA", GlobalValue: 800},
	}

	m := dashboard.Aggregate(contracts, now)

	assert.InDelta(t, 100, m.SalesMonth, 0.001)
	assert.InDelta(t, 300, m.SalesYear, 0.001)
	assert.InDelta(t, 1500, m.GlobalSales, 0.001)
}

func TestAggregate_StateTotalsMatchGlobal(t *testing.T) {
	contracts := []domain.ContractDTO{
		{State: "SP", ElevatorsQty: 3, PlatformsQty: 2, InstalledElevators: 1, InstalledPlatforms: 2},
		{State: "RJ", ElevatorsQty: 7, PlatformsQty: 0, InstalledElevators: 7},
		{State: "SP", ElevatorsQty: 1, PlatformsQty: 9, InstalledPlatforms: 4},
		{State: "DF", ElevatorsQty: 0, PlatformsQty: 1, InstalledElevators: 2}, // installed above contracted is kept
	}

	m := dashboard.Aggregate(contracts, time.Now())

	var installedElevators, installedPlatforms, installed int
	for _, s := range m.ByState {
		installedElevators += s.InstalledElevators
		installedPlatforms += s.InstalledPlatforms
	}
	for _, p := range m.Chart {
		installed += p.Installed
	}

	assert.Equal(t, m.InstalledElevators, installedElevators)
	assert.Equal(t, m.InstalledPlatforms, installedPlatforms)
	assert.Equal(t, m.TotalInstalled, installed)
	assert.Equal(t, 16, m.TotalInstalled)
	assert.Equal(t, 23, m.TotalContracted)
}

func TestAggregate_ChartSortedStable(t *testing.T) {
	contracts := []domain.ContractDTO{
		{State: "RJ"},
		{State: "SP"},
		{State: "MG"},
		{State: "SP"},
		{State: "BA"},
		{State: "MG"},
		{State: "SP"},
	}

	m := dashboard.Aggregate(contracts, time.Now())

	states := make([]string, len(m.Chart))
	for i, p := range m.Chart {
		states[i] = p.State
	}
	assert.Equal(t, []string{"SP", "MG", "RJ", "BA"}, states)
	for i := 1; i < len(m.Chart); i++ {
		assert.GreaterOrEqual(t, m.Chart[i-1].Count, m.Chart[i].Count)
	}
}

func TestAggregate_Empty(t *testing.T) {
	m := dashboard.Aggregate(nil, time.Now())

	assert.Zero(t, m.TotalCount)
	assert.NotNil(t, m.Chart)
	assert.NotNil(t, m.ByState)
	assert.Empty(t, m.Chart)
}

func TestFilterContracts(t *testing.T) {
	contracts := []domain.ContractDTO{
		{ClientAgency: "Prefeitura de Campinas", State: "SP"},
		{ClientAgency: "Tribunal de Justiça", State: "RJ"},
		{ClientAgency: "Secretaria de Saúde", State: "RS"},
	}

	tests := []struct {
		name string
		term string
		want int
	}{
		{name: "empty term returns all", term: "", want: 3},
		{name: "matches organization case-insensitively", term: "prefeitura", want: 1},
		{name: "matches state code", term: "rj", want: 1},
		{name: "matches across both fields", term: "s", want: 3},
		{name: "no match", term: "xyz", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, dashboard.FilterContracts(contracts, tt.term), tt.want)
		})
	}
}
