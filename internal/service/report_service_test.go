package service_test

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/contractgov/contract-api/internal/config"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/service"
	"github.com/contractgov/contract-api/internal/storage"
	"github.com/contractgov/contract-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboardService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	contracts := newContractService(db)
	svc := service.NewDashboardService(contracts, 0, zap.NewNop())
	user := testutil.CreateTestUser(t, db, testutil.UniqueEmail("dash"))
	ctx := testutil.UserContext(user)

	soon := domain.NewDate(time.Now()).AddDays(5)
	far := domain.NewDate(time.Now()).AddDays(40)

	first := validRequest("Prefeitura de Santos", "SP")
	first.Deadline = &soon
	first.InstalledElevators = 2
	_, err := contracts.Upsert(ctx, first)
	require.NoError(t, err)

	second := validRequest("Prefeitura de Sorocaba", "SP")
	second.Deadline = &far
	second.Status = domain.ContractStatusPending
	_, err = contracts.Upsert(ctx, second)
	require.NoError(t, err)

	metrics, err := svc.GetMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, metrics.TotalCount)
	assert.Equal(t, 1, metrics.ActiveCount)
	assert.Equal(t, 1, metrics.PendingCount)
	assert.Equal(t, 500000.0, metrics.GlobalSales)
	require.Len(t, metrics.Chart, 1)
	assert.Equal(t, "SP", metrics.Chart[0].State)

	alerts, err := svc.GetDeadlines(ctx, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Prefeitura de Santos", alerts[0].ClientAgency)
	assert.Equal(t, 5, alerts[0].DaysRemaining)

	wide, err := svc.GetDeadlines(ctx, 60)
	require.NoError(t, err)
	assert.Len(t, wide, 2)

	_, err = svc.GetMetrics(testutil.AnonymousContext())
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestReportService_Generate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	contracts := newContractService(db)
	user := testutil.CreateTestUser(t, db, testutil.UniqueEmail("report"))
	ctx := testutil.UserContext(user)

	_, err := contracts.Upsert(ctx, validRequest("Prefeitura de Curitiba", "PR"))
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	cfg := &config.Config{Storage: config.StorageConfig{ReportPrefix: "reports"}}
	svc := service.NewReportService(contracts, store, cfg, zap.NewNop())

	t.Run("pdf", func(t *testing.T) {
		res, err := svc.Generate(ctx, service.FormatPDF, false)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", res.ContentType)
		assert.True(t, strings.HasPrefix(res.FileName, "Relatorio_Contratos_"))
		assert.True(t, strings.HasSuffix(res.FileName, ".pdf"))
		assert.True(t, bytes.HasPrefix(res.Content, []byte("%PDF-")))
		assert.Empty(t, res.StoragePath)
	})

	t.Run("xlsx archived", func(t *testing.T) {
		res, err := svc.Generate(ctx, service.FormatExcel, true)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(res.FileName, ".xlsx"))
		require.NotEmpty(t, res.StoragePath)
		assert.True(t, strings.HasPrefix(res.StoragePath, "reports/"+user.ID.String()+"/"), res.StoragePath)

		rc, err := store.Download(ctx, res.StoragePath)
		require.NoError(t, err)
		defer rc.Close()
		archived, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, res.Content, archived)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := svc.Generate(ctx, "docx", false)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("archive without storage", func(t *testing.T) {
		noStore := service.NewReportService(contracts, nil, cfg, zap.NewNop())
		_, err := noStore.Generate(ctx, service.FormatPDF, true)
		assert.ErrorIs(t, err, service.ErrStorageUnavailable)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.Generate(testutil.AnonymousContext(), service.FormatPDF, false)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}
