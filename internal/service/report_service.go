package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/contractgov/contract-api/internal/auth"
	"github.com/contractgov/contract-api/internal/config"
	"github.com/contractgov/contract-api/internal/dashboard"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/report"
	"github.com/contractgov/contract-api/internal/storage"
	"go.uber.org/zap"
)

// Report formats
const (
	FormatPDF   = "pdf"
	FormatExcel = "xlsx"
)

const (
	contentTypePDF   = "application/pdf"
	contentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Renderer turns the dataset into a document
type Renderer interface {
	Generate(contracts []domain.ContractDTO, metrics domain.DashboardMetrics, now time.Time) ([]byte, error)
}

// GenerateReportResult is a rendered report ready to download
type GenerateReportResult struct {
	FileName    string
	ContentType string
	Content     []byte
	// StoragePath is set when a copy was archived
	StoragePath string
}

type ReportService struct {
	contracts *ContractService
	pdf       Renderer
	excel     Renderer
	storage   storage.Storage
	cfg       *config.Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService creates the report service. store may be nil when archiving is disabled.
func NewReportService(contracts *ContractService, store storage.Storage, cfg *config.Config, logger *zap.Logger) *ReportService {
	return &ReportService{
		contracts: contracts,
		pdf:       report.NewPDFGenerator(),
		excel:     report.NewExcelGenerator(),
		storage:   store,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate renders the caller's contracts in the given format. When archive is
// true, or archiving is enabled in configuration, a copy is uploaded to storage.
func (s *ReportService) Generate(ctx context.Context, format string, archive bool) (*GenerateReportResult, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	var (
		renderer    Renderer
		contentType string
	)
	switch format {
	case FormatPDF:
		renderer, contentType = s.pdf, contentTypePDF
	case FormatExcel:
		renderer, contentType = s.excel, contentTypeExcel
	default:
		return nil, fmt.Errorf("%w: unsupported report format %q", ErrInvalidInput, format)
	}

	contracts, err := s.contracts.List(ctx, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	metrics := dashboard.Aggregate(contracts, now)
	content, err := renderer.Generate(contracts, metrics, now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	result := &GenerateReportResult{
		FileName:    report.FileName(now, format),
		ContentType: contentType,
		Content:     content,
	}

	if archive || s.cfg.Reports.ArchiveEnabled {
		if s.storage == nil {
			return nil, ErrStorageUnavailable
		}
		key := storage.ReportKey(s.cfg.Storage.ReportPrefix+"/"+userCtx.UserID.String(), result.FileName, now)
		path, size, err := s.storage.Upload(ctx, key, contentType, bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("failed to archive report: %w", err)
		}
		result.StoragePath = path
		s.logger.Info("report archived",
			zap.String("user_id", userCtx.UserID.String()),
			zap.String("path", path),
			zap.Int64("size", size),
		)
	}

	s.logger.Info("report generated",
		zap.String("user_id", userCtx.UserID.String()),
		zap.String("format", format),
		zap.Int("contracts", len(contracts)),
	)
	return result, nil
}
