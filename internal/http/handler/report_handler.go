package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/contractgov/contract-api/internal/service"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// ExportPDF godoc
// @Summary Export contracts report as PDF
// @Description Renders the executive summary, contract table and per-state statistics
// @Tags Reports
// @Produce application/pdf
// @Param archive query bool false "Store a copy in report storage"
// @Success 200 {file} file
// @Failure 401 {object} domain.APIError
// @Failure 503 {object} domain.APIError "Storage not configured"
// @Security BearerAuth
// @Router /reports/contracts.pdf [get]
func (h *ReportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, service.FormatPDF)
}

// ExportExcel godoc
// @Summary Export contracts report as an Excel workbook
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param archive query bool false "Store a copy in report storage"
// @Success 200 {file} file
// @Failure 401 {object} domain.APIError
// @Failure 503 {object} domain.APIError "Storage not configured"
// @Security BearerAuth
// @Router /reports/contracts.xlsx [get]
func (h *ReportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, service.FormatExcel)
}

func (h *ReportHandler) export(w http.ResponseWriter, r *http.Request, format string) {
	archive := false
	if raw := r.URL.Query().Get("archive"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "archive must be a boolean")
			return
		}
		archive = parsed
	}

	result, err := h.reportService.Generate(r.Context(), format, archive)
	if err != nil {
		handleServiceError(w, h.logger, err, "generate report")
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Content)))
	if result.StoragePath != "" {
		w.Header().Set("X-Report-Path", result.StoragePath)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}
