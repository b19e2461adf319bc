package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/service"
	"github.com/google/uuid"
)

// List fetches the caller's contracts, newest first
func (c *Client) List(ctx context.Context, search string) ([]domain.ContractDTO, error) {
	path := "/contracts"
	if search != "" {
		path += "?" + url.Values{"search": {search}}.Encode()
	}
	var contracts []domain.ContractDTO
	if err := c.do(ctx, http.MethodGet, path, true, nil, &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

func (c *Client) Get(ctx context.Context, id uuid.UUID) (*domain.ContractDTO, error) {
	var contract domain.ContractDTO
	if err := c.do(ctx, http.MethodGet, "/contracts/"+id.String(), true, nil, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// Draft returns the prefilled record for a new contract
func (c *Client) Draft(ctx context.Context) (*domain.ContractDTO, error) {
	var draft domain.ContractDTO
	if err := c.do(ctx, http.MethodGet, "/contracts/draft", true, nil, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Upsert creates the contract when req.ID is nil and replaces it otherwise
func (c *Client) Upsert(ctx context.Context, req *domain.UpsertContractRequest) (*domain.UpsertContractResponse, error) {
	method, path := http.MethodPost, "/contracts"
	if req.ID != nil {
		method, path = http.MethodPut, "/contracts/"+req.ID.String()
	}
	var resp domain.UpsertContractResponse
	if err := c.do(ctx, method, path, true, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.do(ctx, http.MethodDelete, "/contracts/"+id.String(), true, nil, nil)
	return err
}

func (c *Client) Dashboard(ctx context.Context) (*domain.DashboardMetrics, error) {
	var metrics domain.DashboardMetrics
	if err := c.do(ctx, http.MethodGet, "/dashboard", true, nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// Deadlines lists open contracts due within days; zero uses the server window
func (c *Client) Deadlines(ctx context.Context, days int) ([]domain.DeadlineAlert, error) {
	path := "/dashboard/deadlines"
	if days > 0 {
		path += "?days=" + strconv.Itoa(days)
	}
	var alerts []domain.DeadlineAlert
	if err := c.do(ctx, http.MethodGet, path, true, nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// Report is a downloaded export
type Report struct {
	FileName    string
	ContentType string
	Content     []byte
	StoragePath string
}

// Export downloads the contract report; format is "pdf" or "xlsx"
func (c *Client) Export(ctx context.Context, format string, archive bool) (*Report, error) {
	if format != service.FormatPDF && format != service.FormatExcel {
		return nil, errors.New("format must be pdf or xlsx")
	}
	path := "/reports/contracts." + format
	if archive {
		path += "?archive=true"
	}

	resp, err := c.send(ctx, http.MethodGet, path, true, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	report := &Report{
		FileName:    "contracts." + format,
		ContentType: resp.Header.Get("Content-Type"),
		Content:     content,
		StoragePath: resp.Header.Get("X-Report-Path"),
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		report.FileName = params["filename"]
	}
	return report, nil
}
