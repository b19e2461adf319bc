package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContractHandler struct {
	contractService *service.ContractService
	logger          *zap.Logger
}

func NewContractHandler(contractService *service.ContractService, logger *zap.Logger) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		logger:          logger,
	}
}

// List godoc
// @Summary List contracts
// @Description Lists the caller's contracts, newest first. The search text matches agency or state code.
// @Tags Contracts
// @Produce json
// @Param search query string false "Case-insensitive filter on agency or state"
// @Success 200 {array} domain.ContractDTO
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /contracts [get]
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.contractService.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		handleServiceError(w, h.logger, err, "list contracts")
		return
	}
	respondJSON(w, http.StatusOK, contracts)
}

// GetByID godoc
// @Summary Get contract by ID
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Success 200 {object} domain.ContractDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /contracts/{id} [get]
func (h *ContractHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseContractID(w, r)
	if !ok {
		return
	}

	contract, err := h.contractService.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "get contract")
		return
	}
	respondJSON(w, http.StatusOK, contract)
}

// Create godoc
// @Summary Create contract
// @Description Creates a contract with its contacts. Contacts with a blank name are dropped.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body domain.UpsertContractRequest true "Contract data"
// @Success 201 {object} domain.UpsertContractResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /contracts [post]
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.UpsertContractRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ID = nil
	h.save(w, r, &req, http.StatusCreated)
}

// Update godoc
// @Summary Replace contract
// @Description Replaces every field of a contract. The contact set is replaced wholesale.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Param request body domain.UpsertContractRequest true "Contract data"
// @Success 200 {object} domain.UpsertContractResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /contracts/{id} [put]
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseContractID(w, r)
	if !ok {
		return
	}

	var req domain.UpsertContractRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ID = &id
	h.save(w, r, &req, http.StatusOK)
}

func (h *ContractHandler) save(w http.ResponseWriter, r *http.Request, req *domain.UpsertContractRequest, status int) {
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.contractService.Upsert(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.logger, err, "save contract")
		return
	}

	if status == http.StatusCreated {
		w.Header().Set("Location", "/api/v1/contracts/"+resp.ID.String())
	}
	respondJSON(w, status, resp)
}

// Delete godoc
// @Summary Delete contract
// @Description Deletes a contract and its contacts
// @Tags Contracts
// @Param id path string true "Contract ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /contracts/{id} [delete]
func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseContractID(w, r)
	if !ok {
		return
	}

	if err := h.contractService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "delete contract")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Draft godoc
// @Summary Get a new contract draft
// @Description Returns the prefilled record for the create form: pending status, start date today, one empty contact
// @Tags Contracts
// @Produce json
// @Success 200 {object} domain.ContractDTO
// @Security BearerAuth
// @Router /contracts/draft [get]
func (h *ContractHandler) Draft(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.NewContractDraft(time.Now()))
}

func parseContractID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contract ID format")
		return uuid.Nil, false
	}
	return id, true
}
