package service

import (
	"context"
	"fmt"

	"github.com/contractgov/contract-api/internal/auth"
	"github.com/contractgov/contract-api/internal/dashboard"
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/mapper"
	"github.com/contractgov/contract-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContractService struct {
	contractRepo *repository.ContractRepository
	logger       *zap.Logger
}

func NewContractService(contractRepo *repository.ContractRepository, logger *zap.Logger) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		logger:       logger,
	}
}

// List returns the caller's contracts, newest first, optionally narrowed by a
// case-insensitive search on client agency or state
func (s *ContractService) List(ctx context.Context, search string) ([]domain.ContractDTO, error) {
	if _, ok := auth.FromContext(ctx); !ok {
		return nil, ErrUnauthorized
	}

	contracts, err := s.contractRepo.ListByOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return dashboard.FilterContracts(mapper.ToContractDTOs(contracts), search), nil
}

func (s *ContractService) Get(ctx context.Context, id uuid.UUID) (*domain.ContractDTO, error) {
	if _, ok := auth.FromContext(ctx); !ok {
		return nil, ErrUnauthorized
	}

	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	dto := mapper.ToContractDTO(contract)
	return &dto, nil
}

// Upsert creates the contract when the request has no ID, or overwrites the
// caller's contract otherwise. The contact list is replaced wholesale and
// contacts with a blank name are dropped.
func (s *ContractService) Upsert(ctx context.Context, req *domain.UpsertContractRequest) (*domain.UpsertContractResponse, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	contract := mapper.ToContractModel(req, userCtx.UserID)
	if !domain.IsValidState(contract.State) {
		return nil, fmt.Errorf("%w: unknown state %q", ErrInvalidInput, contract.State)
	}

	id, err := s.contractRepo.Upsert(ctx, contract)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to save contract",
			zap.String("user_id", userCtx.UserID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to save contract: %w", err)
	}

	s.logger.Info("contract saved",
		zap.String("contract_id", id.String()),
		zap.String("user_id", userCtx.UserID.String()),
		zap.Bool("created", req.ID == nil),
		zap.Int("contacts", len(contract.Contacts)),
	)

	saved, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.UpsertContractResponse{ID: id, Contract: *saved}, nil
}

// Delete removes the caller's contract and its contacts
func (s *ContractService) Delete(ctx context.Context, id uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	if err := s.contractRepo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		s.logger.Error("failed to delete contract",
			zap.String("contract_id", id.String()),
			zap.String("user_id", userCtx.UserID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete contract: %w", err)
	}

	s.logger.Info("contract deleted",
		zap.String("contract_id", id.String()),
		zap.String("user_id", userCtx.UserID.String()),
	)
	return nil
}
