package repository

import (
	"context"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContractRepository struct {
	db       *gorm.DB
	contacts *ContactRepository
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db, contacts: NewContactRepository()}
}

func preloadContacts(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// ListByOwner returns the caller's contracts with their contacts, newest first
func (r *ContractRepository) ListByOwner(ctx context.Context) ([]domain.Contract, error) {
	var contracts []domain.Contract
	query := r.db.WithContext(ctx).Model(&domain.Contract{}).Preload("Contacts", preloadContacts)
	query = ApplyOwnerFilter(ctx, query)
	err := query.Order("created_at DESC").Find(&contracts).Error
	return contracts, err
}

// GetByID returns one of the caller's contracts with its contacts
func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	var contract domain.Contract
	query := r.db.WithContext(ctx).Preload("Contacts", preloadContacts)
	query = ApplyOwnerFilter(ctx, query)
	if err := query.First(&contract, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

// Upsert inserts the contract when it has no ID, or replaces the caller's
// existing row otherwise, and swaps its contact set for contract.Contacts.
// All writes commit or roll back together. Updating an ID the caller does not
// own returns gorm.ErrRecordNotFound.
func (r *ContractRepository) Upsert(ctx context.Context, contract *domain.Contract) (uuid.UUID, error) {
	contacts := contract.Contacts

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if contract.ID == uuid.Nil {
			if err := tx.Omit(clause.Associations).Create(contract).Error; err != nil {
				return err
			}
		} else {
			var existing domain.Contract
			if err := ApplyOwnerFilter(ctx, tx.Model(&domain.Contract{})).
				First(&existing, "id = ?", contract.ID).Error; err != nil {
				return err
			}
			contract.UserID = existing.UserID
			contract.CreatedAt = existing.CreatedAt
			if err := tx.Omit(clause.Associations).Save(contract).Error; err != nil {
				return err
			}
		}

		return r.contacts.ReplaceForContract(tx, contract.ID, contacts)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return contract.ID, nil
}

// Delete removes one of the caller's contracts and its contacts
func (r *ContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Contract
		if err := ApplyOwnerFilter(ctx, tx.Model(&domain.Contract{})).
			Select("id").First(&existing, "id = ?", id).Error; err != nil {
			return err
		}
		if err := r.contacts.DeleteForContract(tx, id); err != nil {
			return err
		}
		return tx.Delete(&domain.Contract{}, "id = ?", id).Error
	})
}

// ListOpenWithDeadline returns open contracts of every owner whose execution
// deadline is on or before until. It is meant for background jobs that run
// without a user.
func (r *ContractRepository) ListOpenWithDeadline(ctx context.Context, until domain.Date) ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := r.db.WithContext(ctx).
		Where("status IN ?", []domain.ContractStatus{domain.ContractStatusActive, domain.ContractStatusPending}).
		Where("prazo_execucao IS NOT NULL AND prazo_execucao <= ?", until).
		Order("prazo_execucao ASC").
		Find(&contracts).Error
	return contracts, err
}
