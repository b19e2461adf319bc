package repository

import (
	"github.com/contractgov/contract-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactRepository writes contact rows inside the caller's contract transaction
type ContactRepository struct{}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{}
}

// ReplaceForContract deletes every contact of the contract and inserts the given
// set. Pass the transaction handle so the swap commits with the contract row.
func (r *ContactRepository) ReplaceForContract(tx *gorm.DB, contractID uuid.UUID, contacts []domain.Contact) error {
	if err := r.DeleteForContract(tx, contractID); err != nil {
		return err
	}
	if len(contacts) == 0 {
		return nil
	}

	rows := make([]domain.Contact, len(contacts))
	for i, c := range contacts {
		rows[i] = domain.Contact{
			ContractID: contractID,
			Name:       c.Name,
			Email:      c.Email,
			Phone:      c.Phone,
			Position:   i,
		}
	}
	return tx.Create(&rows).Error
}

// DeleteForContract removes all contacts of a contract
func (r *ContactRepository) DeleteForContract(tx *gorm.DB, contractID uuid.UUID) error {
	return tx.Where("contrato_id = ?", contractID).Delete(&domain.Contact{}).Error
}
