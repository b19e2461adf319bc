package mapper

import (
	"strings"
	"time"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/google/uuid"
)

const timestampLayout = "2006-01-02T15:04:05Z"

// ToContractDTO converts Contract to ContractDTO
func ToContractDTO(contract *domain.Contract) domain.ContractDTO {
	id := contract.ID
	dto := domain.ContractDTO{
		ID:                      &id,
		ClientAgency:            contract.ClientAgency,
		State:                   contract.State,
		GlobalValue:             contract.GlobalValue,
		Status:                  contract.Status,
		PlatformsQty:            contract.PlatformsQty,
		ElevatorsQty:            contract.ElevatorsQty,
		InstalledPlatforms:      contract.InstalledPlatforms,
		InstalledElevators:      contract.InstalledElevators,
		Scope:                   contract.Scope,
		StartDate:               contract.StartDate,
		EndDate:                 contract.EndDate,
		Deadline:                contract.Deadline,
		InstallationCompletedAt: contract.InstallationCompletedAt,
		WarrantyDays:            contract.WarrantyDays,
		WarrantyExpiresAt:       contract.WarrantyExpiresAt(),
		Contacts:                make([]domain.ContactDTO, len(contract.Contacts)),
		CreatedAt:               formatTimestamp(contract.CreatedAt),
		UpdatedAt:               formatTimestamp(contract.UpdatedAt),
	}
	for i := range contract.Contacts {
		dto.Contacts[i] = ToContactDTO(&contract.Contacts[i])
	}
	return dto
}

// ToContractDTOs converts a slice of contracts
func ToContractDTOs(contracts []domain.Contract) []domain.ContractDTO {
	dtos := make([]domain.ContractDTO, len(contracts))
	for i := range contracts {
		dtos[i] = ToContractDTO(&contracts[i])
	}
	return dtos
}

// ToContactDTO converts Contact to ContactDTO
func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	id := contact.ID
	contractID := contact.ContractID
	return domain.ContactDTO{
		ID:         &id,
		ContractID: &contractID,
		Name:       contact.Name,
		Email:      contact.Email,
		Phone:      contact.Phone,
	}
}

// ToContractModel builds a contract model from a save request. Contacts with a
// blank name are dropped and the rest keep their submitted order.
func ToContractModel(req *domain.UpsertContractRequest, ownerID uuid.UUID) *domain.Contract {
	contract := &domain.Contract{
		UserID:                  ownerID,
		ClientAgency:            strings.TrimSpace(req.ClientAgency),
		State:                   strings.ToUpper(strings.TrimSpace(req.State)),
		GlobalValue:             req.GlobalValue,
		Status:                  req.Status,
		PlatformsQty:            req.PlatformsQty,
		ElevatorsQty:            req.ElevatorsQty,
		InstalledPlatforms:      req.InstalledPlatforms,
		InstalledElevators:      req.InstalledElevators,
		Scope:                   req.Scope,
		StartDate:               req.StartDate,
		EndDate:                 nonZero(req.EndDate),
		Deadline:                nonZero(req.Deadline),
		InstallationCompletedAt: nonZero(req.InstallationCompletedAt),
		WarrantyDays:            req.WarrantyDays,
	}
	if req.ID != nil {
		contract.ID = *req.ID
	}
	contract.Contacts = ToContactModels(req.Contacts)
	return contract
}

// ToContactModels keeps only contacts with a non-blank name
func ToContactModels(inputs []domain.ContactInput) []domain.Contact {
	contacts := make([]domain.Contact, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}
		contacts = append(contacts, domain.Contact{
			Name:     name,
			Email:    strings.TrimSpace(in.Email),
			Phone:    strings.TrimSpace(in.Phone),
			Position: len(contacts),
		})
	}
	return contacts
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

// ToProfileDTO converts Profile to ProfileDTO
func ToProfileDTO(profile *domain.Profile) *domain.ProfileDTO {
	if profile == nil {
		return nil
	}
	return &domain.ProfileDTO{
		UserID:    profile.UserID,
		FullName:  profile.FullName,
		Role:      profile.Role,
		RoleLabel: profile.Role.Label(),
	}
}

// ToSessionDTO converts Session to SessionDTO
func ToSessionDTO(session *domain.Session, user *domain.User, profile *domain.Profile, token string) domain.SessionDTO {
	dto := domain.SessionDTO{
		ID:        session.ID,
		ExpiresAt: formatTimestamp(session.ExpiresAt),
		User:      ToUserDTO(user),
		Profile:   ToProfileDTO(profile),
	}
	if token != "" {
		dto.AccessToken = token
		dto.TokenType = "Bearer"
	}
	return dto
}

func nonZero(d *domain.Date) *domain.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}
