package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel contains common fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the caller did not provide one
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ContractStatus represents the lifecycle status of a contract
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "Ativo"
	ContractStatusPending   ContractStatus = "Pendente"
	ContractStatusClosed    ContractStatus = "Encerrado"
	ContractStatusCancelled ContractStatus = "Cancelado"
)

// IsValid checks if the status is one of the fixed values
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusActive, ContractStatusPending, ContractStatusClosed, ContractStatusCancelled:
		return true
	}
	return false
}

// IsOpen reports whether the contract still has work outstanding
func (s ContractStatus) IsOpen() bool {
	return s == ContractStatusActive || s == ContractStatusPending
}

// ContractStatuses lists the statuses in display order
var ContractStatuses = []ContractStatus{
	ContractStatusActive,
	ContractStatusPending,
	ContractStatusClosed,
	ContractStatusCancelled,
}

// BrazilianStates are the federative unit codes accepted for a contract
var BrazilianStates = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG", "PA",
	"PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

// IsValidState checks if code is a known UF
func IsValidState(code string) bool {
	for _, s := range BrazilianStates {
		if s == code {
			return true
		}
	}
	return false
}

// Contract is an equipment-installation contract with a government body
type Contract struct {
	BaseModel
	UserID                  uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id"`
	ClientAgency            string         `gorm:"type:varchar(300);not null;column:cliente_orgao"`
	State                   string         `gorm:"type:varchar(2);not null;index;column:estado"`
	GlobalValue             float64        `gorm:"type:numeric(15,2);not null;default:0;column:valor_global"`
	Status                  ContractStatus `gorm:"type:varchar(20);not null;default:'Pendente';index"`
	PlatformsQty            int            `gorm:"not null;default:0;column:qtde_plataformas"`
	ElevatorsQty            int            `gorm:"not null;default:0;column:qtde_elevadores"`
	InstalledPlatforms      int            `gorm:"not null;default:0;column:instalados_plataformas"`
	InstalledElevators      int            `gorm:"not null;default:0;column:instalados_elevadores"`
	Scope                   string         `gorm:"type:text;column:objeto_contrato"`
	StartDate               Date           `gorm:"column:data_inicio"`
	EndDate                 *Date          `gorm:"column:data_encerramento"`
	Deadline                *Date          `gorm:"column:prazo_execucao;index"`
	InstallationCompletedAt *Date          `gorm:"column:data_conclusao_instalacao"`
	WarrantyDays            *int           `gorm:"column:garantia_dias"`
	Contacts                []Contact      `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE"`
}

func (Contract) TableName() string {
	return "contratos"
}

// WarrantyExpiresAt returns the warranty end date when both the completion
// date and the warranty length are known
func (c *Contract) WarrantyExpiresAt() *Date {
	if c.InstallationCompletedAt == nil || c.WarrantyDays == nil {
		return nil
	}
	d := c.InstallationCompletedAt.AddDays(*c.WarrantyDays)
	return &d
}

// Contact is a person linked to a contract. Contacts have no lifecycle of their own.
type Contact struct {
	BaseModel
	ContractID uuid.UUID `gorm:"type:uuid;not null;index;column:contrato_id"`
	Name       string    `gorm:"type:varchar(200);not null;column:nome"`
	Email      string    `gorm:"type:varchar(255)"`
	Phone      string    `gorm:"type:varchar(50);column:telefone"`
	Position   int       `gorm:"not null;default:0"`
}

func (Contact) TableName() string {
	return "contatos"
}

// Role is the profile role used to vary labels
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Label returns the display label for the role
func (r Role) Label() string {
	if r == RoleAdmin {
		return "Administrador"
	}
	return "Usuário"
}

// User is an account that owns contracts
type User struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(200)"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	LastLoginAt  *time.Time
}

// Profile is the role record of a user
type Profile struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName  string    `gorm:"type:varchar(200)"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// Session is a sign-in issued to a user. Tokens reference it by ID so that
// sign-out can revoke them.
type Session struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	RevokedAt *time.Time
	UserAgent string `gorm:"type:varchar(500)"`
}

// IsActive reports whether the session can still authenticate requests
func (s *Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
