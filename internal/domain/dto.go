package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContactDTO is the wire form of a contract contact
type ContactDTO struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	ContractID *uuid.UUID `json:"contratoId,omitempty"`
	Name       string     `json:"nome"`
	Email      string     `json:"email"`
	Phone      string     `json:"telefone"`
}

// ContractDTO is the wire form of a contract and its contacts
type ContractDTO struct {
	ID                      *uuid.UUID     `json:"id,omitempty"`
	ClientAgency            string         `json:"clienteOrgao"`
	State                   string         `json:"estado"`
	GlobalValue             float64        `json:"valorGlobal"`
	Status                  ContractStatus `json:"status"`
	PlatformsQty            int            `json:"qtdePlataformas"`
	ElevatorsQty            int            `json:"qtdeElevadores"`
	InstalledPlatforms      int            `json:"instaladosPlataformas"`
	InstalledElevators      int            `json:"instaladosElevadores"`
	Scope                   string         `json:"objetoContrato"`
	StartDate               Date           `json:"dataInicio"`
	EndDate                 *Date          `json:"dataEncerramento,omitempty"`
	Deadline                *Date          `json:"prazoExecucao,omitempty"`
	InstallationCompletedAt *Date          `json:"dataConclusaoInstalacao,omitempty"`
	WarrantyDays            *int           `json:"garantiaDias,omitempty"`
	WarrantyExpiresAt       *Date          `json:"garantiaExpiraEm,omitempty"`
	Contacts                []ContactDTO   `json:"contatos"`
	CreatedAt               string         `json:"createdAt,omitempty"` // ISO 8601
	UpdatedAt               string         `json:"updatedAt,omitempty"` // ISO 8601
}

// Clone returns a copy that shares no pointers or slices with c
func (c ContractDTO) Clone() ContractDTO {
	c.ID = cloneUUID(c.ID)
	c.EndDate = cloneDate(c.EndDate)
	c.Deadline = cloneDate(c.Deadline)
	c.InstallationCompletedAt = cloneDate(c.InstallationCompletedAt)
	c.WarrantyDays = cloneInt(c.WarrantyDays)
	c.WarrantyExpiresAt = cloneDate(c.WarrantyExpiresAt)
	if c.Contacts != nil {
		contacts := make([]ContactDTO, len(c.Contacts))
		for i, ct := range c.Contacts {
			ct.ID = cloneUUID(ct.ID)
			ct.ContractID = cloneUUID(ct.ContractID)
			contacts[i] = ct
		}
		c.Contacts = contacts
	}
	return c
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// NewContractDraft returns the prefilled record used when creating a contract:
// pending status, start date today, one empty contact row
func NewContractDraft(now time.Time) ContractDTO {
	return ContractDTO{
		Status:    ContractStatusPending,
		StartDate: NewDate(now),
		Contacts:  []ContactDTO{{}},
	}
}

// ContactInput is a contact submitted with a contract save
type ContactInput struct {
	Name  string `json:"nome" validate:"max=200"`
	Email string `json:"email" validate:"omitempty,email,max=255"`
	Phone string `json:"telefone" validate:"max=50"`
}

// UpsertContractRequest is the payload for creating or replacing a contract.
// Installed counts are not checked against contracted counts.
type UpsertContractRequest struct {
	ID                      *uuid.UUID     `json:"id,omitempty"`
	ClientAgency            string         `json:"clienteOrgao" validate:"notblank,max=300"`
	State                   string         `json:"estado" validate:"required,len=2,uf"`
	GlobalValue             float64        `json:"valorGlobal" validate:"gte=0"`
	Status                  ContractStatus `json:"status" validate:"required,oneof=Ativo Pendente Encerrado Cancelado"`
	PlatformsQty            int            `json:"qtdePlataformas" validate:"gte=0"`
	ElevatorsQty            int            `json:"qtdeElevadores" validate:"gte=0"`
	InstalledPlatforms      int            `json:"instaladosPlataformas" validate:"gte=0"`
	InstalledElevators      int            `json:"instaladosElevadores" validate:"gte=0"`
	Scope                   string         `json:"objetoContrato"`
	StartDate               Date           `json:"dataInicio"`
	EndDate                 *Date          `json:"dataEncerramento,omitempty"`
	Deadline                *Date          `json:"prazoExecucao,omitempty"`
	InstallationCompletedAt *Date          `json:"dataConclusaoInstalacao,omitempty"`
	WarrantyDays            *int           `json:"garantiaDias,omitempty" validate:"omitempty,gte=0"`
	Contacts                []ContactInput `json:"contatos" validate:"dive"`
}

// RequestFromDTO converts a contract record into a save request that shares
// no pointers with it
func RequestFromDTO(c ContractDTO) UpsertContractRequest {
	req := UpsertContractRequest{
		ID:                      cloneUUID(c.ID),
		ClientAgency:            c.ClientAgency,
		State:                   c.State,
		GlobalValue:             c.GlobalValue,
		Status:                  c.Status,
		PlatformsQty:            c.PlatformsQty,
		ElevatorsQty:            c.ElevatorsQty,
		InstalledPlatforms:      c.InstalledPlatforms,
		InstalledElevators:      c.InstalledElevators,
		Scope:                   c.Scope,
		StartDate:               c.StartDate,
		EndDate:                 cloneDate(c.EndDate),
		Deadline:                cloneDate(c.Deadline),
		InstallationCompletedAt: cloneDate(c.InstallationCompletedAt),
		WarrantyDays:            cloneInt(c.WarrantyDays),
		Contacts:                make([]ContactInput, 0, len(c.Contacts)),
	}
	for _, ct := range c.Contacts {
		req.Contacts = append(req.Contacts, ContactInput{Name: ct.Name, Email: ct.Email, Phone: ct.Phone})
	}
	return req
}

// UpsertContractResponse carries the ID of the saved contract
type UpsertContractResponse struct {
	ID       uuid.UUID   `json:"id"`
	Contract ContractDTO `json:"contrato"`
}

// StateSummary accumulates contract figures for one state code
type StateSummary struct {
	State              string  `json:"estado"`
	Count              int     `json:"count"`
	Sales              float64 `json:"sales"`
	Elevators          int     `json:"elevadores"`
	Platforms          int     `json:"plataformas"`
	InstalledElevators int     `json:"instaladosElevadores"`
	InstalledPlatforms int     `json:"instaladosPlataformas"`
}

// StateChartPoint is one bar of the installed-vs-contracted chart
type StateChartPoint struct {
	State      string `json:"state"`
	Count      int    `json:"count"`
	Installed  int    `json:"instalados"`
	Contracted int    `json:"contratados"`
}

// DashboardMetrics contains the KPI figures derived from the contract list
type DashboardMetrics struct {
	SalesYear   float64 `json:"salesYear"`  // start date in current year
	SalesMonth  float64 `json:"salesMonth"` // start date in current month
	GlobalSales float64 `json:"globalSales"`

	ActiveCount  int `json:"activeCount"`
	PendingCount int `json:"pendingCount"`
	TotalCount   int `json:"totalCount"`

	TotalElevators     int `json:"totalElevadores"`
	TotalPlatforms     int `json:"totalPlataformas"`
	InstalledElevators int `json:"instaladosElevadores"`
	InstalledPlatforms int `json:"instaladosPlataformas"`
	TotalInstalled     int `json:"totalInstalados"`
	TotalContracted    int `json:"totalContratados"`

	ByState []StateSummary    `json:"byState"`
	Chart   []StateChartPoint `json:"chart"`
}

// DeadlineLevel is the display severity of a deadline alert
type DeadlineLevel string

const (
	DeadlineOverdue DeadlineLevel = "overdue"
	DeadlineDueSoon DeadlineLevel = "due_soon"
)

// DeadlineAlert is an open contract whose execution deadline is near or past
type DeadlineAlert struct {
	ContractID    *uuid.UUID     `json:"contratoId,omitempty"`
	ClientAgency  string         `json:"clienteOrgao"`
	State         string         `json:"estado"`
	Status        ContractStatus `json:"status"`
	Deadline      Date           `json:"prazoExecucao"`
	DaysRemaining int            `json:"diasRestantes"`
	Overdue       bool           `json:"overdue"`
	Level         DeadlineLevel  `json:"level"`
}

// SignUpRequest creates an account
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"max=200"`
}

// SignInRequest authenticates with email and password
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserDTO is the public view of a user
type UserDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// ProfileDTO is the public view of a profile
type ProfileDTO struct {
	UserID    uuid.UUID `json:"userId"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	RoleLabel string    `json:"roleLabel"`
}

// SessionDTO describes an authenticated session
type SessionDTO struct {
	ID          uuid.UUID   `json:"id"`
	AccessToken string      `json:"accessToken,omitempty"`
	TokenType   string      `json:"tokenType,omitempty"`
	ExpiresAt   string      `json:"expiresAt"` // ISO 8601
	User        UserDTO     `json:"user"`
	Profile     *ProfileDTO `json:"profile,omitempty"`
}

// MeResponse is returned by the current-user endpoint
type MeResponse struct {
	User    UserDTO     `json:"user"`
	Profile *ProfileDTO `json:"profile,omitempty"`
}
