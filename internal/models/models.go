// Package models contains the persistent entities of the sales pipeline:
// reference data (roles, document types, business types, project statuses),
// users, clients, projects and the negotiation records attached to them.
package models

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// USERS & REFERENCE DATA
// =============================================================================

// Role represents a user role (ADMIN, VENDEDOR, ...)
type Role struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Code        string    `json:"code" gorm:"uniqueIndex;not null;size:50"`
	Name        string    `json:"name" gorm:"not null;size:100"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User represents a system user. Sellers are users whose role is VENDEDOR.
type User struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name" gorm:"not null;size:255"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password  string     `json:"-" gorm:"not null;size:255"`
	RoleID    *uuid.UUID `json:"role_id" gorm:"type:uuid;index"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations
	Role *Role `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

// DocumentType represents an identity document type (CC, NIT, ...)
type DocumentType struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Code        string    `json:"code" gorm:"uniqueIndex;not null;size:20"`
	Name        string    `json:"name" gorm:"not null;size:100"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Client represents a customer of the pipeline
type Client struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string    `json:"name" gorm:"not null;size:255"`
	DocumentTypeID uuid.UUID `json:"document_type_id" gorm:"type:uuid;not null;index"`
	DocumentNumber string    `json:"document_number" gorm:"not null;size:50"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	DocumentType *DocumentType `json:"document_type,omitempty" gorm:"foreignKey:DocumentTypeID"`
}

// BusinessType represents a line of business a project belongs to
type BusinessType struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectStatus represents a stage of the sales pipeline.
// GeneraBitacora marks the stage whose projects track negotiation activity.
type ProjectStatus struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string    `json:"name" gorm:"not null;size:100"`
	Description    string    `json:"description"`
	GeneraBitacora bool      `json:"generaBitacora" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// =============================================================================
// PROJECTS & NEGOTIATIONS
// =============================================================================

// Project represents a sales project moving through pipeline statuses.
// EstimatedValue is stored as a normalized decimal string; normalization
// happens at the API boundary before the value reaches this struct.
type Project struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string    `json:"name" gorm:"not null;size:255"`
	ClientID       uuid.UUID `json:"client_id" gorm:"type:uuid;not null;index"`
	SellerID       uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	BusinessTypeID uuid.UUID `json:"business_type_id" gorm:"type:uuid;not null;index"`
	StatusID       uuid.UUID `json:"status_id" gorm:"type:uuid;not null;index"`
	EstimatedValue string    `json:"estimated_value" gorm:"not null;size:50"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Client       *Client        `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Seller       *User          `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	BusinessType *BusinessType  `json:"business_type,omitempty" gorm:"foreignKey:BusinessTypeID"`
	Status       *ProjectStatus `json:"status,omitempty" gorm:"foreignKey:StatusID"`
	Negotiation  *Negotiation   `json:"negotiation,omitempty" gorm:"foreignKey:ProjectID"`
}

// Negotiation tracks active deal-making on a project. A project owns at
// most one negotiation; the unique index on ProjectID is the authority for
// that invariant, the handler pre-check is only an optimization.
type Negotiation struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;not null;uniqueIndex"`
	ClientID  uuid.UUID `json:"client_id" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Project *Project         `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Client  *Client          `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Logs    []NegotiationLog `json:"logs,omitempty" gorm:"foreignKey:NegotiationID"`
}

// NegotiationLog is a dated bitácora entry. Entries are append-only: they
// are never edited or deleted once written.
type NegotiationLog struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	NegotiationID uuid.UUID `json:"negotiation_id" gorm:"type:uuid;not null;index"`
	SellerID      uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	Date          time.Time `json:"date" gorm:"not null;index"`
	Description   string    `json:"description" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`

	// Relations
	Negotiation *Negotiation `json:"negotiation,omitempty" gorm:"foreignKey:NegotiationID"`
	Seller      *User        `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}

// All returns every model registered for migration, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&DocumentType{},
		&Client{},
		&BusinessType{},
		&ProjectStatus{},
		&Project{},
		&Negotiation{},
		&NegotiationLog{},
	}
}
