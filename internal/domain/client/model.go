package client

import (
	"time"

	"github.com/google/uuid"
)

// Client is a healthcare provider organization whose claims the company
// works. Every client belongs to exactly one company.
type Client struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CompanyID    uuid.UUID `db:"company_id" json:"company_id"`
	Name         string    `db:"name" json:"name"`
	NPI          *string   `db:"npi" json:"npi,omitempty"`
	ContactEmail *string   `db:"contact_email" json:"contact_email,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
