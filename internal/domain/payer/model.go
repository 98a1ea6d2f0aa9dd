package payer

import (
	"time"

	"github.com/google/uuid"
)

// Payer is an insurance carrier or government program. Payers are shared
// across tenants and keyed by payer_code.
type Payer struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	PayerCode string    `db:"payer_code" json:"payer_code"`
	Kind      string    `db:"kind" json:"kind"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
