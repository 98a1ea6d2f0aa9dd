package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a person whose claims are worked under a client. ExternalID
// is the client's own medical record number and is unique per client.
type Patient struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	CompanyID  uuid.UUID  `db:"company_id" json:"company_id"`
	ClientID   uuid.UUID  `db:"client_id" json:"client_id"`
	ExternalID string     `db:"external_id" json:"external_id"`
	FirstName  string     `db:"first_name" json:"first_name"`
	LastName   string     `db:"last_name" json:"last_name"`
	DOB        *time.Time `db:"dob" json:"dob,omitempty"`
	Gender     *string    `db:"gender" json:"gender,omitempty"`
	PayerID    *uuid.UUID `db:"payer_id" json:"payer_id,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
