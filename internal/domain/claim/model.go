package claim

import (
	"time"

	"github.com/google/uuid"
)

// Claim is a billable encounter under a SOW. Procedures and Diagnoses are
// child rows persisted alongside the claim.
type Claim struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	CompanyID    uuid.UUID   `db:"company_id" json:"company_id"`
	ClientID     uuid.UUID   `db:"client_id" json:"client_id"`
	SOWID        uuid.UUID   `db:"sow_id" json:"sow_id"`
	PatientID    uuid.UUID   `db:"patient_id" json:"patient_id"`
	ClaimNumber  *string     `db:"claim_number" json:"claim_number,omitempty"`
	Status       string      `db:"status" json:"status"`
	ServiceDate  *time.Time  `db:"service_date" json:"service_date,omitempty"`
	GrossCharges float64     `db:"gross_charges" json:"gross_charges"`
	PayerName    *string     `db:"payer_name" json:"payer_name,omitempty"`
	Notes        *string     `db:"notes" json:"notes,omitempty"`
	CreatedBy    *string     `db:"created_by" json:"created_by,omitempty"`
	Procedures   []Procedure `json:"procedures,omitempty"`
	Diagnoses    []Diagnosis `json:"diagnoses,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

type Procedure struct {
	ClaimID      uuid.UUID `db:"claim_id" json:"-"`
	Sequence     int       `db:"sequence" json:"sequence"`
	CPTCode      string    `db:"cpt_code" json:"cpt_code"`
	ChargeAmount float64   `db:"charge_amount" json:"charge_amount"`
}

type Diagnosis struct {
	ClaimID  uuid.UUID `db:"claim_id" json:"-"`
	Sequence int       `db:"sequence" json:"sequence"`
	ICDCode  string    `db:"icd_code" json:"icd_code"`
}

// Draft pairs a claim awaiting insert with the source row it came from,
// so persistence failures can be reported against the original file.
type Draft struct {
	Row   int
	Claim *Claim
}

// RowFailure reports a single draft that could not be persisted.
type RowFailure struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
