package task

import (
	"time"

	"github.com/google/uuid"
)

// Task is a unit of follow-up work, usually tied to a claim, assigned to
// an employee under a SOW.
type Task struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	CompanyID  uuid.UUID  `db:"company_id" json:"company_id"`
	SOWID      uuid.UUID  `db:"sow_id" json:"sow_id"`
	ClaimID    *uuid.UUID `db:"claim_id" json:"claim_id,omitempty"`
	AssigneeID *uuid.UUID `db:"assignee_id" json:"assignee_id,omitempty"`
	Title      string     `db:"title" json:"title"`
	Status     string     `db:"status" json:"status"`
	Priority   int        `db:"priority" json:"priority"`
	DueAt      *time.Time `db:"due_at" json:"due_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
