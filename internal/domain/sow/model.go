package sow

import (
	"time"

	"github.com/google/uuid"
)

// Allocation controls how work generated under a SOW is distributed
// across employees. Weights apportion the daily queue by claim aging,
// payer mix and denial history.
type Allocation struct {
	AgingWeight         float64 `db:"aging_weight" json:"aging_weight"`
	PayerWeight         float64 `db:"payer_weight" json:"payer_weight"`
	DenialWeight        float64 `db:"denial_weight" json:"denial_weight"`
	FloatingPoolPct     float64 `db:"floating_pool_pct" json:"floating_pool_pct"`
	DailyCapPerEmployee int     `db:"daily_cap_per_employee" json:"daily_cap_per_employee"`
}

// SLA defines when claims under a SOW escalate. A claim untouched for
// WarningDays is flagged; at TriggerDays it escalates.
type SLA struct {
	TriggerDays int `db:"sla_trigger_days" json:"trigger_days"`
	WarningDays int `db:"sla_warning_days" json:"warning_days"`
}

// SOW is a statement of work: a contract between a company and a client
// that scopes claim volume, allocation rules and SLAs.
type SOW struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	CompanyID     uuid.UUID  `db:"company_id" json:"company_id"`
	ClientID      uuid.UUID  `db:"client_id" json:"client_id"`
	Name          string     `db:"name" json:"name"`
	Status        string     `db:"status" json:"status"`
	StartDate     time.Time  `db:"start_date" json:"start_date"`
	EndDate       *time.Time `db:"end_date" json:"end_date,omitempty"`
	MonthlyVolume int        `db:"monthly_volume" json:"monthly_volume"`
	Allocation    Allocation `json:"allocation"`
	SLA           SLA        `json:"sla"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
