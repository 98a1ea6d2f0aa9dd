package sow

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validStatuses = map[string]bool{
	"draft":     true,
	"active":    true,
	"suspended": true,
	"closed":    true,
}

const weightTolerance = 1e-9

func validateAllocation(a Allocation) error {
	for name, w := range map[string]float64{
		"aging_weight":  a.AgingWeight,
		"payer_weight":  a.PayerWeight,
		"denial_weight": a.DenialWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	sum := a.AgingWeight + a.PayerWeight + a.DenialWeight
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("allocation weights must sum to 1.0, got %v", sum)
	}
	if a.FloatingPoolPct < 0 || a.FloatingPoolPct > 1 {
		return fmt.Errorf("floating_pool_pct must be between 0 and 1")
	}
	if a.DailyCapPerEmployee < 0 {
		return fmt.Errorf("daily_cap_per_employee must not be negative")
	}
	return nil
}

func validateSLA(s SLA) error {
	if s.TriggerDays <= 0 {
		return fmt.Errorf("sla trigger_days must be positive")
	}
	if s.WarningDays <= 0 {
		return fmt.Errorf("sla warning_days must be positive")
	}
	if s.WarningDays >= s.TriggerDays {
		return fmt.Errorf("sla warning_days must be less than trigger_days")
	}
	return nil
}

func (s *Service) validate(sw *SOW) error {
	if strings.TrimSpace(sw.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if sw.ClientID == uuid.Nil {
		return fmt.Errorf("client_id is required")
	}
	if sw.CompanyID == uuid.Nil {
		return fmt.Errorf("company_id is required")
	}
	if !validStatuses[sw.Status] {
		return fmt.Errorf("invalid status: %s", sw.Status)
	}
	if sw.EndDate != nil && !sw.EndDate.After(sw.StartDate) {
		return fmt.Errorf("end_date must be after start_date")
	}
	if sw.MonthlyVolume < 0 {
		return fmt.Errorf("monthly_volume must not be negative")
	}
	if err := validateAllocation(sw.Allocation); err != nil {
		return err
	}
	return validateSLA(sw.SLA)
}

func (s *Service) Create(ctx context.Context, sw *SOW) error {
	if sw.Status == "" {
		sw.Status = "draft"
	}
	if err := s.validate(sw); err != nil {
		return err
	}
	return s.repo.Create(ctx, sw)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*SOW, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, sw *SOW) error {
	if err := s.validate(sw); err != nil {
		return err
	}
	return s.repo.Update(ctx, sw)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*SOW, int, error) {
	return s.repo.ListByClient(ctx, clientID, limit, offset)
}

// VerifyScope confirms the SOW belongs to the client and company pair.
func (s *Service) VerifyScope(ctx context.Context, sowID, clientID, companyID uuid.UUID) error {
	ok, err := s.repo.VerifyScope(ctx, sowID, clientID, companyID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("sow %s not found for client %s", sowID, clientID)
	}
	return nil
}
