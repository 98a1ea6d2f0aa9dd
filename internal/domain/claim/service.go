package claim

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validStatuses = map[string]bool{
	"new":         true,
	"in_progress": true,
	"submitted":   true,
	"paid":        true,
	"denied":      true,
	"closed":      true,
}

func (s *Service) validate(cl *Claim) error {
	if cl.CompanyID == uuid.Nil {
		return fmt.Errorf("company_id is required")
	}
	if cl.ClientID == uuid.Nil {
		return fmt.Errorf("client_id is required")
	}
	if cl.SOWID == uuid.Nil {
		return fmt.Errorf("sow_id is required")
	}
	if cl.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if !validStatuses[cl.Status] {
		return fmt.Errorf("invalid status: %s", cl.Status)
	}
	if cl.GrossCharges < 0 {
		return fmt.Errorf("gross_charges must not be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, cl *Claim) error {
	if cl.Status == "" {
		cl.Status = "new"
	}
	if err := s.validate(cl); err != nil {
		return err
	}
	return s.repo.Create(ctx, cl)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Claim, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, cl *Claim) error {
	if !validStatuses[cl.Status] {
		return fmt.Errorf("invalid status: %s", cl.Status)
	}
	if cl.GrossCharges < 0 {
		return fmt.Errorf("gross_charges must not be negative")
	}
	return s.repo.Update(ctx, cl)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListBySOW(ctx context.Context, sowID uuid.UUID, limit, offset int) ([]*Claim, int, error) {
	return s.repo.ListBySOW(ctx, sowID, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Claim, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// InsertManyUnordered validates each draft before handing the batch to
// the repository. Validation failures join the repository's row
// failures; siblings are never aborted by a bad row.
func (s *Service) InsertManyUnordered(ctx context.Context, drafts []Draft) (int, []RowFailure, error) {
	valid := make([]Draft, 0, len(drafts))
	var failures []RowFailure
	for _, d := range drafts {
		if d.Claim.Status == "" {
			d.Claim.Status = "new"
		}
		if err := s.validate(d.Claim); err != nil {
			failures = append(failures, RowFailure{Row: d.Row, Message: err.Error()})
			continue
		}
		valid = append(valid, d)
	}
	inserted, repoFailures, err := s.repo.InsertManyUnordered(ctx, valid)
	failures = append(failures, repoFailures...)
	return inserted, failures, err
}
