package task

import (
	"context"
	"fmt"
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
	"open":        true,
	"in_progress": true,
	"done":        true,
	"escalated":   true,
}

// allowedTransitions encodes the task lifecycle. Escalation is reachable
// from any live state; done is terminal.
var allowedTransitions = map[string][]string{
	"open":        {"in_progress", "escalated", "done"},
	"in_progress": {"open", "done", "escalated"},
	"escalated":   {"in_progress", "done"},
	"done":        {},
}

func canTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *Service) Create(ctx context.Context, t *Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if t.CompanyID == uuid.Nil {
		return fmt.Errorf("company_id is required")
	}
	if t.SOWID == uuid.Nil {
		return fmt.Errorf("sow_id is required")
	}
	if t.Status == "" {
		t.Status = "open"
	}
	if !validStatuses[t.Status] {
		return fmt.Errorf("invalid status: %s", t.Status)
	}
	return s.repo.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Task, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, t *Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !validStatuses[t.Status] {
		return fmt.Errorf("invalid status: %s", t.Status)
	}
	current, err := s.repo.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if !canTransition(current.Status, t.Status) {
		return fmt.Errorf("cannot transition task from %s to %s", current.Status, t.Status)
	}
	return s.repo.Update(ctx, t)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByAssignee(ctx context.Context, assigneeID uuid.UUID, limit, offset int) ([]*Task, int, error) {
	return s.repo.ListByAssignee(ctx, assigneeID, limit, offset)
}

func (s *Service) ListBySOW(ctx context.Context, sowID uuid.UUID, limit, offset int) ([]*Task, int, error) {
	return s.repo.ListBySOW(ctx, sowID, limit, offset)
}
