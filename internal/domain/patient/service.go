package patient

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

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.ExternalID) == "" {
		return fmt.Errorf("external_id is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("last_name is required")
	}
	if p.ClientID == uuid.Nil {
		return fmt.Errorf("client_id is required")
	}
	if p.CompanyID == uuid.Nil {
		return fmt.Errorf("company_id is required")
	}
	// External IDs are compared case-insensitively everywhere, so store
	// the canonical uppercase form.
	p.ExternalID = strings.ToUpper(strings.TrimSpace(p.ExternalID))
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("last_name is required")
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	return s.repo.ListByClient(ctx, clientID, limit, offset)
}

// FindByExternalIDs normalizes the lookup keys to uppercase and resolves
// them in one round trip.
func (s *Service) FindByExternalIDs(ctx context.Context, externalIDs []string, clientID, companyID uuid.UUID) (map[string]uuid.UUID, error) {
	normalized := make([]string, 0, len(externalIDs))
	for _, id := range externalIDs {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id != "" {
			normalized = append(normalized, id)
		}
	}
	return s.repo.FindByExternalIDs(ctx, normalized, clientID, companyID)
}
