package client

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

func (s *Service) Create(ctx context.Context, cl *Client) error {
	if strings.TrimSpace(cl.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if cl.CompanyID == uuid.Nil {
		return fmt.Errorf("company_id is required")
	}
	if cl.NPI != nil && len(*cl.NPI) != 10 {
		return fmt.Errorf("npi must be 10 digits")
	}
	cl.Active = true
	return s.repo.Create(ctx, cl)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, cl *Client) error {
	if strings.TrimSpace(cl.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if cl.NPI != nil && len(*cl.NPI) != 10 {
		return fmt.Errorf("npi must be 10 digits")
	}
	return s.repo.Update(ctx, cl)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*Client, int, error) {
	return s.repo.ListByCompany(ctx, companyID, limit, offset)
}
