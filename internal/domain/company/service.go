package company

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	companies CompanyRepository
	employees EmployeeRepository
}

func NewService(companies CompanyRepository, employees EmployeeRepository) *Service {
	return &Service{companies: companies, employees: employees}
}

var validEmployeeRoles = map[string]bool{
	"admin":   true,
	"manager": true,
	"biller":  true,
	"analyst": true,
}

func (s *Service) CreateCompany(ctx context.Context, co *Company) error {
	if strings.TrimSpace(co.Name) == "" {
		return fmt.Errorf("name is required")
	}
	co.Active = true
	return s.companies.Create(ctx, co)
}

func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.companies.GetByID(ctx, id)
}

func (s *Service) UpdateCompany(ctx context.Context, co *Company) error {
	if strings.TrimSpace(co.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return s.companies.Update(ctx, co)
}

func (s *Service) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return s.companies.Delete(ctx, id)
}

func (s *Service) ListCompanies(ctx context.Context, limit, offset int) ([]*Company, int, error) {
	return s.companies.List(ctx, limit, offset)
}

func (s *Service) CreateEmployee(ctx context.Context, e *Employee) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(e.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if e.CompanyID == uuid.Nil {
		return fmt.Errorf("company_id is required")
	}
	if e.Role == "" {
		e.Role = "biller"
	}
	if !validEmployeeRoles[e.Role] {
		return fmt.Errorf("invalid role: %s", e.Role)
	}
	e.Active = true
	return s.employees.Create(ctx, e)
}

func (s *Service) GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return s.employees.GetByID(ctx, id)
}

func (s *Service) UpdateEmployee(ctx context.Context, e *Employee) error {
	if e.Role != "" && !validEmployeeRoles[e.Role] {
		return fmt.Errorf("invalid role: %s", e.Role)
	}
	return s.employees.Update(ctx, e)
}

func (s *Service) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	return s.employees.Delete(ctx, id)
}

func (s *Service) ListEmployeesByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*Employee, int, error) {
	return s.employees.ListByCompany(ctx, companyID, limit, offset)
}
