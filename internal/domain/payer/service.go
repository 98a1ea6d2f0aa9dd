package payer

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

var validKinds = map[string]bool{
	"commercial": true,
	"medicare":   true,
	"medicaid":   true,
	"other":      true,
}

func (s *Service) validate(p *Payer) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(p.PayerCode) == "" {
		return fmt.Errorf("payer_code is required")
	}
	if p.Kind == "" {
		p.Kind = "other"
	}
	if !validKinds[p.Kind] {
		return fmt.Errorf("invalid kind: %s", p.Kind)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Payer) error {
	if err := s.validate(p); err != nil {
		return err
	}
	p.Active = true
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Payer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Payer, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) Update(ctx context.Context, p *Payer) error {
	if err := s.validate(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Payer, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpsertByCode keeps the payer master current when claim feeds carry
// payer names we have not seen before.
func (s *Service) UpsertByCode(ctx context.Context, p *Payer) error {
	if err := s.validate(p); err != nil {
		return err
	}
	p.Active = true
	return s.repo.UpsertByCode(ctx, p)
}

// SyncFailure records one payer entry that could not be upserted during a
// directory sync.
type SyncFailure struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// Sync upserts a batch of payers from an external directory feed. Invalid
// entries are reported per index; valid entries are not rolled back when a
// sibling fails.
func (s *Service) Sync(ctx context.Context, payers []*Payer) (int, []SyncFailure, error) {
	var synced int
	var failures []SyncFailure
	for i, p := range payers {
		if err := s.UpsertByCode(ctx, p); err != nil {
			failures = append(failures, SyncFailure{Index: i, Message: err.Error()})
			continue
		}
		synced++
	}
	return synced, failures, nil
}
