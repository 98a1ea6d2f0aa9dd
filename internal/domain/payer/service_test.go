package payer

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	payers map[uuid.UUID]*Payer
}

func newMockRepo() *mockRepo {
	return &mockRepo{payers: make(map[uuid.UUID]*Payer)}
}

func (m *mockRepo) Create(ctx context.Context, p *Payer) error {
	p.ID = uuid.New()
	m.payers[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Payer, error) {
	p, ok := m.payers[id]
	if !ok {
		return nil, fmt.Errorf("payer not found")
	}
	return p, nil
}

func (m *mockRepo) GetByCode(ctx context.Context, code string) (*Payer, error) {
	for _, p := range m.payers {
		if p.PayerCode == code {
			return p, nil
		}
	}
	return nil, fmt.Errorf("payer not found")
}

func (m *mockRepo) Update(ctx context.Context, p *Payer) error {
	if _, ok := m.payers[p.ID]; !ok {
		return fmt.Errorf("payer not found")
	}
	m.payers[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.payers, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Payer, int, error) {
	var items []*Payer
	for _, p := range m.payers {
		items = append(items, p)
	}
	return items, len(items), nil
}

func (m *mockRepo) UpsertByCode(ctx context.Context, p *Payer) error {
	for _, existing := range m.payers {
		if existing.PayerCode == p.PayerCode {
			existing.Name = p.Name
			existing.Kind = p.Kind
			p.ID = existing.ID
			return nil
		}
	}
	return m.Create(ctx, p)
}

func TestCreatePayer(t *testing.T) {
	svc := NewService(newMockRepo())

	p := &Payer{Name: "Aetna", PayerCode: "AETNA", Kind: "commercial"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
	if !p.Active {
		t.Error("expected new payer to be active")
	}
}

func TestCreatePayer_DefaultsKind(t *testing.T) {
	svc := NewService(newMockRepo())

	p := &Payer{Name: "Unknown Carrier", PayerCode: "UNK"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Kind != "other" {
		t.Errorf("expected kind other, got %s", p.Kind)
	}
}

func TestCreatePayer_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		p    Payer
	}{
		{"missing name", Payer{PayerCode: "X"}},
		{"missing code", Payer{Name: "X"}},
		{"invalid kind", Payer{Name: "X", PayerCode: "X", Kind: "tricare"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.p
			if err := svc.Create(ctx, &p); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestUpsertByCode(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first := &Payer{Name: "Aetna", PayerCode: "AETNA", Kind: "commercial"}
	if err := svc.UpsertByCode(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := &Payer{Name: "Aetna Inc", PayerCode: "AETNA", Kind: "commercial"}
	if err := svc.UpsertByCode(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected upsert to keep the original ID")
	}
	if len(repo.payers) != 1 {
		t.Errorf("expected 1 payer after upsert, got %d", len(repo.payers))
	}
	got, err := svc.GetByCode(ctx, "AETNA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Aetna Inc" {
		t.Errorf("expected refreshed name, got %s", got.Name)
	}
}

func TestSync_PartialFailure(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	payers := []*Payer{
		{Name: "Aetna", PayerCode: "AETNA", Kind: "commercial"},
		{Name: "", PayerCode: "BLANK"},
		{Name: "Medicare", PayerCode: "CMS", Kind: "medicare"},
	}

	synced, failures, err := svc.Sync(context.Background(), payers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if synced != 2 {
		t.Errorf("expected 2 synced, got %d", synced)
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].Index != 1 {
		t.Errorf("expected failure at index 1, got %d", failures[0].Index)
	}
	if len(repo.payers) != 2 {
		t.Errorf("expected 2 payers stored, got %d", len(repo.payers))
	}
}

func TestSync_ReplaysExistingCodes(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, _, err := svc.Sync(ctx, []*Payer{{Name: "Aetna", PayerCode: "AETNA", Kind: "commercial"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.Sync(ctx, []*Payer{{Name: "Aetna Health", PayerCode: "AETNA", Kind: "commercial"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.payers) != 1 {
		t.Errorf("expected 1 payer after replay, got %d", len(repo.payers))
	}
	got, err := svc.GetByCode(ctx, "AETNA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Aetna Health" {
		t.Errorf("expected refreshed name, got %s", got.Name)
	}
}
