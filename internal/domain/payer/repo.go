package payer

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Payer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payer, error)
	GetByCode(ctx context.Context, code string) (*Payer, error)
	Update(ctx context.Context, p *Payer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Payer, int, error)

	// UpsertByCode inserts the payer or, when payer_code already exists,
	// refreshes its name and kind. The payer's ID is set either way.
	UpsertByCode(ctx context.Context, p *Payer) error
}
