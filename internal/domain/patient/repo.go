package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Patient, int, error)

	// FindByExternalIDs resolves a batch of external IDs to patient IDs in
	// a single query, scoped to the client and company. Missing IDs are
	// simply absent from the returned map.
	FindByExternalIDs(ctx context.Context, externalIDs []string, clientID, companyID uuid.UUID) (map[string]uuid.UUID, error)
}
