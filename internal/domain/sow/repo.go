package sow

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *SOW) error
	GetByID(ctx context.Context, id uuid.UUID) (*SOW, error)
	Update(ctx context.Context, s *SOW) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*SOW, int, error)

	// VerifyScope reports whether the SOW exists and belongs to both the
	// given client and company. It is a single query; callers use it to
	// reject cross-tenant writes before touching any other table.
	VerifyScope(ctx context.Context, sowID, clientID, companyID uuid.UUID) (bool, error)
}
