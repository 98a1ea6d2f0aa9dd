package claim

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, cl *Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*Claim, error)
	Update(ctx context.Context, cl *Claim) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySOW(ctx context.Context, sowID uuid.UUID, limit, offset int) ([]*Claim, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Claim, int, error)

	// InsertManyUnordered inserts each draft independently. A draft that
	// the database rejects is reported as a RowFailure and its siblings
	// still commit. An infrastructure failure (connectivity, pool) aborts
	// the whole batch with a non-nil error.
	InsertManyUnordered(ctx context.Context, drafts []Draft) (int, []RowFailure, error)
}
