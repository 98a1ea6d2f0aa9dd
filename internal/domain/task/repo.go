package task

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByAssignee(ctx context.Context, assigneeID uuid.UUID, limit, offset int) ([]*Task, int, error)
	ListBySOW(ctx context.Context, sowID uuid.UUID, limit, offset int) ([]*Task, int, error)
}
