package run

import "context"

type RunRepository interface {
	Create(ctx context.Context, run Run) (Run, error)
	GetByID(ctx context.Context, id string) (Run, error)
	List(ctx context.Context, limit int) ([]Run, error)
}
