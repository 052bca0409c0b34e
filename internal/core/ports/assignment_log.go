package ports

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
)

// AssignmentLog is the append-only history of dispatcher decisions.
type AssignmentLog interface {
	Append(ctx context.Context, a assignment.Assignment) error
	GetAll(ctx context.Context) ([]assignment.Assignment, error)
}
