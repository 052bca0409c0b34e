package memory

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
)

type assignmentLog struct {
	uow *UnitOfWork
}

func (l *assignmentLog) Append(_ context.Context, a assignment.Assignment) error {
	if err := l.uow.ensureActive(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	l.uow.appended = append(l.uow.appended, a)
	return nil
}

// GetAll returns committed records followed by the ones appended in this unit of work.
func (l *assignmentLog) GetAll(_ context.Context) ([]assignment.Assignment, error) {
	if err := l.uow.ensureActive(); err != nil {
		return nil, err
	}

	out := make([]assignment.Assignment, 0, len(l.uow.store.assignments)+len(l.uow.appended))
	for _, dto := range l.uow.store.assignments {
		a, err := assignmentToDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return append(out, l.uow.appended...), nil
}
