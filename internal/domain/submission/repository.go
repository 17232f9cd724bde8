package submission

import "context"

// Filter narrows List. Empty fields match everything.
type Filter struct {
	SupervisorID string
	Statuses     []Status
}

type Repository interface {
	Create(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, id string) (*Submission, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*Submission, error)
	// List returns matches newest first.
	List(ctx context.Context, f Filter) ([]Submission, error)
	// Update writes the mutable columns of s if the stored version still equals
	// expectedVersion, then sets s.Version to expectedVersion+1. A stale version yields ErrConflict.
	Update(ctx context.Context, s *Submission, expectedVersion int64) error
}
