package submissionmock

import (
	"context"

	domain "fieldops-backend/internal/domain/submission"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, s *domain.Submission) error
	GetByIDFn          func(ctx context.Context, id string) (*domain.Submission, error)
	GetByIDForUpdateFn func(ctx context.Context, id string) (*domain.Submission, error)
	ListFn             func(ctx context.Context, f domain.Filter) ([]domain.Submission, error)
	UpdateFn           func(ctx context.Context, s *domain.Submission, expectedVersion int64) error
}

func (m *Repo) Create(ctx context.Context, s *domain.Submission) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}
func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Submission, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Submission, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}
func (m *Repo) Update(ctx context.Context, s *domain.Submission, expectedVersion int64) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, s, expectedVersion)
	}
	s.Version = expectedVersion + 1
	return nil
}
