package uow

import (
	"context"

	"fieldops-backend/internal/domain/masterdata"
	"fieldops-backend/internal/domain/submission"
)

type Repos struct {
	WorkOrders  masterdata.WorkOrderRepository
	LineItems   masterdata.LineItemRepository
	Submissions submission.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the submission first, then pass it in
	WithinSubmissionTx(ctx context.Context, submissionID string, fn func(r Repos, s *submission.Submission) error) error
}
