package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fieldops-backend/internal/domain/access"
	"fieldops-backend/internal/domain/masterdata"
	"fieldops-backend/internal/domain/photo"
	domain "fieldops-backend/internal/domain/submission"
	"fieldops-backend/internal/domain/uow"
	"fieldops-backend/pkg/id"

	"go.uber.org/zap"
)

var ErrInvalidInput = errors.New("invalid input")

type Usecase struct {
	submissions domain.Repository
	workOrders  masterdata.WorkOrderRepository
	lineItems   masterdata.LineItemRepository
	uow         uow.UnitOfWork
	photos      photo.Store
	log         *zap.Logger
}

// NewUsecase: reads go through repos directly, every write through tx.
func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, photos photo.Store, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		submissions: repos.Submissions,
		workOrders:  repos.WorkOrders,
		lineItems:   repos.LineItems,
		uow:         tx,
		photos:      photos,
		log:         log,
	}
}

// Create records a supervisor's entry. With PreviousSubmissionID set it is a
// resubmission: the predecessor flips to Resubmitted in the same transaction.
func (u *Usecase) Create(ctx context.Context, scope access.Scope, in CreateInput) (*View, error) {
	if !scope.Valid() || !scope.Is(access.RoleSupervisor) {
		return nil, fmt.Errorf("%w: only supervisors submit work", access.ErrForbidden)
	}
	if in.SupervisorID == "" {
		in.SupervisorID = scope.UserID
	}
	if in.SupervisorID != scope.UserID {
		return nil, fmt.Errorf("%w: cannot submit on behalf of another supervisor", access.ErrForbidden)
	}
	if strings.TrimSpace(in.LineItemID) == "" {
		return nil, fmt.Errorf("%w: lineItemId is required", ErrInvalidInput)
	}
	if err := domain.CheckQuantity(in.Quantity); err != nil {
		return nil, err
	}

	refs, err := u.upload(ctx, in.Photos)
	if err != nil {
		return nil, err
	}
	evidence := append(append([]string{}, in.ExistingPhotos...), refs...)

	var created *domain.Submission
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// lock the line item so the snapshot cannot interleave with a rate change
		li, err := r.LineItems.GetByIDForUpdate(ctx, in.LineItemID)
		if err != nil {
			if errors.Is(err, masterdata.ErrNotFound) {
				return fmt.Errorf("%w: line item %s", domain.ErrInvalidReference, in.LineItemID)
			}
			return err
		}
		workOrderID := in.WorkOrderID
		if workOrderID == "" {
			workOrderID = li.WorkOrderID
		}
		if workOrderID != li.WorkOrderID {
			return fmt.Errorf("%w: line item %s does not belong to work order %s", domain.ErrInvalidReference, li.ID, workOrderID)
		}

		if in.PreviousSubmissionID != "" {
			if err := supersede(ctx, r, in, workOrderID); err != nil {
				return err
			}
		}

		s, err := domain.New(domain.NewParams{
			ID:                   id.NewID32(),
			SupervisorID:         in.SupervisorID,
			SupervisorName:       in.SupervisorName,
			WorkOrderID:          workOrderID,
			LineItemID:           li.ID,
			Quantity:             in.Quantity,
			ActualManpower:       in.ActualManpower,
			MaterialConsumed:     in.MaterialConsumed,
			PreviousSubmissionID: in.PreviousSubmissionID,
			Photos:               evidence,
		}, domain.SnapshotOf(li))
		if err != nil {
			return err
		}
		if err := r.Submissions.Create(ctx, s); err != nil {
			return err
		}
		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("submission_id", created.ID),
		zap.String("supervisor_id", created.SupervisorID),
		zap.String("line_item_id", created.LineItemID),
		zap.String("status", created.Status.String()),
	}
	if created.PreviousSubmissionID != nil {
		fields = append(fields, zap.String("previous_submission_id", *created.PreviousSubmissionID))
	}
	u.log.Info("submission created", fields...)
	return u.view(ctx, scope, created)
}

func requireScope(scope access.Scope) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: missing or unrecognised role", access.ErrForbidden)
	}
	return nil
}

// supersede locks and retires the predecessor named by in.
func supersede(ctx context.Context, r uow.Repos, in CreateInput, workOrderID string) error {
	prev, err := r.Submissions.GetByIDForUpdate(ctx, in.PreviousSubmissionID)
	if err != nil {
		return err
	}
	if prev.SupervisorID != in.SupervisorID {
		return fmt.Errorf("%w: submission %s belongs to another supervisor", access.ErrForbidden, prev.ID)
	}
	if prev.WorkOrderID != workOrderID || prev.LineItemID != in.LineItemID {
		return fmt.Errorf("%w: resubmission must reference the same work order and line item", domain.ErrInvalidReference)
	}
	if in.PreviousVersion != nil && *in.PreviousVersion != prev.Version {
		return domain.ErrConflict
	}
	ver := prev.Version
	if err := prev.Supersede(); err != nil {
		return err
	}
	return r.Submissions.Update(ctx, prev, ver)
}

func (u *Usecase) upload(ctx context.Context, uploads []photo.Upload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	if u.photos == nil {
		return nil, errors.New("photo store not configured")
	}
	refs := make([]string, 0, len(uploads))
	for _, up := range uploads {
		ref, err := u.photos.Put(ctx, up)
		if err != nil {
			u.log.Warn("photo upload failed", zap.String("filename", up.Filename), zap.Error(err))
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// List returns what scope may see, newest first. status is an optional
// comma-separated filter.
func (u *Usecase) List(ctx context.Context, scope access.Scope, status string) ([]View, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	statuses, err := domain.ParseStatuses(status)
	if err != nil {
		return nil, err
	}
	f, ok := listFilter(scope, statuses)
	if !ok {
		return []View{}, nil
	}
	rows, err := u.submissions.List(ctx, f)
	if err != nil {
		return nil, err
	}

	e := u.newEnricher()
	out := make([]View, 0, len(rows))
	for i := range rows {
		if !visible(scope, &rows[i]) {
			continue
		}
		v := shape(scope, &rows[i])
		if err := e.fill(ctx, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Get returns one submission; records outside scope read as not found.
func (u *Usecase) Get(ctx context.Context, scope access.Scope, submissionID string) (*View, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	s, err := u.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !visible(scope, s) {
		return nil, domain.ErrNotFound
	}
	return u.view(ctx, scope, s)
}

// History walks previous_submission_id from submissionID back to the first
// entry of the chain, newest first. Links outside scope are skipped.
func (u *Usecase) History(ctx context.Context, scope access.Scope, submissionID string) ([]View, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	head, err := u.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !visible(scope, head) {
		return nil, domain.ErrNotFound
	}

	e := u.newEnricher()
	seen := map[string]bool{}
	out := []View{}
	for cur := head; cur != nil; {
		if seen[cur.ID] {
			u.log.Error("submission chain loops", zap.String("submission_id", cur.ID))
			break
		}
		seen[cur.ID] = true
		if visible(scope, cur) {
			v := shape(scope, cur)
			if err := e.fill(ctx, &v); err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		if cur.PreviousSubmissionID == nil || *cur.PreviousSubmissionID == "" {
			break
		}
		next, err := u.submissions.GetByID(ctx, *cur.PreviousSubmissionID)
		if errors.Is(err, domain.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return out, nil
}

// Validate applies a validator decision to a Pending Validation submission.
func (u *Usecase) Validate(ctx context.Context, scope access.Scope, submissionID string, in ValidateInput) (*View, error) {
	if !scope.Is(access.RoleValidator) {
		return nil, fmt.Errorf("%w: only validators approve or reject", access.ErrForbidden)
	}
	target, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if in.Quantity != nil {
		if err := domain.CheckQuantity(*in.Quantity); err != nil {
			return nil, err
		}
	}

	var updated *domain.Submission
	var from domain.Status
	err = u.uow.WithinSubmissionTx(ctx, submissionID, func(r uow.Repos, s *domain.Submission) error {
		if in.ExpectedVersion != nil && *in.ExpectedVersion != s.Version {
			return domain.ErrConflict
		}
		from = s.Status
		ver := s.Version
		if err := s.Decide(target, in.Remarks, in.Quantity); err != nil {
			return err
		}
		if err := r.Submissions.Update(ctx, s, ver); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("submission validated",
		zap.String("submission_id", updated.ID),
		zap.String("validator_id", scope.UserID),
		zap.String("from", from.String()),
		zap.String("to", updated.Status.String()),
		zap.String("revenue", updated.Revenue.String()))
	return u.view(ctx, scope, updated)
}

// Resubmit serves the legacy PUT /submissions/:id. It never edits the record in
// place: it creates a linked successor carrying over whatever the caller left
// out, with new photos appended to the predecessor's.
func (u *Usecase) Resubmit(ctx context.Context, scope access.Scope, submissionID string, in ResubmitInput) (*View, error) {
	if !scope.Is(access.RoleSupervisor) {
		return nil, fmt.Errorf("%w: only supervisors resubmit work", access.ErrForbidden)
	}
	prev, err := u.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if prev.SupervisorID != scope.UserID {
		return nil, domain.ErrNotFound
	}

	ci := CreateInput{
		SupervisorID:         prev.SupervisorID,
		SupervisorName:       prev.SupervisorName,
		WorkOrderID:          prev.WorkOrderID,
		LineItemID:           prev.LineItemID,
		Quantity:             prev.Quantity,
		ActualManpower:       prev.ActualManpower,
		MaterialConsumed:     prev.MaterialConsumed,
		ExistingPhotos:       prev.Photos(),
		PreviousSubmissionID: prev.ID,
		PreviousVersion:      in.ExpectedVersion,
		Photos:               in.Photos,
	}
	if in.Quantity != nil {
		ci.Quantity = *in.Quantity
	}
	if in.ActualManpower != nil {
		ci.ActualManpower = *in.ActualManpower
	}
	if in.MaterialConsumed != nil {
		ci.MaterialConsumed = *in.MaterialConsumed
	}
	return u.Create(ctx, scope, ci)
}

// SetAdminRemarks annotates a submission without touching its status.
func (u *Usecase) SetAdminRemarks(ctx context.Context, scope access.Scope, submissionID string, in AdminRemarksInput) (*View, error) {
	if !scope.Is(access.RoleAdmin) {
		return nil, fmt.Errorf("%w: only admins set admin remarks", access.ErrForbidden)
	}

	var updated *domain.Submission
	err := u.uow.WithinSubmissionTx(ctx, submissionID, func(r uow.Repos, s *domain.Submission) error {
		if in.ExpectedVersion != nil && *in.ExpectedVersion != s.Version {
			return domain.ErrConflict
		}
		ver := s.Version
		s.AdminRemarks = in.AdminRemarks
		if err := r.Submissions.Update(ctx, s, ver); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("admin remarks set", zap.String("submission_id", updated.ID), zap.String("admin_id", scope.UserID))
	return u.view(ctx, scope, updated)
}
