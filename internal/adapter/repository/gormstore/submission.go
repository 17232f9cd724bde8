package gormstore

import (
	"context"
	"time"

	"fieldops-backend/internal/domain/submission"

	"gorm.io/gorm"
)

type SubmissionRepository struct{ db *gorm.DB }

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Tx runs fn in a db transaction, passing a repo bound to the tx
func (r *SubmissionRepository) Tx(ctx context.Context, fn func(repo submission.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SubmissionRepository{db: tx})
	})
}

func (r *SubmissionRepository) Create(ctx context.Context, s *submission.Submission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*submission.Submission, error) {
	var out submission.Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, translate(err, submission.ErrNotFound)
	}
	return &out, nil
}

func (r *SubmissionRepository) GetByIDForUpdate(ctx context.Context, id string) (*submission.Submission, error) {
	var out submission.Submission
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, translate(err, submission.ErrNotFound)
	}
	return &out, nil
}

func (r *SubmissionRepository) List(ctx context.Context, f submission.Filter) ([]submission.Submission, error) {
	var out []submission.Submission
	q := r.db.WithContext(ctx)
	if f.SupervisorID != "" {
		q = q.Where("supervisor_id = ?", f.SupervisorID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

// Update only touches workflow and input columns; ownership, references and the
// rate snapshot are never part of the SET list.
func (r *SubmissionRepository) Update(ctx context.Context, s *submission.Submission, expectedVersion int64) error {
	now := time.Now().UTC()
	next := expectedVersion + 1
	res := r.db.WithContext(ctx).
		Model(&submission.Submission{}).
		Where("id = ? AND version = ?", s.ID, expectedVersion).
		Updates(map[string]any{
			"quantity":          s.Quantity,
			"actual_manpower":   s.ActualManpower,
			"material_consumed": s.MaterialConsumed,
			"revenue":           s.Revenue,
			"status":            s.Status,
			"remarks":           s.Remarks,
			"admin_remarks":     s.AdminRemarks,
			"evidence_photos":   s.EvidencePhotos,
			"version":           next,
			"updated_at":        now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&submission.Submission{}).Where("id = ?", s.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return submission.ErrNotFound
		}
		return submission.ErrConflict
	}
	s.Version = next
	s.UpdatedAt = now
	return nil
}
