package gormstore

import (
	"context"

	"fieldops-backend/internal/domain/masterdata"
	"fieldops-backend/internal/domain/submission"
	"fieldops-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		WorkOrders:  &WorkOrderRepository{db: tx},
		LineItems:   &LineItemRepository{db: tx},
		Submissions: &SubmissionRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinSubmissionTx(ctx context.Context, submissionID string, fn func(r uow.Repos, s *submission.Submission) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the submission row up-front to prevent races
		s, err := r.Submissions.GetByIDForUpdate(ctx, submissionID)
		if err != nil {
			return err
		}
		return fn(r, s)
	})
}

// Migrate creates or updates the tables this store owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&masterdata.WorkOrder{}, &masterdata.LineItem{}, &submission.Submission{})
}
