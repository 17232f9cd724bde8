package gormstore

import (
	"context"
	"time"

	"fieldops-backend/internal/domain/masterdata"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LineItemRepository struct{ db *gorm.DB }

func NewLineItemRepository(db *gorm.DB) *LineItemRepository { return &LineItemRepository{db: db} }

func (r *LineItemRepository) Create(ctx context.Context, li *masterdata.LineItem) error {
	return r.db.WithContext(ctx).Create(li).Error
}

func (r *LineItemRepository) GetByID(ctx context.Context, id string) (*masterdata.LineItem, error) {
	var out masterdata.LineItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, translate(err, masterdata.ErrNotFound)
	}
	return &out, nil
}

func (r *LineItemRepository) GetByIDForUpdate(ctx context.Context, id string) (*masterdata.LineItem, error) {
	var out masterdata.LineItem
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, translate(err, masterdata.ErrNotFound)
	}
	return &out, nil
}

func (r *LineItemRepository) List(ctx context.Context, workOrderID string) ([]masterdata.LineItem, error) {
	var out []masterdata.LineItem
	q := r.db.WithContext(ctx)
	if workOrderID != "" {
		q = q.Where("work_order_id = ?", workOrderID)
	}
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *LineItemRepository) UpdateRate(ctx context.Context, id string, rate decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&masterdata.LineItem{}).
		Where("id = ?", id).
		Updates(map[string]any{"rate": rate, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return masterdata.ErrNotFound
	}
	return nil
}
