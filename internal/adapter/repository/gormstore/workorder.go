package gormstore

import (
	"context"
	"errors"

	"fieldops-backend/internal/domain/masterdata"

	"gorm.io/gorm"
)

type WorkOrderRepository struct{ db *gorm.DB }

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository { return &WorkOrderRepository{db: db} }

func (r *WorkOrderRepository) Create(ctx context.Context, w *masterdata.WorkOrder) error {
	err := r.db.WithContext(ctx).Create(w).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return masterdata.ErrDuplicateKey
	}
	return err
}

func (r *WorkOrderRepository) GetByID(ctx context.Context, id string) (*masterdata.WorkOrder, error) {
	var out masterdata.WorkOrder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, translate(err, masterdata.ErrNotFound)
	}
	return &out, nil
}

func (r *WorkOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*masterdata.WorkOrder, error) {
	var out masterdata.WorkOrder
	if err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&out).Error; err != nil {
		return nil, translate(err, masterdata.ErrNotFound)
	}
	return &out, nil
}

func (r *WorkOrderRepository) List(ctx context.Context) ([]masterdata.WorkOrder, error) {
	var out []masterdata.WorkOrder
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}
