package masterdatamock

import (
	"context"

	domain "fieldops-backend/internal/domain/masterdata"

	"github.com/shopspring/decimal"
)

var (
	_ domain.WorkOrderRepository = (*WorkOrderRepo)(nil)
	_ domain.LineItemRepository  = (*LineItemRepo)(nil)
)

// WorkOrderRepo is a function-backed mock that satisfies domain.WorkOrderRepository.
// Unset reads return context.Canceled; unset writes are no-ops.
type WorkOrderRepo struct {
	CreateFn           func(ctx context.Context, w *domain.WorkOrder) error
	GetByIDFn          func(ctx context.Context, id string) (*domain.WorkOrder, error)
	GetByOrderNumberFn func(ctx context.Context, orderNumber string) (*domain.WorkOrder, error)
	ListFn             func(ctx context.Context) ([]domain.WorkOrder, error)
}

func (m *WorkOrderRepo) Create(ctx context.Context, w *domain.WorkOrder) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, w)
	}
	return nil
}
func (m *WorkOrderRepo) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *WorkOrderRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.WorkOrder, error) {
	if m.GetByOrderNumberFn != nil {
		return m.GetByOrderNumberFn(ctx, orderNumber)
	}
	return nil, context.Canceled
}
func (m *WorkOrderRepo) List(ctx context.Context) ([]domain.WorkOrder, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}

// LineItemRepo is a function-backed mock that satisfies domain.LineItemRepository.
type LineItemRepo struct {
	CreateFn           func(ctx context.Context, li *domain.LineItem) error
	GetByIDFn          func(ctx context.Context, id string) (*domain.LineItem, error)
	GetByIDForUpdateFn func(ctx context.Context, id string) (*domain.LineItem, error)
	ListFn             func(ctx context.Context, workOrderID string) ([]domain.LineItem, error)
	UpdateRateFn       func(ctx context.Context, id string, rate decimal.Decimal) error
}

func (m *LineItemRepo) Create(ctx context.Context, li *domain.LineItem) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, li)
	}
	return nil
}
func (m *LineItemRepo) GetByID(ctx context.Context, id string) (*domain.LineItem, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *LineItemRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.LineItem, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *LineItemRepo) List(ctx context.Context, workOrderID string) ([]domain.LineItem, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, workOrderID)
	}
	return nil, context.Canceled
}
func (m *LineItemRepo) UpdateRate(ctx context.Context, id string, rate decimal.Decimal) error {
	if m.UpdateRateFn != nil {
		return m.UpdateRateFn(ctx, id, rate)
	}
	return nil
}
