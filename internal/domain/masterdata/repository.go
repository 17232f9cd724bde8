package masterdata

import (
	"context"

	"github.com/shopspring/decimal"
)

type WorkOrderRepository interface {
	Create(ctx context.Context, w *WorkOrder) error
	GetByID(ctx context.Context, id string) (*WorkOrder, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*WorkOrder, error)
	List(ctx context.Context) ([]WorkOrder, error)
}

type LineItemRepository interface {
	Create(ctx context.Context, li *LineItem) error
	GetByID(ctx context.Context, id string) (*LineItem, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*LineItem, error)
	// List filters by owning work order when workOrderID is non-empty.
	List(ctx context.Context, workOrderID string) ([]LineItem, error)
	UpdateRate(ctx context.Context, id string, rate decimal.Decimal) error
}
