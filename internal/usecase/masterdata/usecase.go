package masterdata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fieldops-backend/internal/domain/access"
	domain "fieldops-backend/internal/domain/masterdata"
	"fieldops-backend/pkg/id"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrInvalidInput = errors.New("invalid input")

type Usecase struct {
	workOrders domain.WorkOrderRepository
	lineItems  domain.LineItemRepository
	log        *zap.Logger
}

func NewUsecase(workOrders domain.WorkOrderRepository, lineItems domain.LineItemRepository, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{workOrders: workOrders, lineItems: lineItems, log: log}
}

// requireAdmin gates every master-data write.
func requireAdmin(scope access.Scope) error {
	if !scope.Is(access.RoleAdmin) {
		return fmt.Errorf("%w: master data is maintained by admins", access.ErrForbidden)
	}
	return nil
}

func requireScope(scope access.Scope) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: missing or unrecognised role", access.ErrForbidden)
	}
	return nil
}

// CreateWorkOrder rejects an order number that already exists (exact, case-sensitive match).
func (u *Usecase) CreateWorkOrder(ctx context.Context, scope access.Scope, in CreateWorkOrderInput) (*WorkOrderDTO, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	number := strings.TrimSpace(in.OrderNumber)
	if number == "" {
		return nil, fmt.Errorf("%w: order number is required", ErrInvalidInput)
	}

	_, err := u.workOrders.GetByOrderNumber(ctx, number)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateKey
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	w := &domain.WorkOrder{ID: id.NewID32(), OrderNumber: number}
	if err := u.workOrders.Create(ctx, w); err != nil {
		// unique index still guards the race between check and insert
		return nil, err
	}
	u.log.Info("work order created",
		zap.String("work_order_id", w.ID),
		zap.String("order_number", number),
		zap.String("admin_id", scope.UserID))
	dto := toWorkOrderDTO(w)
	return &dto, nil
}

func (u *Usecase) ListWorkOrders(ctx context.Context, scope access.Scope) ([]WorkOrderDTO, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	rows, err := u.workOrders.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WorkOrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toWorkOrderDTO(&rows[i]))
	}
	return out, nil
}

func (u *Usecase) CreateLineItem(ctx context.Context, scope access.Scope, in CreateLineItemInput) (*LineItemDTO, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.WorkOrderID) == "" || strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.UOM) == "" {
		return nil, fmt.Errorf("%w: workOrderId, name and uom are required", ErrInvalidInput)
	}
	if err := domain.CheckRate(in.Rate); err != nil {
		return nil, err
	}
	if _, err := u.workOrders.GetByID(ctx, in.WorkOrderID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidReference
		}
		return nil, err
	}

	li := &domain.LineItem{
		ID:               id.NewID32(),
		WorkOrderID:      in.WorkOrderID,
		Name:             strings.TrimSpace(in.Name),
		UOM:              strings.TrimSpace(in.UOM),
		Rate:             in.Rate,
		StandardManpower: in.StandardManpower,
	}
	if err := u.lineItems.Create(ctx, li); err != nil {
		return nil, err
	}
	u.log.Info("line item created",
		zap.String("line_item_id", li.ID),
		zap.String("work_order_id", li.WorkOrderID),
		zap.String("rate", li.Rate.String()),
		zap.String("admin_id", scope.UserID))
	dto := toLineItemDTO(scope, li)
	return &dto, nil
}

// ListLineItems returns every line item, or those of one work order when
// workOrderID is set. Supervisors get them without the rate.
func (u *Usecase) ListLineItems(ctx context.Context, scope access.Scope, workOrderID string) ([]LineItemDTO, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	rows, err := u.lineItems.List(ctx, strings.TrimSpace(workOrderID))
	if err != nil {
		return nil, err
	}
	out := make([]LineItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toLineItemDTO(scope, &rows[i]))
	}
	return out, nil
}

// UpdateLineItemRate changes live master data only. Submissions already
// created keep the rate they snapshotted.
func (u *Usecase) UpdateLineItemRate(ctx context.Context, scope access.Scope, lineItemID string, rate decimal.Decimal) (*LineItemDTO, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	if err := domain.CheckRate(rate); err != nil {
		return nil, err
	}
	if err := u.lineItems.UpdateRate(ctx, lineItemID, rate); err != nil {
		return nil, err
	}
	li, err := u.lineItems.GetByID(ctx, lineItemID)
	if err != nil {
		return nil, err
	}
	u.log.Info("line item rate updated",
		zap.String("line_item_id", li.ID),
		zap.String("rate", rate.String()),
		zap.String("admin_id", scope.UserID))
	dto := toLineItemDTO(scope, li)
	return &dto, nil
}
