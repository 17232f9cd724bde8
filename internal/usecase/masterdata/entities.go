package masterdata

import (
	"time"

	"fieldops-backend/internal/domain/access"
	domain "fieldops-backend/internal/domain/masterdata"

	"github.com/shopspring/decimal"
)

type CreateWorkOrderInput struct {
	OrderNumber string
}

type CreateLineItemInput struct {
	WorkOrderID      string
	Name             string
	UOM              string
	Rate             decimal.Decimal
	StandardManpower string
}

type WorkOrderDTO struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LineItemDTO omits Rate for roles that do not see financials.
type LineItemDTO struct {
	ID               string           `json:"id"`
	WorkOrderID      string           `json:"workOrderId"`
	Name             string           `json:"name"`
	UOM              string           `json:"uom"`
	Rate             *decimal.Decimal `json:"rate,omitempty"`
	StandardManpower string           `json:"standardManpower"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func toWorkOrderDTO(w *domain.WorkOrder) WorkOrderDTO {
	return WorkOrderDTO{ID: w.ID, OrderNumber: w.OrderNumber, CreatedAt: w.CreatedAt}
}

func toLineItemDTO(scope access.Scope, li *domain.LineItem) LineItemDTO {
	dto := LineItemDTO{
		ID:               li.ID,
		WorkOrderID:      li.WorkOrderID,
		Name:             li.Name,
		UOM:              li.UOM,
		StandardManpower: li.StandardManpower,
		CreatedAt:        li.CreatedAt,
		UpdatedAt:        li.UpdatedAt,
	}
	if scope.SeesFinancials() {
		rate := li.Rate
		dto.Rate = &rate
	}
	return dto
}
