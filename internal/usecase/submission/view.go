package submission

import (
	"context"
	"errors"

	"fieldops-backend/internal/domain/access"
	"fieldops-backend/internal/domain/masterdata"
	domain "fieldops-backend/internal/domain/submission"
)

// visible reports whether scope may see s at all.
func visible(scope access.Scope, s *domain.Submission) bool {
	switch scope.Role {
	case access.RoleSupervisor:
		return s.SupervisorID == scope.UserID
	case access.RoleAdmin:
		return s.Status == domain.StatusApproved
	case access.RoleValidator:
		return true
	}
	return false
}

// listFilter turns a scope plus an optional status into a repository filter.
// ok is false when the combination can never match (admin asking for non-approved).
func listFilter(scope access.Scope, statuses []domain.Status) (f domain.Filter, ok bool) {
	switch scope.Role {
	case access.RoleSupervisor:
		return domain.Filter{SupervisorID: scope.UserID, Statuses: statuses}, true
	case access.RoleAdmin:
		for _, st := range statuses {
			if st != domain.StatusApproved {
				return domain.Filter{}, false
			}
		}
		return domain.Filter{Statuses: []domain.Status{domain.StatusApproved}}, true
	case access.RoleValidator:
		return domain.Filter{Statuses: statuses}, true
	}
	return domain.Filter{}, false
}

func shape(scope access.Scope, s *domain.Submission) View {
	v := View{
		ID:                   s.ID,
		SupervisorID:         s.SupervisorID,
		SupervisorName:       s.SupervisorName,
		WorkOrderID:          s.WorkOrderID,
		LineItemID:           s.LineItemID,
		Quantity:             s.Quantity,
		ActualManpower:       s.ActualManpower,
		MaterialConsumed:     s.MaterialConsumed,
		StandardManpower:     s.Snapshot.StandardManpower,
		Status:               s.Status.String(),
		Remarks:              s.Remarks,
		AdminRemarks:         s.AdminRemarks,
		PreviousSubmissionID: s.PreviousSubmissionID,
		EvidencePhotos:       append([]string{}, s.Photos()...),
		Version:              s.Version,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
	if scope.SeesFinancials() {
		rate, revenue := s.Snapshot.Rate, s.Revenue
		v.Rate, v.Revenue = &rate, &revenue
	}
	return v
}

// enricher resolves master-data labels, caching per call.
type enricher struct {
	workOrders masterdata.WorkOrderRepository
	lineItems  masterdata.LineItemRepository
	orders     map[string]*masterdata.WorkOrder
	items      map[string]*masterdata.LineItem
}

func (u *Usecase) newEnricher() *enricher {
	return &enricher{
		workOrders: u.workOrders,
		lineItems:  u.lineItems,
		orders:     map[string]*masterdata.WorkOrder{},
		items:      map[string]*masterdata.LineItem{},
	}
}

// fill copies labels into v. Missing master data leaves the labels blank.
func (e *enricher) fill(ctx context.Context, v *View) error {
	wo, ok := e.orders[v.WorkOrderID]
	if !ok {
		got, err := e.workOrders.GetByID(ctx, v.WorkOrderID)
		if err != nil && !errors.Is(err, masterdata.ErrNotFound) {
			return err
		}
		wo = got
		e.orders[v.WorkOrderID] = got
	}
	if wo != nil {
		v.OrderNumber = wo.OrderNumber
	}

	li, ok := e.items[v.LineItemID]
	if !ok {
		got, err := e.lineItems.GetByID(ctx, v.LineItemID)
		if err != nil && !errors.Is(err, masterdata.ErrNotFound) {
			return err
		}
		li = got
		e.items[v.LineItemID] = got
	}
	if li != nil {
		v.LineItemName = li.Name
		v.UOM = li.UOM
	}
	return nil
}

func (u *Usecase) view(ctx context.Context, scope access.Scope, s *domain.Submission) (*View, error) {
	v := shape(scope, s)
	if err := u.newEnricher().fill(ctx, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
