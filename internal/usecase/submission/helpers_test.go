package submission

import (
	"context"
	"sort"
	"testing"
	"time"

	"fieldops-backend/internal/domain/access"
	"fieldops-backend/internal/domain/masterdata"
	domain "fieldops-backend/internal/domain/submission"
	"fieldops-backend/internal/domain/uow"
	"fieldops-backend/internal/testutil/masterdatamock"
	"fieldops-backend/internal/testutil/photomock"
	"fieldops-backend/internal/testutil/submissionmock"
	"fieldops-backend/internal/testutil/uowmock"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// mem backs the Fn-field mocks with maps. WithinTx snapshots the maps and
// restores them when the callback fails, standing in for a rollback.
type mem struct {
	t      *testing.T
	subs   map[string]domain.Submission
	orders map[string]masterdata.WorkOrder
	items  map[string]masterdata.LineItem
	clock  time.Time

	// failCreate makes the next Submissions.Create return this error.
	failCreate error
}

func newMem(t *testing.T) *mem {
	return &mem{
		t:      t,
		subs:   map[string]domain.Submission{},
		orders: map[string]masterdata.WorkOrder{},
		items:  map[string]masterdata.LineItem{},
		clock:  time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

func clone(s domain.Submission) domain.Submission {
	s.EvidencePhotos = datatypes.JSONSlice[string](append([]string{}, s.EvidencePhotos...))
	if s.PreviousSubmissionID != nil {
		p := *s.PreviousSubmissionID
		s.PreviousSubmissionID = &p
	}
	return s
}

func (m *mem) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *mem) submissionRepo() *submissionmock.Repo {
	get := func(_ context.Context, id string) (*domain.Submission, error) {
		s, ok := m.subs[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		c := clone(s)
		return &c, nil
	}
	return &submissionmock.Repo{
		CreateFn: func(_ context.Context, s *domain.Submission) error {
			if err := m.failCreate; err != nil {
				m.failCreate = nil
				return err
			}
			now := m.tick()
			s.CreatedAt, s.UpdatedAt = now, now
			m.subs[s.ID] = clone(*s)
			return nil
		},
		GetByIDFn:          get,
		GetByIDForUpdateFn: get,
		ListFn: func(_ context.Context, f domain.Filter) ([]domain.Submission, error) {
			var out []domain.Submission
			for _, s := range m.subs {
				if f.SupervisorID != "" && s.SupervisorID != f.SupervisorID {
					continue
				}
				if len(f.Statuses) > 0 && !containsStatus(f.Statuses, s.Status) {
					continue
				}
				out = append(out, clone(s))
			}
			sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
			return out, nil
		},
		UpdateFn: func(_ context.Context, s *domain.Submission, expected int64) error {
			cur, ok := m.subs[s.ID]
			if !ok {
				return domain.ErrNotFound
			}
			if cur.Version != expected {
				return domain.ErrConflict
			}
			s.Version = expected + 1
			s.UpdatedAt = m.tick()
			// only workflow and input columns are written
			cur.Quantity, cur.Revenue = s.Quantity, s.Revenue
			cur.ActualManpower, cur.MaterialConsumed = s.ActualManpower, s.MaterialConsumed
			cur.Status, cur.Remarks, cur.AdminRemarks = s.Status, s.Remarks, s.AdminRemarks
			cur.EvidencePhotos = s.EvidencePhotos
			cur.Version, cur.UpdatedAt = s.Version, s.UpdatedAt
			m.subs[s.ID] = clone(cur)
			return nil
		},
	}
}

func containsStatus(list []domain.Status, st domain.Status) bool {
	for _, x := range list {
		if x == st {
			return true
		}
	}
	return false
}

func (m *mem) workOrderRepo() *masterdatamock.WorkOrderRepo {
	return &masterdatamock.WorkOrderRepo{
		GetByIDFn: func(_ context.Context, id string) (*masterdata.WorkOrder, error) {
			w, ok := m.orders[id]
			if !ok {
				return nil, masterdata.ErrNotFound
			}
			return &w, nil
		},
	}
}

func (m *mem) lineItemRepo() *masterdatamock.LineItemRepo {
	get := func(_ context.Context, id string) (*masterdata.LineItem, error) {
		li, ok := m.items[id]
		if !ok {
			return nil, masterdata.ErrNotFound
		}
		return &li, nil
	}
	return &masterdatamock.LineItemRepo{
		GetByIDFn:          get,
		GetByIDForUpdateFn: get,
		UpdateRateFn: func(_ context.Context, id string, rate decimal.Decimal) error {
			li, ok := m.items[id]
			if !ok {
				return masterdata.ErrNotFound
			}
			li.Rate = rate
			m.items[id] = li
			return nil
		},
	}
}

func (m *mem) repos() uow.Repos {
	return uow.Repos{
		WorkOrders:  m.workOrderRepo(),
		LineItems:   m.lineItemRepo(),
		Submissions: m.submissionRepo(),
	}
}

func (m *mem) snapshot() map[string]domain.Submission {
	cp := make(map[string]domain.Submission, len(m.subs))
	for k, v := range m.subs {
		cp[k] = clone(v)
	}
	return cp
}

func (m *mem) tx() *uowmock.UoW {
	repos := m.repos()
	return &uowmock.UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			saved := m.snapshot()
			if err := fn(repos); err != nil {
				m.subs = saved
				return err
			}
			return nil
		},
		WithinSubmissionTxFn: func(ctx context.Context, id string, fn func(uow.Repos, *domain.Submission) error) error {
			saved := m.snapshot()
			s, err := repos.Submissions.GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if err := fn(repos, s); err != nil {
				m.subs = saved
				return err
			}
			return nil
		},
	}
}

func (m *mem) usecase(photos *photomock.Store) *Usecase {
	if photos == nil {
		photos = &photomock.Store{}
	}
	return NewUsecase(m.repos(), m.tx(), photos, nil)
}

// seedLineItem adds a work order and one line item under it.
func (m *mem) seedLineItem(woID, liID, rate, uom string) {
	m.orders[woID] = masterdata.WorkOrder{ID: woID, OrderNumber: "ON-" + woID}
	m.items[liID] = masterdata.LineItem{
		ID:               liID,
		WorkOrderID:      woID,
		Name:             "Item " + liID,
		UOM:              uom,
		Rate:             decimal.RequireFromString(rate),
		StandardManpower: "2 crew",
	}
}

func (m *mem) stored(id string) domain.Submission {
	m.t.Helper()
	s, ok := m.subs[id]
	if !ok {
		m.t.Fatalf("submission %s not stored", id)
	}
	return s
}

func (m *mem) countStatus(st domain.Status) int {
	n := 0
	for _, s := range m.subs {
		if s.Status == st {
			n++
		}
	}
	return n
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

var (
	supervisor1 = access.Scope{Role: access.RoleSupervisor, UserID: "sup-1"}
	supervisor2 = access.Scope{Role: access.RoleSupervisor, UserID: "sup-2"}
	validator   = access.Scope{Role: access.RoleValidator, UserID: "val-1"}
	admin       = access.Scope{Role: access.RoleAdmin, UserID: "adm-1"}
)

func createInput(li, wo, qty string) CreateInput {
	return CreateInput{
		SupervisorID:   "sup-1",
		SupervisorName: "Sam",
		WorkOrderID:    wo,
		LineItemID:     li,
		Quantity:       dec(qty),
		ActualManpower: "3 crew",
	}
}
