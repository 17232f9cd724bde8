package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"strings"
	"testing"
	"time"

	"fieldops-backend/internal/domain/masterdata"
	domain "fieldops-backend/internal/domain/submission"
	"fieldops-backend/internal/domain/uow"
	"fieldops-backend/internal/testutil/masterdatamock"
	"fieldops-backend/internal/testutil/photomock"
	"fieldops-backend/internal/testutil/submissionmock"
	"fieldops-backend/internal/testutil/uowmock"
	ucMasterdata "fieldops-backend/internal/usecase/masterdata"
	ucSubmission "fieldops-backend/internal/usecase/submission"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	woID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	liID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// store keeps master data and submissions in maps behind the Fn-field mocks.
type store struct {
	orders map[string]masterdata.WorkOrder
	items  map[string]masterdata.LineItem
	subs   map[string]domain.Submission
	clock  time.Time
	photos *photomock.Store
}

func newStore() *store {
	s := &store{
		orders: map[string]masterdata.WorkOrder{},
		items:  map[string]masterdata.LineItem{},
		subs:   map[string]domain.Submission{},
		clock:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		photos: &photomock.Store{},
	}
	s.orders[woID] = masterdata.WorkOrder{ID: woID, OrderNumber: "WO-001", CreatedAt: s.clock}
	s.items[liID] = masterdata.LineItem{
		ID: liID, WorkOrderID: woID, Name: "Cable pulling", UOM: "m",
		Rate: decimal.RequireFromString("15000"), StandardManpower: "4",
	}
	return s
}

func (s *store) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func copySub(x domain.Submission) domain.Submission {
	x.EvidencePhotos = datatypes.JSONSlice[string](append([]string{}, x.EvidencePhotos...))
	return x
}

func (s *store) repos() uow.Repos {
	getSub := func(_ context.Context, id string) (*domain.Submission, error) {
		x, ok := s.subs[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		c := copySub(x)
		return &c, nil
	}
	getItem := func(_ context.Context, id string) (*masterdata.LineItem, error) {
		li, ok := s.items[id]
		if !ok {
			return nil, masterdata.ErrNotFound
		}
		return &li, nil
	}
	return uow.Repos{
		WorkOrders: &masterdatamock.WorkOrderRepo{
			CreateFn: func(_ context.Context, w *masterdata.WorkOrder) error {
				w.CreatedAt = s.tick()
				s.orders[w.ID] = *w
				return nil
			},
			GetByIDFn: func(_ context.Context, id string) (*masterdata.WorkOrder, error) {
				w, ok := s.orders[id]
				if !ok {
					return nil, masterdata.ErrNotFound
				}
				return &w, nil
			},
			GetByOrderNumberFn: func(_ context.Context, n string) (*masterdata.WorkOrder, error) {
				for _, w := range s.orders {
					if w.OrderNumber == n {
						w := w
						return &w, nil
					}
				}
				return nil, masterdata.ErrNotFound
			},
			ListFn: func(_ context.Context) ([]masterdata.WorkOrder, error) {
				out := make([]masterdata.WorkOrder, 0, len(s.orders))
				for _, w := range s.orders {
					out = append(out, w)
				}
				sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
				return out, nil
			},
		},
		LineItems: &masterdatamock.LineItemRepo{
			CreateFn: func(_ context.Context, li *masterdata.LineItem) error {
				li.CreatedAt = s.tick()
				s.items[li.ID] = *li
				return nil
			},
			GetByIDFn:          getItem,
			GetByIDForUpdateFn: getItem,
			ListFn: func(_ context.Context, wo string) ([]masterdata.LineItem, error) {
				var out []masterdata.LineItem
				for _, li := range s.items {
					if wo == "" || li.WorkOrderID == wo {
						out = append(out, li)
					}
				}
				return out, nil
			},
			UpdateRateFn: func(_ context.Context, id string, rate decimal.Decimal) error {
				li, ok := s.items[id]
				if !ok {
					return masterdata.ErrNotFound
				}
				li.Rate = rate
				s.items[id] = li
				return nil
			},
		},
		Submissions: &submissionmock.Repo{
			CreateFn: func(_ context.Context, x *domain.Submission) error {
				now := s.tick()
				x.CreatedAt, x.UpdatedAt = now, now
				s.subs[x.ID] = copySub(*x)
				return nil
			},
			GetByIDFn:          getSub,
			GetByIDForUpdateFn: getSub,
			ListFn: func(_ context.Context, f domain.Filter) ([]domain.Submission, error) {
				var out []domain.Submission
				for _, x := range s.subs {
					if f.SupervisorID != "" && x.SupervisorID != f.SupervisorID {
						continue
					}
					if len(f.Statuses) > 0 {
						keep := false
						for _, st := range f.Statuses {
							keep = keep || st == x.Status
						}
						if !keep {
							continue
						}
					}
					out = append(out, copySub(x))
				}
				sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
				return out, nil
			},
			UpdateFn: func(_ context.Context, x *domain.Submission, expected int64) error {
				cur, ok := s.subs[x.ID]
				if !ok {
					return domain.ErrNotFound
				}
				if cur.Version != expected {
					return domain.ErrConflict
				}
				x.Version = expected + 1
				x.UpdatedAt = s.tick()
				s.subs[x.ID] = copySub(*x)
				return nil
			},
		},
	}
}

// server wires real usecases over the store into an echo instance with all routes.
func (s *store) server() *echo.Echo {
	e := newEchoWithValidator()
	repos := s.repos()
	subs := ucSubmission.NewUsecase(repos, uowmock.Passthrough(repos), s.photos, nil)
	md := ucMasterdata.NewUsecase(repos.WorkOrders, repos.LineItems, nil)
	Register(e, NewHandler(nil), NewSubmissionHandler(subs, nil), NewMasterDataHandler(md, nil))
	return e
}

// seed stores a submission directly and returns it.
func (s *store) seed(t *testing.T, id, supervisorID string, st domain.Status, qty string) domain.Submission {
	t.Helper()
	li := s.items[liID]
	x, err := domain.New(domain.NewParams{
		ID: id, SupervisorID: supervisorID, SupervisorName: "Sam",
		WorkOrderID: woID, LineItemID: liID, Quantity: decimal.RequireFromString(qty),
		ActualManpower: "3",
	}, domain.SnapshotOf(&li))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	x.Status = st
	if st == domain.StatusRejected {
		x.Remarks = "photo blurry"
	}
	now := s.tick()
	x.CreatedAt, x.UpdatedAt = now, now
	s.subs[id] = *x
	return *x
}

func do(t *testing.T, e *echo.Echo, method, target string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type part struct {
	name, filename, contentType, value string
}

// multipartBody builds a form; parts with a filename become file parts.
func multipartBody(t *testing.T, parts []part) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.filename == "" {
			if err := w.WriteField(p.name, p.value); err != nil {
				t.Fatalf("field: %v", err)
			}
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+p.name+`"; filename="`+p.filename+`"`)
		h.Set("Content-Type", p.contentType)
		fw, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("part: %v", err)
		}
		_, _ = io.Copy(fw, strings.NewReader(p.value))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad error json: %v; raw=%s", err, rec.Body.String())
	}
	return er
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) ucSubmission.View {
	t.Helper()
	var v ucSubmission.View
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("bad view json: %v; raw=%s", err, rec.Body.String())
	}
	return v
}
