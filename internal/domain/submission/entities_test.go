package submission

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops-backend/internal/domain/masterdata"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func newPending(t *testing.T, qty, rate string) *Submission {
	t.Helper()
	s, err := New(NewParams{
		ID: "s1", SupervisorID: "sup-1", SupervisorName: "Sam",
		WorkOrderID: "wo-1", LineItemID: "li-1",
		Quantity: dec(qty), Photos: []string{"a.jpg"},
	}, RateSnapshot{Rate: dec(rate), StandardManpower: "4 pax"})
	require.NoError(t, err)
	return s
}

func TestRevenue_NoFloatDrift(t *testing.T) {
	// 0.1 * 3 drifts in float64; decimal must be exact.
	assert.True(t, Revenue(dec("3"), dec("0.10")).Equal(dec("0.3")))
	assert.True(t, Revenue(dec("1.005"), dec("19.99")).Equal(dec("20.08995")))
	assert.True(t, Revenue(dec("5"), dec("100")).Equal(dec("500")))
}

func TestSnapshotOf_CopiesValues(t *testing.T) {
	li := &masterdata.LineItem{ID: "li-1", Rate: dec("50"), StandardManpower: "2 pax"}
	snap := SnapshotOf(li)

	li.Rate = dec("75")
	li.StandardManpower = "3 pax"

	assert.True(t, snap.Rate.Equal(dec("50")))
	assert.Equal(t, "2 pax", snap.StandardManpower)
}

func TestNew(t *testing.T) {
	s := newPending(t, "5", "100")

	assert.Equal(t, StatusPendingValidation, s.Status)
	assert.True(t, s.Revenue.Equal(dec("500")))
	assert.Equal(t, int64(1), s.Version)
	assert.Nil(t, s.PreviousSubmissionID)
	assert.Equal(t, []string{"a.jpg"}, s.Photos())
}

func TestNew_WithPredecessorAndNegativeQuantity(t *testing.T) {
	s, err := New(NewParams{ID: "s2", Quantity: dec("4"), PreviousSubmissionID: "s1"}, RateSnapshot{Rate: dec("50")})
	require.NoError(t, err)
	require.NotNil(t, s.PreviousSubmissionID)
	assert.Equal(t, "s1", *s.PreviousSubmissionID)
	assert.True(t, s.Revenue.Equal(dec("200")))

	_, err = New(NewParams{ID: "s3", Quantity: dec("-1")}, RateSnapshot{Rate: dec("50")})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestDecide_Approve(t *testing.T) {
	s := newPending(t, "5", "100")
	s.Remarks = "stale"

	require.NoError(t, s.Decide(StatusApproved, nil, nil))
	assert.Equal(t, StatusApproved, s.Status)
	assert.Equal(t, "", s.Remarks)
}

func TestDecide_ApproveWithQuantityUsesSnapshot(t *testing.T) {
	s := newPending(t, "5", "100")

	require.NoError(t, s.Decide(StatusApproved, nil, ptr(dec("7.5"))))
	assert.True(t, s.Quantity.Equal(dec("7.5")))
	assert.True(t, s.Revenue.Equal(dec("750")))
	assert.True(t, s.Revenue.Equal(s.Quantity.Mul(s.Snapshot.Rate)))
}

func TestDecide_Reject(t *testing.T) {
	s := newPending(t, "3", "50")
	require.NoError(t, s.Decide(StatusRejected, ptr("redo"), nil))
	assert.Equal(t, StatusRejected, s.Status)
	assert.Equal(t, "redo", s.Remarks)

	s = newPending(t, "3", "50")
	require.NoError(t, s.Decide(StatusRejected, ptr(""), nil))
	assert.Equal(t, DefaultRejectRemarks, s.Remarks)
}

func TestDecide_TerminalIsRejected(t *testing.T) {
	s := newPending(t, "5", "100")
	require.NoError(t, s.Decide(StatusApproved, nil, nil))

	err := s.Decide(StatusApproved, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	err = s.Decide(StatusRejected, ptr("late"), nil)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Equal(t, StatusApproved, s.Status)
	assert.Equal(t, "", s.Remarks)
}

func TestDecide_InvalidQuantityLeavesRecordUntouched(t *testing.T) {
	s := newPending(t, "5", "100")
	err := s.Decide(StatusApproved, nil, ptr(dec("-2")))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, StatusPendingValidation, s.Status)
	assert.True(t, s.Revenue.Equal(dec("500")))
}

func TestSupersede(t *testing.T) {
	s := newPending(t, "3", "50")
	assert.ErrorIs(t, s.Supersede(), ErrInvalidStateTransition)

	require.NoError(t, s.Decide(StatusRejected, ptr("redo"), nil))
	require.NoError(t, s.Supersede())
	assert.Equal(t, StatusResubmitted, s.Status)
	assert.ErrorIs(t, s.Supersede(), ErrInvalidStateTransition)
}

func TestCheckQuantity_Scale(t *testing.T) {
	assert.NoError(t, CheckQuantity(dec("0")))
	assert.NoError(t, CheckQuantity(dec("12.3456")))
	assert.NoError(t, CheckQuantity(dec("12.34560")))
	assert.ErrorIs(t, CheckQuantity(dec("12.34567")), ErrInvalidQuantity)
	assert.ErrorIs(t, CheckQuantity(dec("-0.0001")), ErrInvalidQuantity)
}
