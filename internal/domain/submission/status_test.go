package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from    Status
		ev      Event
		want    Status
		wantErr bool
	}{
		{StatusPendingValidation, EventApprove, StatusApproved, false},
		{StatusPendingValidation, EventReject, StatusRejected, false},
		{StatusRejected, EventResubmit, StatusResubmitted, false},

		{StatusPendingValidation, EventResubmit, "", true},
		{StatusApproved, EventApprove, "", true},
		{StatusApproved, EventReject, "", true},
		{StatusApproved, EventResubmit, "", true},
		{StatusRejected, EventApprove, "", true},
		{StatusRejected, EventReject, "", true},
		{StatusResubmitted, EventApprove, "", true},
		{StatusResubmitted, EventResubmit, "", true},
		{Status("Draft"), EventApprove, "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.ev), func(t *testing.T) {
			got, err := Transition(tt.from, tt.ev)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidStateTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusResubmitted.IsTerminal())
	assert.False(t, StatusPendingValidation.IsTerminal())
	assert.False(t, StatusRejected.IsTerminal())
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPendingValidation.IsValid())
	assert.True(t, StatusResubmitted.IsValid())
	assert.False(t, Status("pending").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestDecisionEvent(t *testing.T) {
	ev, err := DecisionEvent(StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, EventApprove, ev)

	ev, err = DecisionEvent(StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, EventReject, ev)

	_, err = DecisionEvent(StatusResubmitted)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	_, err = DecisionEvent(StatusPendingValidation)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"Pending Validation": StatusPendingValidation,
		"pending_validation": StatusPendingValidation,
		"PENDINGVALIDATION":  StatusPendingValidation,
		" approved ":         StatusApproved,
		"Rejected":           StatusRejected,
		"resubmitted":        StatusResubmitted,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStatus("done")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseStatuses(t *testing.T) {
	got, err := ParseStatuses("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseStatuses("Approved, rejected")
	require.NoError(t, err)
	assert.Equal(t, []Status{StatusApproved, StatusRejected}, got)

	_, err = ParseStatuses("Approved,bogus")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
