package submission

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPendingValidation Status = "Pending Validation"
	StatusApproved          Status = "Approved"
	StatusRejected          Status = "Rejected"
	StatusResubmitted       Status = "Resubmitted"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingValidation, StatusApproved, StatusRejected, StatusResubmitted:
		return true
	}
	return false
}

// IsTerminal reports whether no event can move a record out of s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) String() string { return string(s) }

func normalise(s string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s))
}

// ParseStatus accepts the canonical names case-insensitively, ignoring spaces,
// underscores and dashes ("pending_validation" == "Pending Validation").
func ParseStatus(raw string) (Status, error) {
	n := normalise(strings.TrimSpace(raw))
	for _, st := range []Status{StatusPendingValidation, StatusApproved, StatusRejected, StatusResubmitted} {
		if normalise(string(st)) == n {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// ParseStatuses splits a comma-separated filter. Empty input means no filter.
func ParseStatuses(raw string) ([]Status, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []Status
	for _, part := range strings.Split(raw, ",") {
		st, err := ParseStatus(part)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

type Event string

const (
	EventApprove  Event = "approve"
	EventReject   Event = "reject"
	EventResubmit Event = "resubmit"
)

// Every legal per-record move. A resubmit retires the record; its successor starts at Pending Validation.
var transitions = map[Status]map[Event]Status{
	StatusPendingValidation: {
		EventApprove: StatusApproved,
		EventReject:  StatusRejected,
	},
	StatusRejected: {
		EventResubmit: StatusResubmitted,
	},
}

// Transition returns the status reached by firing ev from `from`.
func Transition(from Status, ev Event) (Status, error) {
	to, ok := transitions[from][ev]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s a submission in status %q", ErrInvalidStateTransition, ev, from)
	}
	return to, nil
}

// DecisionEvent maps a validator's requested status onto the matching event.
func DecisionEvent(target Status) (Event, error) {
	switch target {
	case StatusApproved:
		return EventApprove, nil
	case StatusRejected:
		return EventReject, nil
	}
	return "", fmt.Errorf("%w: validator cannot set status %q", ErrInvalidStateTransition, target)
}
