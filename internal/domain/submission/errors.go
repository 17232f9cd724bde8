package submission

import "errors"

var (
	ErrNotFound               = errors.New("submission not found")
	ErrInvalidReference       = errors.New("invalid work order or line item reference")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrConflict               = errors.New("submission was modified concurrently")
	ErrInvalidStatus          = errors.New("unknown submission status")
	ErrInvalidQuantity        = errors.New("quantity must be non-negative with at most 4 decimal places")
)
