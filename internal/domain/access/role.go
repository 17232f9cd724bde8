package access

import (
	"errors"
	"fmt"
	"strings"
)

var ErrForbidden = errors.New("forbidden")

type Role string

const (
	RoleSupervisor Role = "supervisor"
	RoleValidator  Role = "validator"
	RoleAdmin      Role = "admin"
)

// Scope is the caller identity a submission query is evaluated against.
type Scope struct {
	Role   Role
	UserID string
}

// NewScope fails closed: an unknown or missing role, or a supervisor without a user id, is ErrForbidden.
func NewScope(role, userID string) (Scope, error) {
	r := Role(strings.ToLower(strings.TrimSpace(role)))
	userID = strings.TrimSpace(userID)
	switch r {
	case RoleValidator, RoleAdmin:
		return Scope{Role: r, UserID: userID}, nil
	case RoleSupervisor:
		if userID == "" {
			return Scope{}, fmt.Errorf("%w: supervisor scope requires a user id", ErrForbidden)
		}
		return Scope{Role: r, UserID: userID}, nil
	}
	return Scope{}, fmt.Errorf("%w: unrecognised role %q", ErrForbidden, role)
}

// SeesFinancials reports whether rate and revenue may be shown.
func (s Scope) SeesFinancials() bool { return s.Role != RoleSupervisor }

func (s Scope) Is(r Role) bool { return s.Role == r }

// Valid is false for the zero Scope and anything not built by NewScope.
func (s Scope) Valid() bool {
	switch s.Role {
	case RoleValidator, RoleAdmin:
		return true
	case RoleSupervisor:
		return s.UserID != ""
	}
	return false
}
