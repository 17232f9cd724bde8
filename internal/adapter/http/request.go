package http

import (
	"strconv"
	"strings"

	"fieldops-backend/internal/adapter/middleware"
	"fieldops-backend/internal/domain/access"

	"github.com/labstack/echo/v4"
)

const (
	headerIfMatch = "If-Match"
	headerETag    = "ETag"
)

// scopeFor resolves who is calling. A verified token wins. Without one, role
// and userId come from the query string; impliedRole and impliedUser fill in
// whatever the query leaves empty on routes only one role may use.
func scopeFor(c echo.Context, impliedRole access.Role, impliedUser string) (access.Scope, error) {
	if id, ok := middleware.IdentityFrom(c); ok {
		return access.NewScope(id.Role, id.UserID)
	}
	role := strings.TrimSpace(c.QueryParam("role"))
	if role == "" {
		role = string(impliedRole)
	}
	userID := strings.TrimSpace(c.QueryParam("userId"))
	if userID == "" {
		userID = impliedUser
	}
	return access.NewScope(role, userID)
}

// expectedVersion prefers the body's version and falls back to If-Match,
// which may be 3, "3" or W/"3".
func expectedVersion(c echo.Context, body *int64) (*int64, bool) {
	if body != nil {
		return body, true
	}
	raw := strings.TrimSpace(c.Request().Header.Get(headerIfMatch))
	if raw == "" || raw == "*" {
		return nil, true
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 1 {
		return nil, false
	}
	return &v, true
}

func setETag(c echo.Context, version int64) {
	c.Response().Header().Set(headerETag, strconv.Quote(strconv.FormatInt(version, 10)))
}
