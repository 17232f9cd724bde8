package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Checker reports whether one dependency is reachable.
type Checker func(ctx context.Context) error

type Handler struct {
	checks map[string]Checker
}

func NewHandler(checks map[string]Checker) *Handler { return &Handler{checks: checks} }

func (h *Handler) Health(c echo.Context) error {
	body := map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(h.checks) == 0 {
		return c.JSON(http.StatusOK, body)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	code := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = err.Error()
			code = http.StatusServiceUnavailable
			body["status"] = "degraded"
			continue
		}
		results[name] = "ok"
	}
	body["checks"] = results
	return c.JSON(code, body)
}
