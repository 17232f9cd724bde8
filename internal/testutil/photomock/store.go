package photomock

import (
	"context"
	"fmt"
	"io"

	"fieldops-backend/internal/domain/photo"
)

var _ photo.Store = (*Store)(nil)

// Store is a function-backed photo.Store. Without PutFn it drains the body and
// returns mem://<n>/<filename>, recording each reference.
type Store struct {
	PutFn func(ctx context.Context, u photo.Upload) (string, error)
	Refs  []string
}

func (m *Store) Put(ctx context.Context, u photo.Upload) (string, error) {
	if m.PutFn != nil {
		return m.PutFn(ctx, u)
	}
	if u.Body != nil {
		if _, err := io.Copy(io.Discard, u.Body); err != nil {
			return "", err
		}
	}
	ref := fmt.Sprintf("mem://%d/%s", len(m.Refs)+1, u.Filename)
	m.Refs = append(m.Refs, ref)
	return ref, nil
}
