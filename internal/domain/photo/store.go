package photo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrTooLarge    = errors.New("photo exceeds size limit")
	ErrUnsupported = errors.New("photo content type not supported")
)

// Upload is one evidence photo received from a supervisor.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store persists an upload and returns an opaque reference (URL or path).
type Store interface {
	Put(ctx context.Context, u Upload) (string, error)
}

// accepted image types and the extension each is stored under
var accepted = []struct{ mime, ext string }{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/webp", ".webp"},
	{"image/heic", ".heic"},
	{"image/heif", ".heif"},
}

// sniffLen is how much of the body Inspect reads to detect the type.
const sniffLen = 3072

// Ext is the stored extension for an inspected upload. The client's filename never decides it.
func (u Upload) Ext() string {
	for _, a := range accepted {
		if a.mime == u.ContentType {
			return a.ext
		}
	}
	return ""
}

// CheckContentType rejects a declared type that cannot be an accepted photo.
// Empty and application/octet-stream pass; Inspect decides those from the bytes.
func CheckContentType(ct string) error {
	ct, _, _ = strings.Cut(strings.ToLower(ct), ";")
	switch ct = strings.TrimSpace(ct); ct {
	case "", "application/octet-stream", "image/jpg":
		return nil
	}
	for _, a := range accepted {
		if a.mime == ct {
			return nil
		}
	}
	return ErrUnsupported
}

// Inspect detects the real type of u from its leading bytes. The returned
// upload carries the detected ContentType and a Body that still yields every byte.
func Inspect(u Upload) (Upload, error) {
	if err := CheckContentType(u.ContentType); err != nil {
		return u, err
	}
	if u.Body == nil {
		return u, ErrUnsupported
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(u.Body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return u, err
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	for _, a := range accepted {
		if detected.Is(a.mime) {
			u.ContentType = a.mime
			u.Body = io.MultiReader(bytes.NewReader(head), u.Body)
			return u, nil
		}
	}
	return u, ErrUnsupported
}
