package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fieldops-backend/internal/domain/photo"

	"go.uber.org/zap"
)

// LocalStore writes photos under baseDir and returns urlPrefix-relative references.
// Used when no object storage is configured.
type LocalStore struct {
	baseDir   string
	urlPrefix string
	maxBytes  int64
	log       *zap.Logger
}

func NewLocalStore(baseDir, urlPrefix string, maxBytes int64, log *zap.Logger) *LocalStore {
	return &LocalStore{
		baseDir:   baseDir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		maxBytes:  maxBytes,
		log:       log,
	}
}

// Put stores only uploads whose bytes are an accepted image; the stored
// extension follows the detected type, so nothing under baseDir is served as markup.
func (s *LocalStore) Put(ctx context.Context, u photo.Upload) (string, error) {
	if err := photo.CheckContentType(u.ContentType); err != nil {
		return "", err
	}
	if s.maxBytes > 0 && u.Size > s.maxBytes {
		return "", photo.ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	u, err := photo.Inspect(u)
	if err != nil {
		return "", err
	}

	rel := objectKey(time.Now().UTC(), u)
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		s.log.Error("Failed to create photo directory", zap.String("path", fullPath), zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	// declared size may lie, so cap the copy as well
	r := u.Body
	if s.maxBytes > 0 {
		r = io.LimitReader(u.Body, s.maxBytes+1)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && n > s.maxBytes {
		err = photo.ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}

	s.log.Debug("photo saved", zap.String("path", fullPath), zap.Int64("size", n))
	return s.urlPrefix + "/" + rel, nil
}
