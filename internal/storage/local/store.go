// Package local stores uploaded blobs on the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"marketplace/internal/domain/services"
)

// Store keeps blobs under a single root directory. Every path is resolved
// through os.Root, so names cannot escape it.
type Store struct {
	root   *os.Root
	logger *slog.Logger
}

var _ services.BlobStore = (*Store)(nil)

// NewStore opens (creating if needed) the upload directory
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open upload directory: %w", err)
	}
	return &Store{root: root, logger: logger}, nil
}

// Store writes r to name and returns the path relative to the root.
// Existing blobs are never overwritten.
func (s *Store) Store(_ context.Context, name string, r io.Reader, _ services.BlobMeta) (string, error) {
	f, err := s.root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create blob %q: %w", name, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		s.discard(name)
		return "", fmt.Errorf("write blob %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		s.discard(name)
		return "", fmt.Errorf("close blob %q: %w", name, err)
	}

	return name, nil
}

// Remove deletes a blob; a missing blob is not an error
func (s *Store) Remove(_ context.Context, path string) error {
	if err := s.root.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob %q: %w", path, err)
	}
	return nil
}

// Exists reports whether a blob is present
func (s *Store) Exists(_ context.Context, path string) (bool, error) {
	_, err := s.root.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat blob %q: %w", path, err)
}

// Close releases the root directory handle
func (s *Store) Close() error {
	return s.root.Close()
}

func (s *Store) discard(name string) {
	if err := s.root.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove partial blob", "name", name, "error", err)
	}
}
