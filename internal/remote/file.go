package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File keeps the document on the local filesystem, for development and for
// sites that read the file straight from disk.
type File struct {
	path string
}

// NewFile returns a file-backed store rooted at path.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string { return "file" }

// Fetch reads the file; the revision is its blob hash.
func (f *File) Fetch(_ context.Context) ([]byte, string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return data, BlobRevision(data), nil
}

// Publish replaces the file atomically through a temp file and rename.
func (f *File) Publish(_ context.Context, data []byte, _ string) (string, error) {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".content-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return "", fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return BlobRevision(data), nil
}
