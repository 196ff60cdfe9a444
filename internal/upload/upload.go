// Package upload stores media files sent from the admin console under the
// site's public directory.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Target directories, relative to the public root.
const (
	DirAudio = "audio"
	DirPrint = "3d-print"
)

// ErrEmptyName is returned when the uploaded file has no usable name.
var ErrEmptyName = errors.New("uploaded file has no name")

var whitespace = regexp.MustCompile(`\s`)

// Store writes uploads below root.
type Store struct {
	root string
	now  func() time.Time
}

// NewStore creates a store rooted at the site's public directory.
func NewStore(root string) *Store {
	return &Store{root: root, now: time.Now}
}

// Dir picks the target directory: mp3 audio goes to DirAudio, everything
// else to DirPrint.
func Dir(name, contentType string) string {
	if contentType == "audio/mpeg" || contentType == "audio/mp3" || strings.HasSuffix(name, ".mp3") {
		return DirAudio
	}
	return DirPrint
}

// FileName builds the stored name: upload_<unix-ms>_<name, whitespace as _>.
func FileName(name string, at time.Time) string {
	return fmt.Sprintf("upload_%d_%s", at.UnixMilli(), whitespace.ReplaceAllString(name, "_"))
}

// Save copies r to its target directory and returns the public path
// ("/<dir>/<file>").
func (s *Store) Save(name, contentType string, r io.Reader) (string, error) {
	// only the base name is kept so "../" cannot escape root
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." {
		return "", ErrEmptyName
	}

	dir := Dir(name, contentType)
	file := FileName(name, s.now())

	target := filepath.Join(s.root, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(target, file), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close upload file: %w", err)
	}

	return path.Join("/", dir, file), nil
}
