// Package remote holds the backends that own the published content document.
package remote

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5/plumbing"
)

var (
	// ErrNotFound is returned by Fetch when the document does not exist yet.
	ErrNotFound = errors.New("remote document not found")
	// ErrStaleRevision is returned by Publish when the revision marker read
	// before the write no longer matches. There is no retry.
	ErrStaleRevision = errors.New("remote document changed since it was read")
)

// DefaultPath is where the document lives inside the repository.
const DefaultPath = "data/content.json"

// DefaultCommitMessage is used when the operator leaves the message empty.
const DefaultCommitMessage = "update: content.json via admin tool"

// Store reads and replaces the whole content document. Writes are
// read-modify-write: the current revision marker is fetched and the write is
// conditioned on it.
type Store interface {
	Name() string
	Fetch(ctx context.Context) (data []byte, revision string, err error)
	Publish(ctx context.Context, data []byte, message string) (revision string, err error)
}

// BlobRevision returns the git blob hash of data, the same marker the
// hosted contents API reports as "sha".
func BlobRevision(data []byte) string {
	return plumbing.ComputeHash(plumbing.BlobObject, data).String()
}

func commitMessage(message string) string {
	if message == "" {
		return DefaultCommitMessage
	}
	return message
}
