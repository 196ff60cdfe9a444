package remote_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/folio/internal/remote"
)

func TestFileRoundTrip(t *testing.T) {
	store := remote.NewFile(filepath.Join(t.TempDir(), "data", "content.json"))
	ctx := context.Background()

	_, _, err := store.Fetch(ctx)
	require.ErrorIs(t, err, remote.ErrNotFound)

	rev, err := store.Publish(ctx, []byte(`{"tabs":[]}`), "ignored")
	require.NoError(t, err)

	data, fetched, err := store.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"tabs":[]}`, string(data))
	assert.Equal(t, rev, fetched)
}

func TestBlobRevisionMatchesGit(t *testing.T) {
	// `printf 'hello\n' | git hash-object --stdin`
	assert.Equal(t, "ce013625030ba8dba906f756967f9e9ca394464a", remote.BlobRevision([]byte("hello\n")))
}
