package remote_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/remote"
)

func newGitRepo(t *testing.T) (*remote.GitRepo, *git.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	store, err := remote.NewGitRepo(remote.GitRepoOptions{Dir: dir}, logger.New("error", false))
	require.NoError(t, err)
	return store, repo, dir
}

func TestGitRepoFetchMissing(t *testing.T) {
	store, _, _ := newGitRepo(t)

	_, _, err := store.Fetch(context.Background())
	require.ErrorIs(t, err, remote.ErrNotFound)
}

func TestGitRepoPublishCommits(t *testing.T) {
	store, repo, dir := newGitRepo(t)
	ctx := context.Background()

	rev, err := store.Publish(ctx, []byte(`{"tabs":[]}`+"\n"), "")
	require.NoError(t, err)
	require.NotEmpty(t, rev)

	commit, err := repo.CommitObject(plumbing.NewHash(rev))
	require.NoError(t, err)
	assert.Equal(t, remote.DefaultCommitMessage, commit.Message)

	onDisk, err := os.ReadFile(filepath.Join(dir, "data", "content.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"tabs":[]}`+"\n", string(onDisk))

	data, fetched, err := store.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, rev, fetched)
	assert.Equal(t, onDisk, data)
}

func TestGitRepoPublishUnchangedKeepsRevision(t *testing.T) {
	store, _, _ := newGitRepo(t)
	ctx := context.Background()

	first, err := store.Publish(ctx, []byte(`{}`), "first")
	require.NoError(t, err)

	second, err := store.Publish(ctx, []byte(`{}`), "second")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	third, err := store.Publish(ctx, []byte(`{"tabs":[]}`), "third")
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestNewGitRepoRequiresRepository(t *testing.T) {
	_, err := remote.NewGitRepo(remote.GitRepoOptions{Dir: t.TempDir()}, logger.New("error", false))
	require.Error(t, err)

	_, err = remote.NewGitRepo(remote.GitRepoOptions{}, logger.New("error", false))
	require.Error(t, err)
}

// commitContent writes the content file into a working copy and commits it.
func commitContent(t *testing.T, repo *git.Repository, dir, body string) plumbing.Hash {
	t.Helper()
	path := filepath.Join(dir, "data", "content.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("data/content.json")
	require.NoError(t, err)
	hash, err := wt.Commit("edit "+body, &git.CommitOptions{
		Author: &object.Signature{Name: "editor", Email: "editor@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

// newOrigin returns a bare repository holding one commit, and that commit.
func newOrigin(t *testing.T) (string, plumbing.Hash) {
	t.Helper()
	bare := t.TempDir()
	_, err := git.PlainInit(bare, true)
	require.NoError(t, err)

	seedDir := t.TempDir()
	seed, err := git.PlainInit(seedDir, false)
	require.NoError(t, err)
	base := commitContent(t, seed, seedDir, `{"v":0}`)
	_, err = seed.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{bare}})
	require.NoError(t, err)
	require.NoError(t, seed.Push(&git.PushOptions{RemoteName: "origin"}))
	return bare, base
}

func TestGitRepoRejectedPushRollsBack(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("local push needs the git binary")
	}
	ctx := context.Background()
	origin, base := newOrigin(t)

	dir := t.TempDir()
	local, err := git.PlainClone(dir, false, &git.CloneOptions{URL: origin})
	require.NoError(t, err)
	store, err := remote.NewGitRepo(remote.GitRepoOptions{Dir: dir, RemoteName: "origin"}, logger.NewNop())
	require.NoError(t, err)

	// another editor pushes between our commit and our push
	var moved plumbing.Hash
	remote.SetBeforePush(store, func() {
		otherDir := t.TempDir()
		other, err := git.PlainClone(otherDir, false, &git.CloneOptions{URL: origin})
		require.NoError(t, err)
		moved = commitContent(t, other, otherDir, `{"v":1}`)
		require.NoError(t, other.Push(&git.PushOptions{RemoteName: "origin"}))
	})

	_, err = store.Publish(ctx, []byte(`{"v":2}`), "")
	require.Error(t, err)

	head, err := local.Head()
	require.NoError(t, err)
	assert.Equal(t, base, head.Hash(), "unpushed commit must be dropped")
	onDisk, err := os.ReadFile(filepath.Join(dir, "data", "content.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"v":0}`, string(onDisk))

	// a retry fast-forwards onto the other edit and goes through
	remote.SetBeforePush(store, nil)
	rev, err := store.Publish(ctx, []byte(`{"v":2}`), "")
	require.NoError(t, err)

	commit, err := local.CommitObject(plumbing.NewHash(rev))
	require.NoError(t, err)
	require.Len(t, commit.ParentHashes, 1)
	assert.Equal(t, moved, commit.ParentHashes[0])

	bare, err := git.PlainOpen(origin)
	require.NoError(t, err)
	ref, err := bare.Reference(plumbing.NewBranchReferenceName("master"), true)
	require.NoError(t, err)
	assert.Equal(t, rev, ref.Hash().String())
}
