package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/MrSnakeDoc/folio/internal/logger"
)

// GitRepoOptions configures the local working-copy backend.
type GitRepoOptions struct {
	Dir         string // working copy root
	Path        string // file inside the working copy, defaults to DefaultPath
	RemoteName  string // empty = commit locally, never pull or push
	Token       string // HTTPS token used for pull/push
	AuthorName  string
	AuthorEmail string
}

// GitRepo commits the document into a local clone and optionally pushes it,
// for deployments where the site builds from a checkout on the same host.
type GitRepo struct {
	opts GitRepoOptions
	log  logger.Logger
	now  func() time.Time

	beforePush func() // test hook
}

// NewGitRepo opens (but does not yet read) the working copy at opts.Dir.
func NewGitRepo(opts GitRepoOptions, log logger.Logger) (*GitRepo, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("git working copy directory is required")
	}
	if _, err := git.PlainOpen(opts.Dir); err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", opts.Dir, err)
	}
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.AuthorName == "" {
		opts.AuthorName = "folio"
	}
	if opts.AuthorEmail == "" {
		opts.AuthorEmail = "folio@localhost"
	}
	return &GitRepo{opts: opts, log: log, now: time.Now}, nil
}

func (g *GitRepo) Name() string { return "git" }

// Fetch reads the working-copy file. The revision is the HEAD commit hash.
func (g *GitRepo) Fetch(_ context.Context) ([]byte, string, error) {
	repo, err := git.PlainOpen(g.opts.Dir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open git repository: %w", err)
	}

	data, err := os.ReadFile(g.filePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to read %s: %w", g.opts.Path, err)
	}

	head, err := headHash(repo)
	if err != nil {
		return nil, "", err
	}
	return data, head, nil
}

// Publish pulls (best effort), writes the file, commits it and pushes when a
// remote is configured. Nothing to commit is not an error.
func (g *GitRepo) Publish(ctx context.Context, data []byte, message string) (string, error) {
	repo, err := git.PlainOpen(g.opts.Dir)
	if err != nil {
		return "", fmt.Errorf("failed to open git repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to open worktree: %w", err)
	}

	if g.opts.RemoteName != "" {
		err := wt.PullContext(ctx, &git.PullOptions{RemoteName: g.opts.RemoteName, Auth: g.auth()})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			g.log.Warn("git pull failed, continuing with local state",
				logger.String("remote", g.opts.RemoteName),
				logger.Error(err))
		}
	}

	marker, err := headHash(repo)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(g.filePath()), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", g.opts.Path, err)
	}
	if err := os.WriteFile(g.filePath(), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", g.opts.Path, err)
	}
	if _, err := wt.Add(filepath.ToSlash(g.opts.Path)); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", g.opts.Path, err)
	}

	status, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("failed to read worktree status: %w", err)
	}
	if fs, ok := status[filepath.ToSlash(g.opts.Path)]; !ok || fs.Staging == git.Unmodified {
		g.log.Info("nothing to commit, content unchanged")
		return marker, nil
	}

	hash, err := wt.Commit(commitMessage(message), &git.CommitOptions{
		Author: &object.Signature{
			Name:  g.opts.AuthorName,
			Email: g.opts.AuthorEmail,
			When:  g.now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	if g.opts.RemoteName != "" {
		if g.beforePush != nil {
			g.beforePush()
		}
		if err := g.push(ctx, repo); err != nil {
			g.rollback(wt, marker)
			return "", err
		}
	}

	return hash.String(), nil
}

func (g *GitRepo) push(ctx context.Context, repo *git.Repository) error {
	err := repo.PushContext(ctx, &git.PushOptions{RemoteName: g.opts.RemoteName, Auth: g.auth()})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil
	case isRejected(err):
		return fmt.Errorf("%w: %v", ErrStaleRevision, err)
	default:
		return fmt.Errorf("failed to push: %w", err)
	}
}

// isRejected reports a push refused because the remote moved on. go-git's
// client-side fast-forward check returns a formatted error, not the sentinel.
func isRejected(err error) bool {
	return errors.Is(err, git.ErrNonFastForwardUpdate) ||
		errors.Is(err, git.ErrForceNeeded) ||
		strings.Contains(err.Error(), "non-fast-forward")
}

// rollback drops the unpushed commit so the next publish can fast-forward.
func (g *GitRepo) rollback(wt *git.Worktree, marker string) {
	if marker == "" {
		g.log.Warn("push failed on a repository without history, local commit kept")
		return
	}
	err := wt.Reset(&git.ResetOptions{Commit: plumbing.NewHash(marker), Mode: git.HardReset})
	if err != nil {
		g.log.Error("failed to reset worktree after push failure",
			logger.String("revision", marker),
			logger.Error(err))
		return
	}
	g.log.Info("local commit rolled back after push failure", logger.String("revision", marker))
}

func (g *GitRepo) filePath() string {
	return filepath.Join(g.opts.Dir, filepath.FromSlash(g.opts.Path))
}

func (g *GitRepo) auth() transport.AuthMethod {
	if g.opts.Token == "" {
		return nil
	}
	return &githttp.BasicAuth{Username: "x-access-token", Password: g.opts.Token}
}

// headHash returns the HEAD commit hash, or "" for a repository with no commits.
func headHash(repo *git.Repository) (string, error) {
	ref, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}
