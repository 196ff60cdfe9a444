package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// GitHubOptions configures the hosted contents API backend.
type GitHubOptions struct {
	Token   string // personal access token with contents:write
	Owner   string
	Repo    string
	Path    string // defaults to DefaultPath
	Branch  string // empty = repository default branch
	BaseURL string // API root override, used against GitHub Enterprise and in tests
}

// GitHub stores the document as a file in a GitHub repository.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
	path   string
	branch string
}

// NewGitHub creates a GitHub client with token authentication.
func NewGitHub(ctx context.Context, opts GitHubOptions) (*GitHub, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("GitHub token not set")
	}
	if opts.Owner == "" || opts.Repo == "" {
		return nil, fmt.Errorf("GitHub owner and repo are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", opts.BaseURL, err)
		}
		client.BaseURL = u
	}

	path := opts.Path
	if path == "" {
		path = DefaultPath
	}

	return &GitHub{
		client: client,
		owner:  opts.Owner,
		repo:   opts.Repo,
		path:   path,
		branch: opts.Branch,
	}, nil
}

func (g *GitHub) Name() string { return "github" }

// Fetch returns the decoded file and its blob SHA.
func (g *GitHub) Fetch(ctx context.Context) ([]byte, string, error) {
	opts := &github.RepositoryContentGetOptions{Ref: g.branch}
	file, _, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, g.path, opts)
	if err != nil {
		if isStatus(resp, http.StatusNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to get file content: %w", err)
	}
	if file == nil {
		return nil, "", fmt.Errorf("path %s is a directory, not a file", g.path)
	}

	// files over 1MB come back without inline content
	if file.GetEncoding() == "none" {
		data, err := g.download(ctx, opts)
		if err != nil {
			return nil, "", err
		}
		return data, file.GetSHA(), nil
	}

	text, err := file.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode file content: %w", err)
	}
	return []byte(text), file.GetSHA(), nil
}

func (g *GitHub) download(ctx context.Context, opts *github.RepositoryContentGetOptions) ([]byte, error) {
	rc, _, err := g.client.Repositories.DownloadContents(ctx, g.owner, g.repo, g.path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to download file content: %w", err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	return data, nil
}

// Publish fetches the current SHA and writes the new content conditioned on
// it. A missing file is created. A SHA that went stale between the two calls
// makes GitHub answer 409, reported as ErrStaleRevision.
func (g *GitHub) Publish(ctx context.Context, data []byte, message string) (string, error) {
	_, sha, err := g.Fetch(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("failed to fetch current file info from GitHub: %w", err)
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(commitMessage(message)),
		Content: data,
	}
	if sha != "" {
		opts.SHA = github.String(sha)
	}
	if g.branch != "" {
		opts.Branch = github.String(g.branch)
	}

	res, resp, err := g.client.Repositories.UpdateFile(ctx, g.owner, g.repo, g.path, opts)
	if err != nil {
		if isStatus(resp, http.StatusConflict) {
			return "", fmt.Errorf("%w: %v", ErrStaleRevision, err)
		}
		return "", fmt.Errorf("failed to update file on GitHub: %w", err)
	}
	if res == nil || res.Content == nil {
		return "", nil
	}
	return res.Content.GetSHA(), nil
}

func isStatus(resp *github.Response, code int) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == code
}
