package remote_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/folio/internal/remote"
)

const contentsPath = "/repos/owner/site/contents/data/content.json"

// fakeContents emulates the slice of the contents API the backend talks to.
type fakeContents struct {
	mu       sync.Mutex
	data     []byte
	sha      string
	conflict bool

	lastMessage string
	lastSHA     string
	puts        int
}

func (f *fakeContents) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		require.Equal(t, contentsPath, r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			if f.data == nil {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"Not Found"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"type":     "file",
				"encoding": "base64",
				"path":     "data/content.json",
				"sha":      f.sha,
				"content":  base64.StdEncoding.EncodeToString(f.data),
			})

		case http.MethodPut:
			var body struct {
				Message string `json:"message"`
				Content []byte `json:"content"`
				SHA     string `json:"sha"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.puts++
			f.lastMessage = body.Message
			f.lastSHA = body.SHA

			if f.conflict || body.SHA != f.sha {
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(`{"message":"is at a different sha"}`))
				return
			}
			f.data = body.Content
			f.sha = remote.BlobRevision(body.Content)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"content": map[string]any{"path": "data/content.json", "sha": f.sha},
				"commit":  map[string]any{"sha": "c0ffee"},
			})

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newGitHub(t *testing.T, f *fakeContents) *remote.GitHub {
	t.Helper()
	ts := httptest.NewServer(f.handler(t))
	t.Cleanup(ts.Close)

	gh, err := remote.NewGitHub(context.Background(), remote.GitHubOptions{
		Token:   "test-token",
		Owner:   "owner",
		Repo:    "site",
		BaseURL: ts.URL,
	})
	require.NoError(t, err)
	return gh
}

func TestGitHubFetch(t *testing.T) {
	f := &fakeContents{data: []byte(`{"tabs":[]}`), sha: "abc123"}
	gh := newGitHub(t, f)

	data, rev, err := gh.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"tabs":[]}`, string(data))
	assert.Equal(t, "abc123", rev)
}

func TestGitHubFetchMissing(t *testing.T) {
	gh := newGitHub(t, &fakeContents{})

	_, _, err := gh.Fetch(context.Background())
	require.ErrorIs(t, err, remote.ErrNotFound)
}

func TestGitHubPublishUsesCurrentSHA(t *testing.T) {
	f := &fakeContents{data: []byte(`{}`), sha: "abc123"}
	gh := newGitHub(t, f)

	rev, err := gh.Publish(context.Background(), []byte(`{"tabs":[]}`), "")
	require.NoError(t, err)

	assert.Equal(t, "abc123", f.lastSHA)
	assert.Equal(t, remote.DefaultCommitMessage, f.lastMessage)
	assert.Equal(t, `{"tabs":[]}`, string(f.data))
	assert.Equal(t, remote.BlobRevision([]byte(`{"tabs":[]}`)), rev)
}

func TestGitHubPublishCreatesMissingFile(t *testing.T) {
	f := &fakeContents{}
	gh := newGitHub(t, f)

	_, err := gh.Publish(context.Background(), []byte(`{}`), "initial content")
	require.NoError(t, err)

	assert.Empty(t, f.lastSHA)
	assert.Equal(t, "initial content", f.lastMessage)
	assert.Equal(t, 1, f.puts)
}

func TestGitHubPublishStaleRevision(t *testing.T) {
	f := &fakeContents{data: []byte(`{}`), sha: "abc123", conflict: true}
	gh := newGitHub(t, f)

	_, err := gh.Publish(context.Background(), []byte(`{"tabs":[]}`), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, remote.ErrStaleRevision))
	assert.Equal(t, `{}`, string(f.data), "remote content must not change")
}

func TestNewGitHubValidation(t *testing.T) {
	_, err := remote.NewGitHub(context.Background(), remote.GitHubOptions{Owner: "o", Repo: "r"})
	require.Error(t, err)

	_, err = remote.NewGitHub(context.Background(), remote.GitHubOptions{Token: "t"})
	require.Error(t, err)
}
