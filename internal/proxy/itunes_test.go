package proxy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/folio/internal/proxy"
)

func TestAppLookup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "123456", r.URL.Query().Get("id"))
		assert.Equal(t, "jp", r.URL.Query().Get("country"))
		assert.Equal(t, "software", r.URL.Query().Get("entity"))
		_, _ = w.Write([]byte(`{"resultCount":1,"results":[{"trackName":"App"}]}`))
	}))
	t.Cleanup(ts.Close)

	lookup := proxy.NewAppLookup(ts.Client(), ts.URL, "")

	raw, err := lookup.Lookup(context.Background(), "123456")
	require.NoError(t, err)
	assert.JSONEq(t, `{"resultCount":1,"results":[{"trackName":"App"}]}`, string(raw))

	_, err = lookup.Lookup(context.Background(), "12&x=1")
	require.ErrorIs(t, err, proxy.ErrInvalidAppID)
}
