package proxy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/proxy"
)

const mediaJSON = `{"data":[
  {"id":"10","caption":"Morning sketch\nwith more lines","media_type":"IMAGE","media_url":"https://ig/10.jpg","permalink":"https://instagram.com/p/10","timestamp":"2024-05-01T10:00:00+0000"},
  {"id":"11","media_type":"VIDEO","media_url":"https://ig/11.mp4","thumbnail_url":"https://ig/11.jpg","permalink":"https://instagram.com/p/11","timestamp":"2020-01-01T00:00:00+0000"}
]}`

func fakeInstagram(t *testing.T, body string, status int) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/media", r.URL.Path)
		assert.Equal(t, "ig-token", r.URL.Query().Get("access_token"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestInstagramMedia(t *testing.T) {
	ts := fakeInstagram(t, mediaJSON, http.StatusOK)
	ig := proxy.NewInstagram(ts.Client(), ts.URL, "ig-token")

	media, err := ig.Media(context.Background())
	require.NoError(t, err)
	require.Len(t, media, 2)

	assert.Equal(t, "Morning sketch", media[0].Title())
	assert.Equal(t, "Sketch", media[1].Title())
	assert.Equal(t, "https://ig/11.jpg", media[1].Image())
	assert.Equal(t, 2024, media[0].Time().Year())
}

func TestInstagramErrors(t *testing.T) {
	_, err := proxy.NewInstagram(http.DefaultClient, "", "").Media(context.Background())
	require.ErrorIs(t, err, proxy.ErrMissingToken)

	ts := fakeInstagram(t, `{"error":{"message":"Invalid OAuth access token"}}`, http.StatusBadRequest)
	_, err = proxy.NewInstagram(ts.Client(), ts.URL, "ig-token").Media(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
}

func TestSketchMarkGallery(t *testing.T) {
	base := fakeBase(t, http.StatusOK, http.StatusOK)
	ig := fakeInstagram(t, mediaJSON, http.StatusOK)

	sm := proxy.NewSketchMark(
		proxy.NewBaseClient(base.Client(), proxy.BaseOptions{
			ClientID: "id", ClientSecret: "secret", RefreshToken: "refresh",
			APIURL: base.URL, ShopURL: "https://sketchmark.thebase.in",
		}),
		proxy.NewInstagram(ig.Client(), ig.URL, "ig-token"),
		logger.New("error", false),
	)

	g := sm.Gallery(context.Background())
	require.True(t, g.Success)
	assert.Equal(t, 4, g.Count)
	assert.Equal(t, proxy.GallerySources{Base: 2, Instagram: 2}, g.Sources)

	ids := make([]string, 0, len(g.Items))
	for _, it := range g.Items {
		ids = append(ids, it.ID)
	}
	// 2024-05 ig, 2023-11 base (1700000000), 2020-09 base (1600000000), 2020-01 ig
	assert.Equal(t, []string{"ig-10", "base-1", "base-3", "ig-11"}, ids)
	assert.Equal(t, "https://sketchmark.thebase.in/items/1", g.Items[1].URL)
	assert.Nil(t, g.Items[0].Price)
}

func TestSketchMarkFailingSource(t *testing.T) {
	ig := fakeInstagram(t, mediaJSON, http.StatusOK)

	sm := proxy.NewSketchMark(
		proxy.NewBaseClient(http.DefaultClient, proxy.BaseOptions{}), // no credentials
		proxy.NewInstagram(ig.Client(), ig.URL, "ig-token"),
		logger.New("error", false),
	)

	g := sm.Gallery(context.Background())
	assert.True(t, g.Success)
	assert.Equal(t, proxy.GallerySources{Base: 0, Instagram: 2}, g.Sources)
}
