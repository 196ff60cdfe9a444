package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
)

type featuredResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}

// Content serves the published snapshot as the site reads it. The revision
// marker doubles as ETag.
func Content(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, rev := d.Index.Raw()
		if raw == nil {
			writeError(w, http.StatusServiceUnavailable, "Content not loaded yet")
			return
		}

		if rev != "" {
			etag := `"` + rev + `"`
			w.Header().Set("ETag", etag)
			if r.Header.Get("If-None-Match") == etag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=60")
		_, _ = w.Write(raw)
	}
}

// Featured serves the featured items in their display order.
func Featured(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.Index.Loaded() {
			writeError(w, http.StatusServiceUnavailable, "Content not loaded yet")
			return
		}
		items := d.Index.Featured()
		w.Header().Set("Cache-Control", "public, max-age=60")
		writeJSON(w, http.StatusOK, featuredResponse{Items: items, Count: len(items)})
	}
}
