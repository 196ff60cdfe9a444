package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready    bool   `json:"ready"`
	Revision string `json:"revision,omitempty"`
}

// Readyz reports ready once a published snapshot is being served.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if !d.Index.Loaded() {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Revision: d.Index.Revision()})
	}
}
