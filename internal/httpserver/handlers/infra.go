package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool           `json:"ok"`
	Revision   string         `json:"revision,omitempty"`
	Items      map[string]int `json:"items,omitempty"`
	LastReload string         `json:"last_reload,omitempty"`
	Mode       string         `json:"mode,omitempty"`
	Impact     string         `json:"impact,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type infraResponse struct {
	ServingMode string                     `json:"serving_mode"`
	Components  map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		components := map[string]componentStatus{
			"snapshot": checkSnapshot(d),
			"remote":   {OK: d.Remote != nil, Mode: remoteName(d)},
			"drafts":   checkDrafts(ctx, d),
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, infraResponse{
			ServingMode: determineServingMode(components),
			Components:  components,
		})
	}
}

func checkSnapshot(d deps.Deps) componentStatus {
	lastReload := d.Index.GetLastReload()
	lastReloadStr := "never"
	if !lastReload.IsZero() {
		lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
	}
	return componentStatus{
		OK:         d.Index.Loaded(),
		Revision:   d.Index.Revision(),
		Items:      d.Index.Counts(),
		LastReload: lastReloadStr,
	}
}

// pinger is implemented by draft stores backed by a server.
type pinger interface {
	Ping(ctx context.Context) error
}

func checkDrafts(ctx context.Context, d deps.Deps) componentStatus {
	p, ok := d.Drafts.(pinger)
	if !ok {
		return componentStatus{
			OK:     true,
			Mode:   "memory",
			Impact: "drafts-lost-on-restart",
		}
	}

	if err := p.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "redis",
			Impact: "draft-save-failing",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: "redis"}
}

func remoteName(d deps.Deps) string {
	if d.Remote == nil {
		return ""
	}
	return d.Remote.Name()
}

func determineServingMode(components map[string]componentStatus) string {
	if !components["snapshot"].OK {
		return "critical" // nothing to serve
	}
	if !components["drafts"].OK {
		return "degraded" // site fine, editor cannot save
	}
	return "ok"
}
