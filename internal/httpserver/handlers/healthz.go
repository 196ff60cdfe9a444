package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
)

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

type healthzResponse struct {
	Status     string    `json:"status"`
	Uptime     float64   `json:"uptime_seconds"`
	LastReload time.Time `json:"last_reload,omitzero"`
	Build      buildInfo `json:"build"`
}

// Healthz is the liveness check. It never depends on the content being loaded.
func Healthz(d deps.Deps) http.HandlerFunc {
	clock := d.TimeNow
	if clock == nil {
		clock = time.Now
	}
	build := buildInfo{d.Version, d.Commit, d.BuildDate, d.GoVersion}

	return func(w http.ResponseWriter, _ *http.Request) {
		res := healthzResponse{
			Status: "ok",
			Uptime: clock().Sub(d.StartTime).Seconds(),
			Build:  build,
		}
		if d.Index != nil {
			res.LastReload = d.Index.GetLastReload()
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, res)
	}
}
