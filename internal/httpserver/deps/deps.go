package deps

import (
	"time"

	"github.com/MrSnakeDoc/folio/internal/drafts"
	"github.com/MrSnakeDoc/folio/internal/index"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/pipeline"
	"github.com/MrSnakeDoc/folio/internal/proxy"
	"github.com/MrSnakeDoc/folio/internal/remote"
	"github.com/MrSnakeDoc/folio/internal/upload"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time     // for testing, defaults to time.Now
	AllowedHosts   []string             // Host headers allowed to access admin routes
	AllowedCIDRS   []string             // IPs allowed to access admin and ops routes
	TrustProxy     bool                 // true if running behind a trusted reverse proxy (e.g., cloudflared)
	AdminToken     string               // optional bearer token for admin routes
	Index          *index.ContentIndex  // published snapshot served to the site
	Loader         *pipeline.Loader     // draft-or-remote loader for the admin tool
	Publisher      *pipeline.Publisher  // two-phase publish
	Drafts         drafts.Store         // draft slot, pinged by /infra when Redis backs it
	Remote         remote.Store         // published document owner
	Metadata       *proxy.MetadataFetcher
	Apps           *proxy.AppLookup
	Base           *proxy.BaseClient
	SketchMark     *proxy.SketchMark
	Storefront     *proxy.Storefront
	Uploads        *upload.Store
	UploadMaxBytes int64                // max multipart body size
	RateLimit      RateLimit            // per-IP limits for proxy routes
	ReloadTrigger  chan struct{}        // Channel to trigger manual snapshot reload
}

// RateLimit mirrors mw.RateLimitConfig without importing mw from deps.
type RateLimit struct {
	Burst             int
	RefillPerIPPerMin int
	MaxEntries        int
}
