package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Remote backends
const (
	BackendGitHub = "github"
	BackendGit    = "git"
	BackendFile   = "file"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout, publish included (default: 30s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Remote content store
	RemoteBackend  string        // "github" | "git" | "file"
	ContentPath    string        // path of the document inside the repository (default: data/content.json)
	GitHubToken    string        // contents:write token (github backend)
	GitHubOwner    string        // repository owner (github backend)
	GitHubRepo     string        // repository name (github backend)
	GitHubBranch   string        // optional, empty = default branch
	GitHubAPIURL   string        // optional, GitHub Enterprise API root
	GitDir         string        // working copy root (git backend)
	GitRemote      string        // optional remote name to pull/push (git backend)
	GitAuthorName  string        // commit author (git backend)
	GitAuthorEmail string        // commit author email (git backend)
	ContentFile    string        // document path on disk (file backend)
	ScaffoldFile   string        // optional YAML seeding a missing document
	ReloadInterval time.Duration // interval to refresh the published snapshot (default: 10m)

	// Drafts and activity
	DraftQuota    int    // max draft size in bytes (default: 5MB)
	DraftSlot     string // Redis draft slot, lets several sites share one Redis
	ActivityLimit int    // max activity entries kept in memory

	// Link previews
	MetadataAllowPrivate bool // true => /api/metadata may reach private and loopback hosts

	// Redis
	RedisEnabled          bool          // false => in-memory drafts, no snapshot mirror
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Proxies
	ProxyTimeout     time.Duration // upstream HTTP timeout (default: 10s)
	ITunesCountry    string        // App Store storefront (default: jp)
	BaseClientID     string        // optional, BASE OAuth client
	BaseClientSecret string        // optional
	BaseRefreshToken string        // optional
	BaseShopURL      string        // public shop URL used in gallery links
	InstagramToken   string        // optional, Instagram Graph API token
	ShopifyDomain    string        // optional, ex: "shop.myshopify.com"
	ShopifyToken     string        // optional, storefront access token

	// Uploads
	UploadDir      string // public directory uploads are written under
	UploadMaxBytes int64  // max multipart body size

	// Access restrictions
	AdminToken        string   // optional bearer token for admin routes
	AllowedHosts      []string // optional, restrict admin routes to specific Host headers
	AllowedCIDRS      []string // optional, restrict admin routes to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy        bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigins       []string // origins allowed to call the public API, empty = "*"
	RateLimitBurst    int      // proxy routes: bucket size per client IP
	RateLimitRefill   int      // proxy routes: tokens added per minute per client IP
	RateLimitMaxEntry int      // proxy routes: max tracked client IPs
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("FOLIO_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("FOLIO_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("FOLIO_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("FOLIO_LOG_LEVEL", "info"),
		PrettyLog: mustBool("FOLIO_PRETTY_LOG", true),

		// Remote content store
		RemoteBackend:  strings.ToLower(getenv("FOLIO_REMOTE", BackendGitHub)),
		ContentPath:    getenv("FOLIO_CONTENT_PATH", "data/content.json"),
		GitHubBranch:   getenv("FOLIO_GITHUB_BRANCH", ""),
		GitHubAPIURL:   getenv("FOLIO_GITHUB_API_URL", ""),
		GitRemote:      getenv("FOLIO_GIT_REMOTE", ""),
		GitAuthorName:  getenv("FOLIO_GIT_AUTHOR_NAME", "folio"),
		GitAuthorEmail: getenv("FOLIO_GIT_AUTHOR_EMAIL", "folio@localhost"),
		ScaffoldFile:   getenv("FOLIO_SCAFFOLD_FILE", ""),
		ReloadInterval: mustDuration("FOLIO_RELOAD_INTERVAL", 10*time.Minute),

		// Drafts and activity
		DraftQuota:    getenvInt("FOLIO_DRAFT_QUOTA", 5<<20),
		DraftSlot:     getenv("FOLIO_DRAFT_SLOT", ""),
		ActivityLimit: getenvInt("FOLIO_ACTIVITY_LIMIT", 500),

		// Link previews
		MetadataAllowPrivate: mustBool("FOLIO_METADATA_ALLOW_PRIVATE", false),

		// Redis settings
		RedisEnabled:          mustBool("FOLIO_REDIS_ENABLED", true),
		RedisUser:             getenv("FOLIO_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("FOLIO_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("FOLIO_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("FOLIO_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Proxies
		ProxyTimeout:     mustDuration("FOLIO_PROXY_TIMEOUT", 10*time.Second),
		ITunesCountry:    getenv("FOLIO_ITUNES_COUNTRY", "jp"),
		BaseClientID:     getenv("BASE_CLIENT_ID", ""),
		BaseClientSecret: getenv("BASE_CLIENT_SECRET", ""),
		BaseRefreshToken: getenv("BASE_REFRESH_TOKEN", ""),
		BaseShopURL:      getenv("BASE_SHOP_URL", "https://sketchmark.thebase.in"),
		InstagramToken:   getenv("INSTAGRAM_ACCESS_TOKEN", ""),
		ShopifyDomain:    getenv("SHOPIFY_STORE_DOMAIN", ""),
		ShopifyToken:     getenv("SHOPIFY_STOREFRONT_ACCESS_TOKEN", ""),

		// Uploads
		UploadDir:      getenv("FOLIO_UPLOAD_DIR", "./public"),
		UploadMaxBytes: int64(getenvInt("FOLIO_UPLOAD_MAX_BYTES", 50<<20)),

		// Access restrictions
		AdminToken:        getenv("FOLIO_ADMIN_TOKEN", ""),
		AllowedHosts:      splitAndTrim(getenv("FOLIO_ALLOWED_HOSTS", "")),
		AllowedCIDRS:      parseAllowedIPs(getenv("FOLIO_ALLOWED_CIDRS", "")),
		TrustProxy:        mustBool("FOLIO_TRUST_PROXY", true),
		CORSOrigins:       splitAndTrim(getenv("FOLIO_CORS_ORIGINS", "")),
		RateLimitBurst:    getenvInt("FOLIO_RATE_LIMIT_BURST", 20),
		RateLimitRefill:   getenvInt("FOLIO_RATE_LIMIT_PER_MIN", 60),
		RateLimitMaxEntry: getenvInt("FOLIO_RATE_LIMIT_MAX_ENTRIES", 10000),
	}

	switch cfg.RemoteBackend {
	case BackendGitHub:
		cfg.GitHubToken = requireEnv("GITHUB_TOKEN")
		cfg.GitHubOwner = requireEnv("GITHUB_OWNER")
		cfg.GitHubRepo = requireEnv("GITHUB_REPO")
	case BackendGit:
		cfg.GitDir = requireEnv("FOLIO_GIT_DIR")
		cfg.GitHubToken = getenv("GITHUB_TOKEN", "")
	case BackendFile:
		cfg.ContentFile = getenv("FOLIO_CONTENT_FILE", "./"+cfg.ContentPath)
	default:
		panic(fmt.Sprintf("❌ FATAL: FOLIO_REMOTE must be one of github, git, file (got %q)", cfg.RemoteBackend))
	}

	if cfg.RedisEnabled {
		cfg.RedisAddr = requireEnv("FOLIO_REDIS_ADDR")
		// Validate Redis password configuration
		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: FOLIO_REDIS_PASSWORD is required when FOLIO_REDIS_PASSWORD_REQUIRED=true")
		}
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	const mask = "***REDACTED***"
	cp := *c
	for _, s := range []*string{
		&cp.RedisPassword, &cp.RedisUser, &cp.GitHubToken, &cp.AdminToken,
		&cp.BaseClientSecret, &cp.BaseRefreshToken, &cp.InstagramToken, &cp.ShopifyToken,
	} {
		if *s != "" {
			*s = mask
		}
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
