// Package app wires configuration, stores, the publish pipeline and the HTTP
// server into one process.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/folio/internal/config"
	"github.com/MrSnakeDoc/folio/internal/drafts"
	"github.com/MrSnakeDoc/folio/internal/httpserver"
	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/index"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/pipeline"
	"github.com/MrSnakeDoc/folio/internal/proxy"
	"github.com/MrSnakeDoc/folio/internal/redis"
	"github.com/MrSnakeDoc/folio/internal/remote"
	"github.com/MrSnakeDoc/folio/internal/scheduler"
	"github.com/MrSnakeDoc/folio/internal/sources/scaffold"
	redisstore "github.com/MrSnakeDoc/folio/internal/store/redis"
	"github.com/MrSnakeDoc/folio/internal/upload"
	"github.com/MrSnakeDoc/folio/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	index       *index.ContentIndex
	reloader    *scheduler.ContentReloader
}

func New(cfg *config.Config) (*App, error) {
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Redis is optional: without it drafts live in memory and there is no
	// snapshot mirror to serve from while the remote is slow.
	var (
		redisClient *goredis.Client
		store       *redisstore.Store
		draftStore  drafts.Store
	)
	if cfg.RedisEnabled {
		client, err := redis.New(redis.OptionsFromConfig(cfg), loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisClient = client
		store = redisstore.NewStore(client, cfg.DraftQuota).WithSlot(cfg.DraftSlot)
		draftStore = store
		loggerClient.Info("Redis initialized successfully")
	} else {
		draftStore = drafts.NewMemory(cfg.DraftQuota)
		loggerClient.Warn("redis disabled, drafts are kept in memory only")
	}

	rem, err := newRemote(cfg, loggerClient)
	if err != nil {
		closeRedis(redisClient, loggerClient)
		return nil, err
	}
	loggerClient.Info("remote content store configured",
		logger.String("backend", rem.Name()))

	var seed pipeline.ScaffoldFunc
	if cfg.ScaffoldFile != "" {
		seed = scaffold.NewLoader(cfg.ScaffoldFile).Document
	}

	idx := index.NewContentIndex()
	reloadTrigger := make(chan struct{}, 1)
	pipelineLog := loggerClient.With(logger.String("component", "pipeline"))
	loader := pipeline.NewLoader(draftStore, rem, seed, pipelineLog)
	publisher := pipeline.NewPublisher(draftStore, rem,
		pipeline.NewActivityLog(cfg.ActivityLimit), reloadTrigger, pipelineLog)

	// Serve the mirrored snapshot right away; the reloader replaces it.
	if store != nil {
		syncer := scheduler.NewRedisSyncer(store, idx, loggerClient)
		if err := syncer.Sync(context.Background()); err != nil {
			loggerClient.Warn("failed to sync from redis on startup, will load from remote",
				logger.Error(err))
		}
	}

	reloader := scheduler.NewContentReloader(loader, store, idx,
		loggerClient.With(logger.String("component", "reloader")),
		cfg.ReloadInterval, reloadTrigger)

	client := proxy.NewHTTPClient(cfg.ProxyTimeout)
	base := proxy.NewBaseClient(client, proxy.BaseOptions{
		ClientID:     cfg.BaseClientID,
		ClientSecret: cfg.BaseClientSecret,
		RefreshToken: cfg.BaseRefreshToken,
		ShopURL:      cfg.BaseShopURL,
	})
	instagram := proxy.NewInstagram(client, "", cfg.InstagramToken)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		AdminToken:     cfg.AdminToken,
		Index:          idx,
		Loader:         loader,
		Publisher:      publisher,
		Drafts:         draftStore,
		Remote:         rem,
		Metadata:       proxy.NewMetadataFetcher(client, cfg.MetadataAllowPrivate),
		Apps:           proxy.NewAppLookup(client, "", cfg.ITunesCountry),
		Base:           base,
		SketchMark:     proxy.NewSketchMark(base, instagram, loggerClient.With(logger.String("component", "sketchmark"))),
		Storefront:     proxy.NewStorefront(client, cfg.ShopifyDomain, cfg.ShopifyToken, ""),
		Uploads:        upload.NewStore(cfg.UploadDir),
		UploadMaxBytes: cfg.UploadMaxBytes,
		RateLimit: deps.RateLimit{
			Burst:             cfg.RateLimitBurst,
			RefillPerIPPerMin: cfg.RateLimitRefill,
			MaxEntries:        cfg.RateLimitMaxEntry,
		},
		ReloadTrigger: reloadTrigger,
	}

	if cfg.AdminToken == "" && len(cfg.AllowedCIDRS) == 0 {
		loggerClient.Warn("admin routes are open: set FOLIO_ADMIN_TOKEN or FOLIO_ALLOWED_CIDRS")
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		index:       idx,
		reloader:    reloader,
	}, nil
}

// newRemote builds the store that owns the published document.
func newRemote(cfg *config.Config, log logger.Logger) (remote.Store, error) {
	switch cfg.RemoteBackend {
	case config.BackendGitHub:
		return remote.NewGitHub(context.Background(), remote.GitHubOptions{
			Token:   cfg.GitHubToken,
			Owner:   cfg.GitHubOwner,
			Repo:    cfg.GitHubRepo,
			Path:    cfg.ContentPath,
			Branch:  cfg.GitHubBranch,
			BaseURL: cfg.GitHubAPIURL,
		})
	case config.BackendGit:
		return remote.NewGitRepo(remote.GitRepoOptions{
			Dir:         cfg.GitDir,
			Path:        cfg.ContentPath,
			RemoteName:  cfg.GitRemote,
			Token:       cfg.GitHubToken,
			AuthorName:  cfg.GitAuthorName,
			AuthorEmail: cfg.GitAuthorEmail,
		}, log)
	case config.BackendFile:
		return remote.NewFile(cfg.ContentFile), nil
	default:
		return nil, fmt.Errorf("unknown remote backend %q", cfg.RemoteBackend)
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting folio v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Loads the published snapshot and starts the periodic refresh
	if err := a.reloader.Start(ctx); err != nil {
		closeRedis(a.redisClient, a.logger)
		return fmt.Errorf("failed to start content reloader: %w", err)
	}
	a.logger.Info("content reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval),
		logger.String("revision", a.index.Revision()))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.reloader.Stop()
		closeRedis(a.redisClient, a.logger)
		return err
	}

	a.reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	closeRedis(a.redisClient, a.logger)

	a.logger.Info("✅ folio stopped cleanly")
	_ = a.logger.Sync()
	return nil
}

func closeRedis(client *goredis.Client, log logger.Logger) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Warnf("failed to close redis: %v", err)
		return
	}
	log.Info("✅ Redis closed cleanly")
}
