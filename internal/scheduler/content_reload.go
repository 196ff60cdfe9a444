package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/folio/internal/index"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/pipeline"
	redisstore "github.com/MrSnakeDoc/folio/internal/store/redis"
)

// ContentReloader refreshes the published snapshot from the remote store
type ContentReloader struct {
	loader        *pipeline.Loader
	store         *redisstore.Store
	index         *index.ContentIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewContentReloader creates a new content reloader. store may be nil.
func NewContentReloader(
	loader *pipeline.Loader,
	store *redisstore.Store,
	idx *index.ContentIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ContentReloader {
	return &ContentReloader{
		loader:        loader,
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the snapshot once and then refreshes it on every tick and every
// manual trigger. The initial failure is fatal only when no snapshot was
// restored from Redis beforehand.
func (cr *ContentReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		if !cr.index.Loaded() {
			return fmt.Errorf("initial reload failed: %w", err)
		}
		cr.logger.Warn("initial reload failed, serving snapshot restored from redis",
			logger.String("revision", cr.index.Revision()),
			logger.Error(err))
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload content",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload content",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *ContentReloader) Stop() {
	close(cr.stopCh)
}

// Reload fetches the remote document, migrates it and updates index + Redis
func (cr *ContentReloader) Reload(ctx context.Context) (err error) {
	defer func() { metrics.SnapshotReloadTotal.WithLabelValues(metrics.Result(err)).Inc() }()

	cr.logger.Info("reloading published content")

	loaded, err := cr.loader.LoadPublished(ctx)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	if err := cr.index.Update(loaded.Document, loaded.Revision); err != nil {
		return fmt.Errorf("failed to index content: %w", err)
	}

	cr.logger.Info("published content loaded",
		logger.String("source", string(loaded.Source)),
		logger.String("revision", loaded.Revision),
		logger.Strings("migrations", loaded.Applied))

	// Mirror to Redis (best effort)
	if cr.store != nil {
		raw, rev := cr.index.Raw()
		if err := cr.store.SavePublished(ctx, raw, rev); err != nil {
			cr.logger.Warn("failed to save snapshot to redis",
				logger.Error(err))
			// Don't fail - memory index is the primary source
		}
	}

	return nil
}
