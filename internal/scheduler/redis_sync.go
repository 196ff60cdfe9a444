package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/folio/internal/content"
	"github.com/MrSnakeDoc/folio/internal/index"
	"github.com/MrSnakeDoc/folio/internal/logger"
	redisstore "github.com/MrSnakeDoc/folio/internal/store/redis"
)

// RedisSyncer restores the published snapshot from Redis on startup, so the
// public site is served before the first remote fetch completes
type RedisSyncer struct {
	store  *redisstore.Store
	index  *index.ContentIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	idx *index.ContentIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads the mirrored snapshot from Redis and updates the index
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing published snapshot from redis to memory")

	data, rev, err := rs.store.GetPublished(ctx)
	if errors.Is(err, redisstore.ErrNoSnapshot) {
		rs.logger.Info("no snapshot found in redis")
		return nil
	}
	if err != nil {
		return err
	}

	doc, err := content.Decode(data)
	if err != nil {
		return fmt.Errorf("mirrored snapshot: %w", err)
	}
	content.Migrate(doc)

	if err := rs.index.Update(doc, rev); err != nil {
		return err
	}

	rs.logger.Info("synced snapshot from redis",
		logger.String("revision", rev),
		logger.Int("bytes", len(data)))

	return nil
}
