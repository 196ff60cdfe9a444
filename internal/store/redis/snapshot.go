package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrNoSnapshot is returned when no published copy has been mirrored yet.
var ErrNoSnapshot = errors.New("no published snapshot")

// SavePublished mirrors the published document and its revision marker.
func (s *Store) SavePublished(ctx context.Context, data []byte, revision string) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, KeyPublished, data, DefaultSnapshotTTL)
	pipe.Set(ctx, KeyPublishedRevision, revision, DefaultSnapshotTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save published snapshot: %w", err)
	}
	return nil
}

// GetPublished returns the mirrored document and its revision marker.
func (s *Store) GetPublished(ctx context.Context) ([]byte, string, error) {
	pipe := s.client.Pipeline()
	dataCmd := pipe.Get(ctx, KeyPublished)
	revCmd := pipe.Get(ctx, KeyPublishedRevision)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, "", fmt.Errorf("failed to get published snapshot: %w", err)
	}

	data, err := dataCmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", ErrNoSnapshot
		}
		return nil, "", fmt.Errorf("failed to read published snapshot: %w", err)
	}
	// a missing revision is tolerated; the next reload fills it in
	rev, _ := revCmd.Result()
	return data, rev, nil
}
