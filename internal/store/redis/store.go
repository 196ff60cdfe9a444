package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/folio/internal/drafts"
)

const (
	// DefaultDraftTTL is how long an untouched draft survives (30 days)
	DefaultDraftTTL = 30 * 24 * time.Hour
	// DefaultSnapshotTTL keeps the published mirror around across restarts (7 days)
	DefaultSnapshotTTL = 7 * 24 * time.Hour
)

// Store handles Redis operations for drafts and the published snapshot.
type Store struct {
	client   *redis.Client
	slot     string
	quota    int
	draftTTL time.Duration
}

// NewStore creates a new Redis store. quota <= 0 disables the draft size check.
func NewStore(client *redis.Client, quota int) *Store {
	return &Store{
		client:   client,
		quota:    quota,
		draftTTL: DefaultDraftTTL,
	}
}

// WithSlot returns a copy of the store that reads and writes a named draft slot.
func (s *Store) WithSlot(slot string) *Store {
	cp := *s
	cp.slot = slot
	return &cp
}

var _ drafts.Store = (*Store)(nil)

// Get retrieves the saved draft.
func (s *Store) Get(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, DraftKey(s.slot)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, drafts.ErrNoDraft
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return data, nil
}

// Put stores the draft, refusing payloads over the quota.
func (s *Store) Put(ctx context.Context, data []byte) error {
	if err := drafts.CheckQuota(data, s.quota); err != nil {
		return err
	}
	if err := s.client.Set(ctx, DraftKey(s.slot), data, s.draftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Delete discards the saved draft.
func (s *Store) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, DraftKey(s.slot)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// Ping checks the connection, used by the infra endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
