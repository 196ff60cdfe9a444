// Package drafts defines the local draft cache the admin console saves into
// between publishes.
package drafts

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNoDraft is returned by Get when nothing has been saved yet.
	ErrNoDraft = errors.New("no draft saved")
	// ErrQuotaExceeded is returned by Put when the payload exceeds the store quota.
	ErrQuotaExceeded = errors.New("draft storage quota exceeded")
)

// DefaultQuota matches the per-origin budget browsers give local storage.
const DefaultQuota = 5 << 20

// Store persists a single serialized draft document.
type Store interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// Memory is an in-process Store, used when Redis is disabled and in tests.
type Memory struct {
	mu    sync.RWMutex
	data  []byte
	quota int
}

// NewMemory returns an empty in-memory store. quota <= 0 disables the limit.
func NewMemory(quota int) *Memory {
	return &Memory{quota: quota}
}

func (m *Memory) Get(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, ErrNoDraft
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *Memory) Put(_ context.Context, data []byte) error {
	if err := CheckQuota(data, m.quota); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// CheckQuota returns ErrQuotaExceeded when data is larger than quota bytes.
func CheckQuota(data []byte, quota int) error {
	if quota > 0 && len(data) > quota {
		return ErrQuotaExceeded
	}
	return nil
}
