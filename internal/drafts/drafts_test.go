package drafts

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	if _, err := m.Get(ctx); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("Get() on empty store error = %v, want ErrNoDraft", err)
	}

	if err := m.Put(ctx, []byte(`{"tabs":[]}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := m.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"tabs":[]}` {
		t.Errorf("Get() = %s", got)
	}

	if err := m.Delete(ctx); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := m.Get(ctx); !errors.Is(err, ErrNoDraft) {
		t.Errorf("Get() after Delete() error = %v, want ErrNoDraft", err)
	}
}

func TestMemoryQuota(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(4)

	if err := m.Put(ctx, []byte("12345")); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Put() over quota error = %v, want ErrQuotaExceeded", err)
	}
	if err := m.Put(ctx, []byte("1234")); err != nil {
		t.Errorf("Put() at quota error = %v", err)
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	_ = m.Put(ctx, []byte("abc"))

	got, _ := m.Get(ctx)
	got[0] = 'x'

	again, _ := m.Get(ctx)
	if string(again) != "abc" {
		t.Errorf("stored draft mutated through Get() result: %s", again)
	}
}
