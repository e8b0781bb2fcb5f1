package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_DeduplicatesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "lineups", nil
	}

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "summary:740600", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "lineups" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 16, 12, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", 1)
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected entry to expire")
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry should be evicted, len=%d", store.Len())
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	boom := errors.New("boom")

	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v != "ok" {
		t.Fatalf("expected second load to succeed, got v=%v err=%v", v, err)
	}
}

func TestStore_ZeroTTLKeepsUntilDeleted(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 16, 12, 0, 0, 0, time.UTC)
	store := NewStore(0)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	store.Set(ctx, "contest:id:1", 1)
	now = now.Add(24 * time.Hour)
	if v, ok := store.Get(ctx, "contest:id:1"); !ok || v != 1 {
		t.Fatalf("expected entry without ttl to survive, got v=%v ok=%v", v, ok)
	}

	store.Delete(ctx, "contest:id:1")
	if _, ok := store.Get(ctx, "contest:id:1"); ok {
		t.Fatalf("expected deleted entry to be gone")
	}
}

func TestStore_BlankKeyBypassesCache(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "v", nil
	}

	for range 2 {
		if _, err := store.GetOrLoad(context.Background(), "", loader); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls.Load() != 2 || store.Len() != 0 {
		t.Fatalf("blank key must not be cached: calls=%d len=%d", calls.Load(), store.Len())
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
