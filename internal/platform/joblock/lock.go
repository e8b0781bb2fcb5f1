// Package joblock provides "at most one in flight" guards for background jobs.
package joblock

import (
	"context"
	"sync"
	"time"
)

// ReleaseFunc gives the lock back. It is safe to call more than once.
type ReleaseFunc func(ctx context.Context) error

// Locker hands out named, non-blocking locks. TryAcquire never waits: ok=false
// means another holder is active and the caller should skip its run.
type Locker interface {
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (release ReleaseFunc, ok bool, err error)
}

// Local guards jobs inside a single process.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocal() *Local {
	return &Local{held: make(map[string]struct{})}
}

func (l *Local) TryAcquire(_ context.Context, name string, _ time.Duration) (ReleaseFunc, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[name]; busy {
		return nil, false, nil
	}
	l.held[name] = struct{}{}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, name)
			l.mu.Unlock()
		})
		return nil
	}, true, nil
}

// Chain acquires every locker in order and releases in reverse. It is used to
// pair the in-process guard with a distributed one.
type Chain []Locker

func (c Chain) TryAcquire(ctx context.Context, name string, ttl time.Duration) (ReleaseFunc, bool, error) {
	releases := make([]ReleaseFunc, 0, len(c))
	releaseAll := func(ctx context.Context) error {
		var firstErr error
		for i := len(releases) - 1; i >= 0; i-- {
			if err := releases[i](ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	for _, locker := range c {
		if locker == nil {
			continue
		}
		release, ok, err := locker.TryAcquire(ctx, name, ttl)
		if err != nil || !ok {
			_ = releaseAll(ctx)
			return nil, false, err
		}
		releases = append(releases, release)
	}
	return releaseAll, true, nil
}
