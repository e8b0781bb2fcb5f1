package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(now *time.Time) *CircuitBreaker {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	})
	b.now = func() time.Time { return *now }
	return b
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	now := time.Date(2025, 8, 16, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(&now)

	var transitions []CircuitState
	b.OnStateChange(func(_, to CircuitState) { transitions = append(transitions, to) })

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second half-open probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}

	want := []CircuitState{CircuitStateOpen, CircuitStateHalfOpen, CircuitStateClosed}
	if len(transitions) != len(want) {
		t.Fatalf("unexpected transitions: %v", transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("unexpected transitions: %v", transitions)
		}
	}
}

func TestCircuitBreaker_ExecuteIgnoresNonFailures(t *testing.T) {
	now := time.Date(2025, 8, 16, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(&now)

	errNotFound := errors.New("not found")
	errTransient := errors.New("upstream 503")
	isFailure := func(err error) bool { return errors.Is(err, errTransient) }

	for i := 0; i < 5; i++ {
		if err := b.Execute(func() error { return errNotFound }, isFailure); !errors.Is(err, errNotFound) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("non-failure errors must not open the breaker, got %s", state)
	}

	_ = b.Execute(func() error { return errTransient }, isFailure)
	_ = b.Execute(func() error { return errTransient }, isFailure)

	called := false
	err := b.Execute(func() error { called = true; return nil }, isFailure)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected open breaker to reject without calling fn, err=%v called=%t", err, called)
	}
}

func TestCircuitBreaker_DisabledPassesThrough(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		if err := b.Execute(func() error { return boom }, nil); !errors.Is(err, boom) {
			t.Fatalf("expected passthrough error, got %v", err)
		}
	}
}

func TestCircuitBreakerConfig_WithDefaults(t *testing.T) {
	got := CircuitBreakerConfig{Enabled: false}.withDefaults()
	if got.Enabled {
		t.Fatalf("enabled flag must be preserved")
	}
	if got.FailureThreshold != defaultFailureThreshold || got.OpenTimeout != defaultOpenTimeout || got.HalfOpenMaxReq != defaultHalfOpenMaxReq {
		t.Fatalf("unexpected defaults: %+v", got)
	}

	custom := CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Second, HalfOpenMaxReq: 3}.withDefaults()
	if custom.FailureThreshold != 2 || custom.OpenTimeout != time.Second || custom.HalfOpenMaxReq != 3 {
		t.Fatalf("explicit values must be kept: %+v", custom)
	}
}
