package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/eleven-fantasy/internal/platform/joblock"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

const defaultJobLockTTL = 30 * time.Minute

type SyncRunner interface {
	FullSync(ctx context.Context) (FullSyncResult, error)
	LiveSync(ctx context.Context) (LiveSyncResult, error)
}

type SchedulerConfig struct {
	LiveInterval time.Duration
	DailyHour    int
	DailyMinute  int
	Location     *time.Location
	RunOnStartup bool
	// LockTTL bounds how long a crashed holder can block a distributed lock.
	LockTTL time.Duration
}

// SyncScheduler drives the recurring sync jobs and guards every run, timer
// or manual, so at most one execution per job type is in flight.
type SyncScheduler struct {
	runner SyncRunner
	locker joblock.Locker
	cfg    SchedulerConfig
	logger *logging.Logger
	now    func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	workers *conc.WaitGroup
}

func NewSyncScheduler(runner SyncRunner, locker joblock.Locker, cfg SchedulerConfig, logger *logging.Logger) *SyncScheduler {
	if locker == nil {
		locker = joblock.NewLocal()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultJobLockTTL
	}

	return &SyncScheduler{
		runner: runner,
		locker: locker,
		cfg:    cfg,
		logger: logger.Named("sync_scheduler"),
		now:    time.Now,
	}
}

// Start launches the live and daily loops. It returns immediately; call Stop
// to cancel them and wait for in-flight runs.
func (s *SyncScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.workers = conc.NewWaitGroup()

	if s.cfg.LiveInterval > 0 {
		s.workers.Go(func() { s.liveLoop(ctx) })
	}
	s.workers.Go(func() { s.dailyLoop(ctx) })

	s.logger.InfoContext(ctx, "sync scheduler started",
		"live_interval", s.cfg.LiveInterval.String(),
		"full_sync_at", fmt.Sprintf("%02d:%02d %s", s.cfg.DailyHour, s.cfg.DailyMinute, s.cfg.Location),
		"run_on_startup", s.cfg.RunOnStartup,
	)
}

func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	cancel, workers := s.cancel, s.workers
	s.cancel, s.workers = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	workers.Wait()
	s.logger.Info("sync scheduler stopped")
}

func (s *SyncScheduler) RunFull(ctx context.Context) (FullSyncResult, error) {
	return runGuarded(ctx, s, jobFullSync, s.runner.FullSync)
}

func (s *SyncScheduler) RunLive(ctx context.Context) (LiveSyncResult, error) {
	return runGuarded(ctx, s, jobLiveSync, s.runner.LiveSync)
}

// runGuarded returns ErrConflict without running fn when the job is already
// in flight. A panic inside fn is returned as an error.
func runGuarded[T any](ctx context.Context, s *SyncScheduler, job string, fn func(context.Context) (T, error)) (T, error) {
	var result T

	release, ok, err := s.locker.TryAcquire(ctx, job, s.cfg.LockTTL)
	if err != nil {
		return result, fmt.Errorf("%w: acquire %s lock: %v", ErrDependencyUnavailable, job, err)
	}
	if !ok {
		return result, fmt.Errorf("%w: %s already running", ErrConflict, job)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.WarnContext(ctx, "release job lock", "job", job, "error", err)
		}
	}()

	var catcher panics.Catcher
	catcher.Try(func() {
		result, err = fn(ctx)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		return result, fmt.Errorf("%s panicked: %w", job, recovered.AsError())
	}
	return result, err
}

func (s *SyncScheduler) liveLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.LiveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := s.RunLive(ctx)
			s.logRun(ctx, jobLiveSync, err)
		}
	}
}

func (s *SyncScheduler) dailyLoop(ctx context.Context) {
	if s.cfg.RunOnStartup {
		_, err := s.RunFull(ctx)
		s.logRun(ctx, jobFullSync, err)
	}

	for {
		next := NextDailyRun(s.now(), s.cfg.DailyHour, s.cfg.DailyMinute, s.cfg.Location)
		timer := time.NewTimer(time.Until(next))
		s.logger.DebugContext(ctx, "next full sync scheduled", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			_, err := s.RunFull(ctx)
			s.logRun(ctx, jobFullSync, err)
		}
	}
}

func (s *SyncScheduler) logRun(ctx context.Context, job string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrConflict):
		s.logger.InfoContext(ctx, "skipping overlapping run", "job", job)
	case errors.Is(err, context.Canceled):
	default:
		s.logger.ErrorContext(ctx, "scheduled run failed", "job", job, "error", err)
	}
}

// NextDailyRun is the first hour:minute wall-clock time in loc strictly
// after now.
func NextDailyRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}
