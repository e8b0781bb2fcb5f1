package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/eleven-fantasy/external/espn"
	"github.com/riskibarqy/eleven-fantasy/internal/config"
	"github.com/riskibarqy/eleven-fantasy/internal/domain/contest"
	"github.com/riskibarqy/eleven-fantasy/internal/domain/match"
	"github.com/riskibarqy/eleven-fantasy/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/eleven-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/eleven-fantasy/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/eleven-fantasy/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/eleven-fantasy/internal/platform/cache"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/id"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/joblock"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/logging"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/eleven-fantasy/internal/usecase"
)

const readHeaderTimeout = 5 * time.Second

// App holds the wired service graph shared by the API server and the CLI.
type App struct {
	cfg    config.Config
	logger *logging.Logger

	Server    *http.Server
	Scheduler *usecase.SyncScheduler
	Sync      *usecase.MatchSyncService
	Matches   *usecase.MatchService

	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{cfg: cfg, logger: logger}

	matchRepo, contestRepo, err := a.buildRepositories(ctx)
	if err != nil {
		return nil, err
	}

	espnClient := espn.NewClient(espn.ClientConfig{
		BaseURL:    cfg.ESPNBaseURL,
		Timeout:    cfg.ESPNTimeout,
		MaxRetries: cfg.ESPNMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	})

	var summaries usecase.EventSummaryProvider = espnClient
	if cfg.CacheEnabled {
		contestRepo = cache.NewContestRepository(contestRepo, basecache.NewStore(cfg.ContestCacheTTL))
		summaries = cache.NewSummaryProvider(espnClient, basecache.NewStore(cfg.LineupCacheTTL))
	}

	locker, err := a.buildLocker()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Sync = usecase.NewMatchSyncService(
		espnClient,
		matchRepo,
		contestRepo,
		usecase.NewCalendarCache(),
		id.NewUUIDGenerator(),
		usecase.MatchSyncConfig{
			Season:          cfg.Season,
			League:          cfg.LeagueName,
			EntryFee:        cfg.ContestEntryFee,
			MaxParticipants: cfg.ContestMaxParticipants,
			DateFetchDelay:  cfg.ESPNDateFetchDelay,
			LiveWorkers:     cfg.LiveSyncWorkers,
		},
		logger,
	)
	a.Scheduler = usecase.NewSyncScheduler(a.Sync, locker, usecase.SchedulerConfig{
		LiveInterval: cfg.LiveSyncInterval,
		DailyHour:    cfg.FullSyncDailyAt.Hour,
		DailyMinute:  cfg.FullSyncDailyAt.Minute,
		Location:     cfg.FullSyncLocation,
		RunOnStartup: cfg.SyncOnStartup,
		LockTTL:      cfg.JobLockTTL,
	}, logger)
	a.Matches = usecase.NewMatchService(matchRepo, contestRepo, summaries, logger)

	handler := httpapi.NewHandler(a.Matches, a.Scheduler, logger)
	a.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	return a, nil
}

func (a *App) buildRepositories(ctx context.Context) (match.Repository, contest.Repository, error) {
	switch a.cfg.StorageDriver {
	case config.StorageDriverMemory:
		a.logger.Warn("using in-memory storage; data is lost on restart")
		return memory.NewMatchRepository(nil), memory.NewContestRepository(nil), nil
	case config.StorageDriverPostgres:
		db, err := openPostgres(ctx, a.cfg, a.logger)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, db.Close)
		return postgres.NewMatchRepository(db), postgres.NewContestRepository(db), nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", a.cfg.StorageDriver)
	}
}

// buildLocker always guards in-process; REDIS_URL adds a cross-replica lock.
func (a *App) buildLocker() (joblock.Locker, error) {
	local := joblock.NewLocal()
	if a.cfg.RedisURL == "" {
		return local, nil
	}

	redisLock, client, err := joblock.NewRedisFromURL(a.cfg.RedisURL, "")
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	a.logger.Info("distributed job lock enabled")
	return joblock.Chain{local, redisLock}, nil
}

// StartScheduler begins background syncing when SYNC_SCHEDULER_ENABLED is set.
func (a *App) StartScheduler(ctx context.Context) {
	if !a.cfg.SchedulerEnabled {
		a.logger.Info("sync scheduler disabled", "reason", "SYNC_SCHEDULER_ENABLED=false")
		return
	}
	a.Scheduler.Start(ctx)
}

// Shutdown stops the scheduler, drains the HTTP server and releases storage.
func (a *App) Shutdown(ctx context.Context) error {
	a.Scheduler.Stop()

	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close releases storage and lock connections in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
