package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/eleven-fantasy/internal/domain/contest"
	"github.com/riskibarqy/eleven-fantasy/internal/domain/match"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/id"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

const (
	defaultLiveSyncWorkers = 4
	liveWindowDaysBefore   = 2
	liveWindowDaysAfter    = 1

	jobFullSync = "full_sync"
	jobLiveSync = "live_sync"
)

type MatchSyncConfig struct {
	Season          string
	League          string
	EntryFee        int
	MaxParticipants int
	// DateFetchDelay paces the per-date scoreboard calls of a full sync.
	DateFetchDelay time.Duration
	LiveWorkers    int
}

type FullSyncResult struct {
	CalendarDates    int           `json:"calendarDates"`
	DatesFetched     int           `json:"datesFetched"`
	DatesFailed      int           `json:"datesFailed"`
	Events           int           `json:"events"`
	Matchweeks       int           `json:"matchweeks"`
	MatchweeksFailed int           `json:"matchweeksFailed"`
	MatchesCreated   int           `json:"matchesCreated"`
	MatchesUpdated   int           `json:"matchesUpdated"`
	MatchesSkipped   int           `json:"matchesSkipped"`
	MatchesFailed    int           `json:"matchesFailed"`
	Duration         time.Duration `json:"-"`
}

type LiveSyncResult struct {
	From     time.Time     `json:"from"`
	To       time.Time     `json:"to"`
	Events   int           `json:"events"`
	Updated  int           `json:"updated"`
	Finished int           `json:"finished"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"-"`
}

// MatchSyncService reconciles provider fixtures into matches and contests.
type MatchSyncService struct {
	provider    ExternalDataProvider
	matchRepo   match.Repository
	contestRepo contest.Repository
	calendar    *CalendarCache
	idGen       id.Generator
	cfg         MatchSyncConfig
	logger      *logging.Logger
	metrics     syncMetrics
	now         func() time.Time
}

func NewMatchSyncService(
	provider ExternalDataProvider,
	matchRepo match.Repository,
	contestRepo contest.Repository,
	calendar *CalendarCache,
	idGen id.Generator,
	cfg MatchSyncConfig,
	logger *logging.Logger,
) *MatchSyncService {
	if calendar == nil {
		calendar = NewCalendarCache()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.LiveWorkers <= 0 {
		cfg.LiveWorkers = defaultLiveSyncWorkers
	}

	return &MatchSyncService{
		provider:    provider,
		matchRepo:   matchRepo,
		contestRepo: contestRepo,
		calendar:    calendar,
		idGen:       idGen,
		cfg:         cfg,
		logger:      logger.Named("match_sync"),
		metrics:     newSyncMetrics(),
		now:         time.Now,
	}
}

// ResetCalendar drops the cached season calendar so the next full sync
// refetches it.
func (s *MatchSyncService) ResetCalendar() {
	s.calendar.Invalidate()
}

// SeasonCalendar returns the cached calendar, fetching it on a miss.
func (s *MatchSyncService) SeasonCalendar(ctx context.Context) ([]time.Time, error) {
	if dates, ok := s.calendar.Get(s.cfg.Season); ok {
		return dates, nil
	}

	s.logger.InfoContext(ctx, "fetching season calendar", "season", s.cfg.Season)
	dates, err := s.provider.FetchSeasonCalendar(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch season calendar: %w", err)
	}
	s.calendar.Store(s.cfg.Season, dates)
	s.logger.InfoContext(ctx, "season calendar loaded", "dates", len(dates))
	return dates, nil
}

// FullSync fetches every calendar date, groups the season into matchweeks
// and upserts contests and matches. Only a calendar failure or a cancelled
// context ends the pass early; dates, matchweeks and events fail in isolation.
func (s *MatchSyncService) FullSync(ctx context.Context) (FullSyncResult, error) {
	ctx, span := startJobSpan(ctx, "usecase.MatchSyncService.FullSync")
	defer span.End()

	started := s.now()
	var result FullSyncResult
	defer func() {
		result.Duration = s.now().Sub(started)
		s.metrics.record(ctx, jobFullSync,
			result.MatchesCreated+result.MatchesUpdated,
			result.DatesFailed+result.MatchweeksFailed+result.MatchesFailed,
			result.Duration.Seconds())
	}()

	s.logger.InfoContext(ctx, "full sync started")

	dates, err := s.SeasonCalendar(ctx)
	if err != nil {
		recordSpanError(span, err)
		s.logger.ErrorContext(ctx, "full sync aborted", "error", err)
		return result, err
	}
	result.CalendarDates = len(dates)

	events, err := s.fetchCalendarEvents(ctx, dates, &result)
	if err != nil {
		recordSpanError(span, err)
		return result, err
	}
	result.Events = len(events)
	s.logger.InfoContext(ctx, "fetched season events", "events", len(events), "dates_failed", result.DatesFailed)

	weeks := GroupIntoMatchweeks(events)
	result.Matchweeks = len(weeks)
	if len(weeks) != ExpectedMatchweeks {
		s.logger.WarnContext(ctx, "unexpected matchweek count",
			"expected", ExpectedMatchweeks,
			"got", len(weeks),
			"events", len(events),
		)
	}

	for _, week := range weeks {
		if err := ctx.Err(); err != nil {
			recordSpanError(span, err)
			return result, err
		}
		s.syncMatchweek(ctx, week, &result)
	}

	span.SetAttributes(
		attribute.Int("sync.events", result.Events),
		attribute.Int("sync.matchweeks", result.Matchweeks),
		attribute.Int("sync.matches_failed", result.MatchesFailed),
	)
	s.logger.InfoContext(ctx, "full sync completed",
		"matchweeks", result.Matchweeks,
		"created", result.MatchesCreated,
		"updated", result.MatchesUpdated,
		"skipped", result.MatchesSkipped,
		"failed", result.MatchesFailed,
	)
	return result, nil
}

// fetchCalendarEvents walks the calendar in order, one scoreboard call per
// date. Events repeated across dates are kept once, first occurrence wins.
func (s *MatchSyncService) fetchCalendarEvents(ctx context.Context, dates []time.Time, result *FullSyncResult) ([]ExternalEvent, error) {
	limit := rate.Inf
	if s.cfg.DateFetchDelay > 0 {
		limit = rate.Every(s.cfg.DateFetchDelay)
	}
	limiter := rate.NewLimiter(limit, 1)

	seen := make(map[string]struct{})
	events := make([]ExternalEvent, 0, len(dates)*MatchesPerMatchweek/2)
	for i, date := range dates {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for date fetch: %w", err)
		}

		items, err := s.provider.FetchEventsByDate(ctx, date)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.DatesFailed++
			s.logger.WarnContext(ctx, "skipping calendar date",
				"date", date.Format("20060102"),
				"position", fmt.Sprintf("%d/%d", i+1, len(dates)),
				"error", err,
			)
			continue
		}
		result.DatesFetched++

		for _, item := range items {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			events = append(events, item)
		}
	}
	return events, nil
}

func (s *MatchSyncService) syncMatchweek(ctx context.Context, week Matchweek, result *FullSyncResult) {
	now := s.now()
	contestID, err := s.idGen.NewID()
	if err != nil {
		result.MatchweeksFailed++
		s.logger.ErrorContext(ctx, "generate contest id", "matchweek", week.Number, "error", err)
		return
	}

	saved, err := s.contestRepo.UpsertByMatchweek(ctx, contest.Contest{
		ID:              contestID,
		Name:            contest.MatchweekName(week.Number),
		Matchweek:       week.Number,
		StartDate:       week.StartDate,
		EndDate:         week.EndDate,
		Status:          contest.DeriveStatus(now, week.StartDate, week.EndDate),
		Season:          s.cfg.Season,
		League:          s.cfg.League,
		EntryFee:        s.cfg.EntryFee,
		MaxParticipants: s.cfg.MaxParticipants,
	})
	if err != nil {
		result.MatchweeksFailed++
		s.logger.ErrorContext(ctx, "skipping matchweek", "matchweek", week.Number, "error", err)
		return
	}

	for _, event := range week.Events {
		item, ok := matchFromEvent(event, week.Number, saved.ID)
		if !ok {
			result.MatchesSkipped++
			s.logger.WarnContext(ctx, "event missing competitors", "external_id", event.ID)
			continue
		}
		if item.ID, err = s.idGen.NewID(); err != nil {
			result.MatchesFailed++
			s.logger.ErrorContext(ctx, "generate match id", "external_id", event.ID, "error", err)
			continue
		}

		_, created, err := s.matchRepo.Upsert(ctx, item)
		if err != nil {
			result.MatchesFailed++
			s.logger.ErrorContext(ctx, "upsert match", "external_id", event.ID, "error", err)
			continue
		}
		if created {
			result.MatchesCreated++
		} else {
			result.MatchesUpdated++
		}
	}

	s.logger.DebugContext(ctx, "matchweek saved",
		"matchweek", week.Number,
		"contest_id", saved.ID,
		"matches", len(week.Events),
	)
}

func matchFromEvent(event ExternalEvent, matchweek int, contestID string) (match.Match, bool) {
	if strings.TrimSpace(event.ID) == "" || event.Home == nil || event.Away == nil {
		return match.Match{}, false
	}

	return match.Match{
		ExternalID:   event.ID,
		HomeTeam:     event.Home.Name,
		AwayTeam:     event.Away.Name,
		HomeTeamID:   event.Home.TeamID,
		AwayTeamID:   event.Away.TeamID,
		HomeTeamLogo: event.Home.Logo,
		AwayTeamLogo: event.Away.Logo,
		Venue:        event.Venue,
		MatchDate:    event.Date,
		Status:       match.MapProviderStatus(event.StatusDescription, event.StatusDetail),
		HomeScore:    parseScore(event.Home.Score),
		AwayScore:    parseScore(event.Away.Score),
		Matchweek:    matchweek,
		ContestID:    contestID,
	}, true
}

// LiveWindow is the inclusive UTC date range polled by LiveSync.
func LiveWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -liveWindowDaysBefore), today.AddDate(0, 0, liveWindowDaysAfter)
}

// LiveSync refreshes status and scores of matches around today. It never
// creates matches or moves kickoff dates; unknown events are skipped.
func (s *MatchSyncService) LiveSync(ctx context.Context) (LiveSyncResult, error) {
	ctx, span := startJobSpan(ctx, "usecase.MatchSyncService.LiveSync")
	defer span.End()

	started := s.now()
	from, to := LiveWindow(started)
	result := LiveSyncResult{From: from, To: to}
	defer func() {
		result.Duration = s.now().Sub(started)
		s.metrics.record(ctx, jobLiveSync, result.Updated, result.Failed, result.Duration.Seconds())
	}()

	s.logger.InfoContext(ctx, "live sync started",
		"from", from.Format("20060102"),
		"to", to.Format("20060102"),
	)

	events, err := s.provider.FetchEventsByRange(ctx, from, to)
	if err != nil {
		err = fmt.Errorf("fetch live window: %w", err)
		recordSpanError(span, err)
		s.logger.ErrorContext(ctx, "live sync aborted", "error", err)
		return result, err
	}
	result.Events = len(events)
	if len(events) == 0 {
		s.logger.InfoContext(ctx, "no matches in live window")
		return result, nil
	}

	pool, err := ants.NewPool(min(s.cfg.LiveWorkers, len(events)))
	if err != nil {
		return result, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var updated, finished, skipped, failed atomic.Int32
	var workers sync.WaitGroup
	for _, event := range events {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			switch outcome := s.applyLiveEvent(ctx, event); outcome {
			case liveOutcomeUpdated, liveOutcomeFinished:
				updated.Add(1)
				if outcome == liveOutcomeFinished {
					finished.Add(1)
				}
			case liveOutcomeSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
		}); err != nil {
			workers.Done()
			failed.Add(1)
			s.logger.ErrorContext(ctx, "submit live update", "external_id", event.ID, "error", err)
		}
	}
	workers.Wait()

	result.Updated = int(updated.Load())
	result.Finished = int(finished.Load())
	result.Skipped = int(skipped.Load())
	result.Failed = int(failed.Load())

	span.SetAttributes(
		attribute.Int("sync.events", result.Events),
		attribute.Int("sync.updated", result.Updated),
		attribute.Int("sync.skipped", result.Skipped),
	)
	s.logger.InfoContext(ctx, "live sync completed",
		"events", result.Events,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

type liveOutcome int

const (
	liveOutcomeFailed liveOutcome = iota
	liveOutcomeUpdated
	liveOutcomeFinished
	liveOutcomeSkipped
)

func (s *MatchSyncService) applyLiveEvent(ctx context.Context, event ExternalEvent) (outcome liveOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "live update panicked", "external_id", event.ID, "panic", fmt.Sprint(r))
			outcome = liveOutcomeFailed
		}
	}()

	state := match.LiveState{
		Status: match.MapProviderStatus(event.StatusDescription, event.StatusDetail),
	}
	if event.Home != nil {
		state.HomeScore = parseScore(event.Home.Score)
	}
	if event.Away != nil {
		state.AwayScore = parseScore(event.Away.Score)
	}

	found, err := s.matchRepo.UpdateLiveState(ctx, event.ID, state)
	if err != nil {
		s.logger.ErrorContext(ctx, "update live state", "external_id", event.ID, "error", err)
		return liveOutcomeFailed
	}
	if !found {
		s.logger.InfoContext(ctx, "live event has no stored match", "external_id", event.ID)
		return liveOutcomeSkipped
	}

	if state.Status == match.StatusFinished {
		s.logger.InfoContext(ctx, "match finished",
			"external_id", event.ID,
			"score", fmt.Sprintf("%s %d - %d %s", competitorName(event.Home), state.HomeScore, state.AwayScore, competitorName(event.Away)),
		)
		return liveOutcomeFinished
	}
	return liveOutcomeUpdated
}

func competitorName(c *ExternalCompetitor) string {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return "?"
	}
	return c.Name
}
