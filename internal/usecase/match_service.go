package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/eleven-fantasy/internal/domain/contest"
	"github.com/riskibarqy/eleven-fantasy/internal/domain/lineup"
	"github.com/riskibarqy/eleven-fantasy/internal/domain/match"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	UpcomingLimit    = 10
	DefaultPage      = 1
	DefaultPageLimit = 10
)

type ListByStatusInput struct {
	Status string
	// Page and Limit are nil when the caller did not send them.
	Page  *int
	Limit *int
}

type pageRequest struct {
	Page  int `validate:"min=1"`
	Limit int `validate:"min=1"`
}

type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

type MatchPage struct {
	Matches    []match.Match
	Pagination Pagination
}

// MatchDetail is a match with its contest and the lineups fetched live.
type MatchDetail struct {
	Match   match.Match
	Contest *contest.Contest
	Lineups lineup.MatchLineups
}

type MatchService struct {
	matchRepo   match.Repository
	contestRepo contest.Repository
	summaries   EventSummaryProvider
	validator   *validator.Validate
	logger      *logging.Logger
	now         func() time.Time
}

func NewMatchService(
	matchRepo match.Repository,
	contestRepo contest.Repository,
	summaries EventSummaryProvider,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		matchRepo:   matchRepo,
		contestRepo: contestRepo,
		summaries:   summaries,
		validator:   validator.New(),
		logger:      logger,
		now:         time.Now,
	}
}

func (s *MatchService) ListUpcoming(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListUpcoming")
	defer span.End()

	now := s.now()
	items, err := s.matchRepo.List(ctx, match.Filter{
		Status: match.StatusScheduled,
		From:   &now,
		Order:  match.SortByDateAsc,
		Limit:  UpcomingLimit,
	})
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("list upcoming matches: %w", err)
	}
	return items, nil
}

// ListByMatchweek returns every match of the week, or of the season when
// week is nil.
func (s *MatchService) ListByMatchweek(ctx context.Context, week *int) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByMatchweek")
	defer span.End()

	if week != nil {
		span.SetAttributes(attribute.Int("match.matchweek", *week))
	}

	items, err := s.matchRepo.List(ctx, match.Filter{
		Matchweek: week,
		Order:     match.SortByDateAsc,
	})
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("list matches by matchweek: %w", err)
	}
	return items, nil
}

// ListByStatus pages through matches of one status. Finished matches come
// newest first, everything else in kickoff order.
func (s *MatchService) ListByStatus(ctx context.Context, input ListByStatusInput) (MatchPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByStatus")
	defer span.End()

	req := pageRequest{Page: DefaultPage, Limit: DefaultPageLimit}
	if input.Page != nil {
		req.Page = *input.Page
	}
	if input.Limit != nil {
		req.Limit = *input.Limit
	}
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return MatchPage{}, fmt.Errorf("%w: page and limit must be positive integers", ErrInvalidInput)
	}

	status, known := match.ParseStatus(input.Status)
	if !known && status != "" {
		s.logger.DebugContext(ctx, "unknown match status requested", "status", string(status))
		return MatchPage{
			Matches:    []match.Match{},
			Pagination: NewPagination(req.Page, req.Limit, 0),
		}, nil
	}

	order := match.SortByDateAsc
	if status == match.StatusFinished {
		order = match.SortByDateDesc
	}
	span.SetAttributes(
		attribute.String("match.status", string(status)),
		attribute.Int("page", req.Page),
		attribute.Int("limit", req.Limit),
	)

	filter := match.Filter{
		Status: status,
		Order:  order,
		Limit:  req.Limit,
		Offset: (req.Page - 1) * req.Limit,
	}
	items, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		recordSpanError(span, err)
		return MatchPage{}, fmt.Errorf("list matches by status: %w", err)
	}
	total, err := s.matchRepo.Count(ctx, filter)
	if err != nil {
		recordSpanError(span, err)
		return MatchPage{}, fmt.Errorf("count matches by status: %w", err)
	}

	if items == nil {
		items = []match.Match{}
	}
	return MatchPage{
		Matches:    items,
		Pagination: NewPagination(req.Page, req.Limit, total),
	}, nil
}

// GetByID loads the match and its contest, then attaches lineups from the
// provider. Lineup failures degrade to the unavailable shape.
func (s *MatchService) GetByID(ctx context.Context, matchID string) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetByID")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchDetail{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		recordSpanError(span, err)
		return MatchDetail{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return MatchDetail{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	detail := MatchDetail{Match: item, Lineups: lineup.Unavailable()}
	if item.ContestID != "" {
		c, found, err := s.contestRepo.GetByID(ctx, item.ContestID)
		if err != nil {
			recordSpanError(span, err)
			return MatchDetail{}, fmt.Errorf("get contest: %w", err)
		}
		if found {
			detail.Contest = &c
		}
	}

	if s.summaries != nil && item.ExternalID != "" {
		summary, err := s.summaries.FetchEventSummary(ctx, item.ExternalID)
		if err != nil {
			s.logger.WarnContext(ctx, "lineups unavailable",
				"match_id", item.ID,
				"external_id", item.ExternalID,
				"error", err,
			)
		} else {
			detail.Lineups = BuildMatchLineups(summary)
		}
	}
	return detail, nil
}
