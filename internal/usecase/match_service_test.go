package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/eleven-fantasy/internal/domain/contest"
	"github.com/riskibarqy/eleven-fantasy/internal/domain/match"
	contestmock "github.com/riskibarqy/eleven-fantasy/internal/mocks/domain/contest"
	matchmock "github.com/riskibarqy/eleven-fantasy/internal/mocks/domain/match"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func intPtr(v int) *int { return &v }

func TestMatchService_ListUpcomingUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	service := NewMatchService(matchRepo, contestmock.NewRepository(t), nil, logging.NewNop())
	now := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	matchRepo.
		On("List", mock.Anything, mock.MatchedBy(func(f match.Filter) bool {
			return f.Status == match.StatusScheduled &&
				f.From != nil && f.From.Equal(now) &&
				f.Order == match.SortByDateAsc &&
				f.Limit == UpcomingLimit
		})).
		Return([]match.Match{{ID: "m-1"}}, nil).
		Once()

	got, err := service.ListUpcoming(ctx)
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(got) != 1 || got[0].ID != "m-1" {
		t.Fatalf("unexpected matches: %+v", got)
	}
}

func TestMatchService_ListByMatchweekUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	service := NewMatchService(matchRepo, contestmock.NewRepository(t), nil, logging.NewNop())

	matchRepo.
		On("List", mock.Anything, mock.MatchedBy(func(f match.Filter) bool {
			return f.Matchweek != nil && *f.Matchweek == 3 && f.Limit == 0
		})).
		Return([]match.Match{{ID: "m-1"}, {ID: "m-2"}}, nil).
		Once()

	got, err := service.ListByMatchweek(context.Background(), intPtr(3))
	if err != nil || len(got) != 2 {
		t.Fatalf("unexpected result: %d err=%v", len(got), err)
	}
}

func TestMatchService_ListByStatusRejectsNonPositivePaging(t *testing.T) {
	t.Parallel()

	service := NewMatchService(matchmock.NewRepository(t), contestmock.NewRepository(t), nil, logging.NewNop())

	for _, input := range []ListByStatusInput{
		{Status: "live", Page: intPtr(0)},
		{Status: "live", Limit: intPtr(0)},
		{Status: "live", Page: intPtr(-2), Limit: intPtr(5)},
	} {
		if _, err := service.ListByStatus(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", input, err)
		}
	}
}

func TestMatchService_ListByStatusFinishedNewestFirst(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	service := NewMatchService(matchRepo, contestmock.NewRepository(t), nil, logging.NewNop())

	isPage := mock.MatchedBy(func(f match.Filter) bool {
		return f.Status == match.StatusFinished && f.Order == match.SortByDateDesc && f.Limit == 5 && f.Offset == 5
	})
	matchRepo.On("List", mock.Anything, isPage).Return([]match.Match{{ID: "m-6"}}, nil).Once()
	matchRepo.On("Count", mock.Anything, isPage).Return(11, nil).Once()

	page, err := service.ListByStatus(context.Background(), ListByStatusInput{
		Status: "Finished",
		Page:   intPtr(2),
		Limit:  intPtr(5),
	})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	want := Pagination{Page: 2, Limit: 5, Total: 11, TotalPages: 3, HasNext: true, HasPrev: true}
	if page.Pagination != want {
		t.Fatalf("unexpected pagination: %+v", page.Pagination)
	}
}

func TestMatchService_ListByStatusPastLastPage(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	service := NewMatchService(matchRepo, contestmock.NewRepository(t), nil, logging.NewNop())

	matchRepo.On("List", mock.Anything, mock.Anything).Return(nil, nil).Once()
	matchRepo.On("Count", mock.Anything, mock.Anything).Return(4, nil).Once()

	page, err := service.ListByStatus(context.Background(), ListByStatusInput{Status: "scheduled", Page: intPtr(9)})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if page.Matches == nil || len(page.Matches) != 0 {
		t.Fatalf("expected empty non-nil page, got %#v", page.Matches)
	}
	if page.Pagination.HasNext || page.Pagination.TotalPages != 1 || page.Pagination.Limit != DefaultPageLimit {
		t.Fatalf("unexpected pagination: %+v", page.Pagination)
	}
}

func TestMatchService_ListByStatusUnknownStatusSkipsRepository(t *testing.T) {
	t.Parallel()

	service := NewMatchService(matchmock.NewRepository(t), contestmock.NewRepository(t), nil, logging.NewNop())

	page, err := service.ListByStatus(context.Background(), ListByStatusInput{Status: "abandoned"})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if page.Matches == nil || len(page.Matches) != 0 {
		t.Fatalf("expected empty non-nil page, got %#v", page.Matches)
	}
	want := Pagination{Page: DefaultPage, Limit: DefaultPageLimit}
	if page.Pagination != want {
		t.Fatalf("unexpected pagination: %+v", page.Pagination)
	}
}

func TestMatchService_ListByStatusNormalizesCase(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	service := NewMatchService(matchRepo, contestmock.NewRepository(t), nil, logging.NewNop())

	isLive := mock.MatchedBy(func(f match.Filter) bool { return f.Status == match.StatusLive })
	matchRepo.On("List", mock.Anything, isLive).Return([]match.Match{{ID: "m-1"}}, nil).Once()
	matchRepo.On("Count", mock.Anything, isLive).Return(1, nil).Once()

	page, err := service.ListByStatus(context.Background(), ListByStatusInput{Status: " LIVE "})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(page.Matches) != 1 || page.Pagination.Total != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestMatchService_GetByIDNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	service := NewMatchService(matchRepo, contestmock.NewRepository(t), nil, logging.NewNop())

	matchRepo.On("GetByID", mock.Anything, "missing").Return(match.Match{}, false, nil).Once()

	if _, err := service.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.GetByID(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchService_GetByIDAttachesContestAndLineups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	contestRepo := contestmock.NewRepository(t)
	provider := &fakeProvider{summaries: map[string]ExternalEventSummary{
		"740001": {
			HomeTeamID: "1",
			AwayTeamID: "2",
			Rosters: []ExternalRoster{
				rosterFor("1", "home", ExternalRosterEntry{AthleteID: "p1", Starter: true}),
				rosterFor("2", "away", ExternalRosterEntry{AthleteID: "p2"}),
			},
		},
	}}
	service := NewMatchService(matchRepo, contestRepo, provider, logging.NewNop())

	matchRepo.On("GetByID", mock.Anything, "m-1").
		Return(match.Match{ID: "m-1", ExternalID: "740001", ContestID: "c-1"}, true, nil).Once()
	contestRepo.On("GetByID", mock.Anything, "c-1").
		Return(contest.Contest{ID: "c-1", Matchweek: 1}, true, nil).Once()

	detail, err := service.GetByID(ctx, "m-1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if detail.Contest == nil || detail.Contest.ID != "c-1" {
		t.Fatalf("contest not attached: %+v", detail.Contest)
	}
	if !detail.Lineups.Available || len(detail.Lineups.Home.Starters) != 1 || len(detail.Lineups.Away.Bench) != 1 {
		t.Fatalf("unexpected lineups: %+v", detail.Lineups)
	}
}

func TestMatchService_GetByIDLineupFailureDegrades(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	provider := &fakeProvider{summaryErr: errors.New("timeout")}
	service := NewMatchService(matchRepo, contestmock.NewRepository(t), provider, logging.NewNop())

	matchRepo.On("GetByID", mock.Anything, "m-1").
		Return(match.Match{ID: "m-1", ExternalID: "740001"}, true, nil).Once()

	detail, err := service.GetByID(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("lineup failure must not fail the request: %v", err)
	}
	if detail.Lineups.Available || detail.Contest != nil {
		t.Fatalf("expected unavailable lineups and no contest, got %+v", detail)
	}
}
