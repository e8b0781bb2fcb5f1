package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/eleven-fantasy/internal/domain/contest"
	contestmock "github.com/riskibarqy/eleven-fantasy/internal/mocks/domain/contest"
	basecache "github.com/riskibarqy/eleven-fantasy/internal/platform/cache"
	"github.com/riskibarqy/eleven-fantasy/internal/usecase"
	"github.com/stretchr/testify/mock"
)

func TestContestRepositoryCachesLookups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := contestmock.NewRepository(t)
	next.On("GetByID", mock.Anything, "c-1").
		Return(contest.Contest{ID: "c-1", Matchweek: 3}, true, nil).
		Once()

	repo := NewContestRepository(next, basecache.NewStore(time.Minute))
	for i := 0; i < 3; i++ {
		got, ok, err := repo.GetByID(ctx, "c-1")
		if err != nil {
			t.Fatalf("get contest: %v", err)
		}
		if !ok || got.Matchweek != 3 {
			t.Fatalf("unexpected contest: ok=%v got=%+v", ok, got)
		}
	}
}

func TestContestRepositoryCachesMisses(t *testing.T) {
	t.Parallel()

	next := contestmock.NewRepository(t)
	next.On("GetByID", mock.Anything, "missing").
		Return(contest.Contest{}, false, nil).
		Once()

	repo := NewContestRepository(next, basecache.NewStore(time.Minute))
	for i := 0; i < 2; i++ {
		if _, ok, err := repo.GetByID(context.Background(), "missing"); err != nil || ok {
			t.Fatalf("expected cached miss, ok=%v err=%v", ok, err)
		}
	}
}

func TestContestRepositoryUpsertEvictsEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := contestmock.NewRepository(t)
	next.On("GetByID", mock.Anything, "c-1").
		Return(contest.Contest{ID: "c-1", Status: contest.StatusUpcoming}, true, nil).
		Once()
	next.On("UpsertByMatchweek", mock.Anything, mock.AnythingOfType("contest.Contest")).
		Return(contest.Contest{ID: "c-1", Status: contest.StatusActive}, nil).
		Once()
	next.On("GetByID", mock.Anything, "c-1").
		Return(contest.Contest{ID: "c-1", Status: contest.StatusActive}, true, nil).
		Once()

	repo := NewContestRepository(next, basecache.NewStore(time.Minute))
	if _, _, err := repo.GetByID(ctx, "c-1"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if _, err := repo.UpsertByMatchweek(ctx, contest.Contest{Matchweek: 1}); err != nil {
		t.Fatalf("upsert contest: %v", err)
	}

	got, _, err := repo.GetByID(ctx, "c-1")
	if err != nil {
		t.Fatalf("reload contest: %v", err)
	}
	if got.Status != contest.StatusActive {
		t.Fatalf("expected refreshed status, got %q", got.Status)
	}
}

type countingSummaries struct {
	calls   int
	err     error
	summary usecase.ExternalEventSummary
}

func (c *countingSummaries) FetchEventSummary(_ context.Context, _ string) (usecase.ExternalEventSummary, error) {
	c.calls++
	if c.err != nil {
		return usecase.ExternalEventSummary{}, c.err
	}
	return c.summary, nil
}

func TestSummaryProviderCachesSuccess(t *testing.T) {
	t.Parallel()

	next := &countingSummaries{summary: usecase.ExternalEventSummary{HomeTeamID: "359", AwayTeamID: "382"}}
	provider := NewSummaryProvider(next, basecache.NewStore(time.Minute))

	for i := 0; i < 3; i++ {
		got, err := provider.FetchEventSummary(context.Background(), "740600")
		if err != nil {
			t.Fatalf("fetch summary: %v", err)
		}
		if got.HomeTeamID != "359" {
			t.Fatalf("unexpected summary: %+v", got)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", next.calls)
	}
}

func TestSummaryProviderDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	next := &countingSummaries{err: errors.New("upstream down")}
	provider := NewSummaryProvider(next, basecache.NewStore(time.Minute))

	for i := 0; i < 2; i++ {
		if _, err := provider.FetchEventSummary(context.Background(), "740600"); err == nil {
			t.Fatalf("expected error")
		}
	}
	if next.calls != 2 {
		t.Fatalf("expected two upstream calls, got %d", next.calls)
	}
}
