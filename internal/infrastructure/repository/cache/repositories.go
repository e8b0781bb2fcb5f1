package cache

import (
	"context"

	"github.com/riskibarqy/eleven-fantasy/internal/domain/contest"
	basecache "github.com/riskibarqy/eleven-fantasy/internal/platform/cache"
	"github.com/riskibarqy/eleven-fantasy/internal/usecase"
)

const (
	contestKeyPrefix = "contest:id:"
	summaryKeyPrefix = "summary:event:"
)

type ContestRepository struct {
	next  contest.Repository
	cache *basecache.Store
}

func NewContestRepository(next contest.Repository, cache *basecache.Store) *ContestRepository {
	return &ContestRepository{next: next, cache: cache}
}

func (r *ContestRepository) GetByID(ctx context.Context, contestID string) (contest.Contest, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, contestKeyPrefix+contestID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, contestID)
		if err != nil {
			return nil, err
		}
		return cachedContestByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return contest.Contest{}, false, err
	}

	cached, _ := v.(cachedContestByID)
	return cached.value, cached.exists, nil
}

// UpsertByMatchweek writes through and evicts the cached row.
func (r *ContestRepository) UpsertByMatchweek(ctx context.Context, item contest.Contest) (contest.Contest, error) {
	saved, err := r.next.UpsertByMatchweek(ctx, item)
	if err != nil {
		return contest.Contest{}, err
	}
	r.cache.Delete(ctx, contestKeyPrefix+saved.ID)
	return saved, nil
}

type cachedContestByID struct {
	value  contest.Contest
	exists bool
}

// SummaryProvider memoizes event summaries for the store TTL. Failed fetches
// are not cached.
type SummaryProvider struct {
	next  usecase.EventSummaryProvider
	cache *basecache.Store
}

func NewSummaryProvider(next usecase.EventSummaryProvider, cache *basecache.Store) *SummaryProvider {
	return &SummaryProvider{next: next, cache: cache}
}

func (p *SummaryProvider) FetchEventSummary(ctx context.Context, eventID string) (usecase.ExternalEventSummary, error) {
	if eventID == "" {
		return p.next.FetchEventSummary(ctx, eventID)
	}

	v, err := p.cache.GetOrLoad(ctx, summaryKeyPrefix+eventID, func(ctx context.Context) (any, error) {
		return p.next.FetchEventSummary(ctx, eventID)
	})
	if err != nil {
		return usecase.ExternalEventSummary{}, err
	}

	summary, _ := v.(usecase.ExternalEventSummary)
	return summary, nil
}
