package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/eleven-fantasy/internal/domain/match"
)

type MatchRepository struct {
	mu         sync.RWMutex
	byID       map[string]match.Match
	idByExtern map[string]string
	now        func() time.Time
}

func NewMatchRepository(seed []match.Match) *MatchRepository {
	r := &MatchRepository{
		byID:       make(map[string]match.Match, len(seed)),
		idByExtern: make(map[string]string, len(seed)),
		now:        time.Now,
	}
	for _, item := range seed {
		r.byID[item.ID] = item
		r.idByExtern[item.ExternalID] = item.ID
	}
	return r
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	if id, ok := r.idByExtern[item.ExternalID]; ok {
		existing := r.byID[id]
		existing.Status = item.Status
		existing.HomeScore = item.HomeScore
		existing.AwayScore = item.AwayScore
		existing.MatchDate = item.MatchDate
		existing.Matchweek = item.Matchweek
		existing.ContestID = item.ContestID
		existing.UpdatedAt = now
		r.byID[id] = existing
		return existing, false, nil
	}

	item.CreatedAt = now
	item.UpdatedAt = now
	r.byID[item.ID] = item
	r.idByExtern[item.ExternalID] = item.ID
	return item, true, nil
}

func (r *MatchRepository) UpdateLiveState(_ context.Context, externalID string, state match.LiveState) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.idByExtern[externalID]
	if !ok {
		return false, nil
	}
	existing := r.byID[id]
	existing.Status = state.Status
	existing.HomeScore = state.HomeScore
	existing.AwayScore = state.AwayScore
	existing.UpdatedAt = r.now().UTC()
	r.byID[id] = existing
	return true, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	return item, ok, nil
}

func (r *MatchRepository) List(_ context.Context, filter match.Filter) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.filtered(filter)
	sort.SliceStable(items, func(i, j int) bool {
		if filter.Order == match.SortByDateDesc {
			return items[i].MatchDate.After(items[j].MatchDate)
		}
		return items[i].MatchDate.Before(items[j].MatchDate)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			return []match.Match{}, nil
		}
		items = items[filter.Offset:]
	}
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

// Count ignores Limit, Offset and Order.
func (r *MatchRepository) Count(_ context.Context, filter match.Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.filtered(filter)), nil
}

func (r *MatchRepository) filtered(filter match.Filter) []match.Match {
	out := make([]match.Match, 0, len(r.byID))
	for _, item := range r.byID {
		if filter.Matches(item) {
			out = append(out, item)
		}
	}
	// map order is random; keep ties deterministic
	sort.Slice(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })
	return out
}

func (r *MatchRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}
