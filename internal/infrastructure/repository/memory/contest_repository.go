package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/eleven-fantasy/internal/domain/contest"
)

type ContestRepository struct {
	mu          sync.RWMutex
	byID        map[string]contest.Contest
	idByMatchwk map[int]string
	now         func() time.Time
}

func NewContestRepository(seed []contest.Contest) *ContestRepository {
	r := &ContestRepository{
		byID:        make(map[string]contest.Contest, len(seed)),
		idByMatchwk: make(map[int]string, len(seed)),
		now:         time.Now,
	}
	for _, item := range seed {
		r.byID[item.ID] = item
		r.idByMatchwk[item.Matchweek] = item.ID
	}
	return r
}

func (r *ContestRepository) UpsertByMatchweek(_ context.Context, item contest.Contest) (contest.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	if id, ok := r.idByMatchwk[item.Matchweek]; ok {
		existing := r.byID[id]
		existing.StartDate = item.StartDate
		existing.EndDate = item.EndDate
		existing.Status = item.Status
		existing.UpdatedAt = now
		r.byID[id] = existing
		return existing, nil
	}

	item.CreatedAt = now
	item.UpdatedAt = now
	r.byID[item.ID] = item
	r.idByMatchwk[item.Matchweek] = item.ID
	return item, nil
}

func (r *ContestRepository) GetByID(_ context.Context, id string) (contest.Contest, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	return item, ok, nil
}

func (r *ContestRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}
