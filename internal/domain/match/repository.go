package match

import "context"

// Repository persists matches keyed by ExternalID.
type Repository interface {
	// Upsert creates the match when ExternalID is unseen. For an existing
	// match only status, scores, date, matchweek and contest are refreshed.
	Upsert(ctx context.Context, item Match) (Match, bool, error)
	// UpdateLiveState never creates rows; found=false when ExternalID is unknown.
	UpdateLiveState(ctx context.Context, externalID string, state LiveState) (bool, error)
	GetByID(ctx context.Context, id string) (Match, bool, error)
	List(ctx context.Context, filter Filter) ([]Match, error)
	Count(ctx context.Context, filter Filter) (int, error)
}
