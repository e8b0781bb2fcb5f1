package contest

import "context"

// Repository persists contests keyed by matchweek.
type Repository interface {
	// UpsertByMatchweek creates the contest with all fields, or on an existing
	// matchweek refreshes only the window and status.
	UpsertByMatchweek(ctx context.Context, item Contest) (Contest, error)
	GetByID(ctx context.Context, id string) (Contest, bool, error)
}
