package contest

import (
	"strconv"
	"time"
)

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Contest is the fantasy competition for one matchweek.
type Contest struct {
	ID              string
	Name            string
	Matchweek       int
	StartDate       time.Time
	EndDate         time.Time
	Status          Status
	Season          string
	League          string
	EntryFee        int
	MaxParticipants int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DeriveStatus places now relative to the [start, end] window. Both bounds
// are inclusive for active.
func DeriveStatus(now, start, end time.Time) Status {
	switch {
	case now.Before(start):
		return StatusUpcoming
	case now.After(end):
		return StatusCompleted
	default:
		return StatusActive
	}
}

func MatchweekName(matchweek int) string {
	return "Match Week " + strconv.Itoa(matchweek)
}
