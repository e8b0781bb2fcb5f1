package match

import (
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusFinished  Status = "finished"
	StatusPostponed Status = "postponed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusFinished, StatusPostponed, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseStatus accepts the lowercase enum names, case-insensitively.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// Match is one fixture of the season, keyed by the provider's event id.
type Match struct {
	ID           string
	ExternalID   string
	HomeTeam     string
	AwayTeam     string
	HomeTeamID   string
	AwayTeamID   string
	HomeTeamLogo string
	AwayTeamLogo string
	Venue        *string
	MatchDate    time.Time
	Status       Status
	HomeScore    int
	AwayScore    int
	Matchweek    int
	ContestID    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LiveState is the subset of a match refreshed by the live poller.
type LiveState struct {
	Status    Status
	HomeScore int
	AwayScore int
}

type SortOrder int

const (
	SortByDateAsc SortOrder = iota
	SortByDateDesc
)

// Filter narrows List and Count. Zero values mean "no constraint".
type Filter struct {
	Status    Status
	Matchweek *int
	From      *time.Time
	Order     SortOrder
	Limit     int
	Offset    int
}

func (f Filter) Matches(m Match) bool {
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.Matchweek != nil && m.Matchweek != *f.Matchweek {
		return false
	}
	if f.From != nil && m.MatchDate.Before(*f.From) {
		return false
	}
	return true
}
