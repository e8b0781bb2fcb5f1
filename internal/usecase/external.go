package usecase

import (
	"context"
	"time"
)

// ExternalCompetitor is one side of a provider event.
type ExternalCompetitor struct {
	TeamID string
	Name   string
	Logo   string
	// Score is the provider's raw score text; see parseScore.
	Score string
}

// ExternalEvent is a fixture as reported by the sports data provider.
type ExternalEvent struct {
	ID                string
	Date              time.Time
	StatusDescription string
	StatusDetail      string
	Home              *ExternalCompetitor
	Away              *ExternalCompetitor
	Venue             *string
}

type ExternalRosterEntry struct {
	AthleteID      string
	DisplayName    string
	FullName       string
	PositionAbbr   string
	PositionName   string
	FormationPlace string
	Jersey         string
	Headshot       string
	Starter        bool
	SubbedIn       bool
	SubbedOut      bool
}

type ExternalRoster struct {
	TeamID          string
	TeamDisplayName string
	TeamName        string
	HomeAway        string
	Formation       string
	// HasRoster is false when the provider omitted the roster list entirely.
	HasRoster bool
	Entries   []ExternalRosterEntry
}

// ExternalEventSummary carries the per-event detail needed for lineups.
type ExternalEventSummary struct {
	HomeTeamID string
	AwayTeamID string
	Rosters    []ExternalRoster
}

// ExternalDataProvider is the read-only contract with the sports data API.
type ExternalDataProvider interface {
	FetchSeasonCalendar(ctx context.Context) ([]time.Time, error)
	FetchEventsByDate(ctx context.Context, date time.Time) ([]ExternalEvent, error)
	FetchEventsByRange(ctx context.Context, from, to time.Time) ([]ExternalEvent, error)
	EventSummaryProvider
}

type EventSummaryProvider interface {
	FetchEventSummary(ctx context.Context, eventID string) (ExternalEventSummary, error)
}
