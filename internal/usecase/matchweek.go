package usecase

import (
	"sort"
	"time"
)

const (
	MatchesPerMatchweek = 10
	ExpectedMatchweeks  = 38
)

// Matchweek is a transient grouping of events with its time window.
type Matchweek struct {
	Number    int
	Events    []ExternalEvent
	StartDate time.Time
	EndDate   time.Time
}

// GroupIntoMatchweeks sorts events by date (ties keep input order) and cuts
// them into consecutive chunks of MatchesPerMatchweek, numbered from 1. The
// final chunk may be short. Postponed fixtures therefore land in the week
// their current date falls in rather than their official round.
func GroupIntoMatchweeks(events []ExternalEvent) []Matchweek {
	if len(events) == 0 {
		return nil
	}

	sorted := append([]ExternalEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	out := make([]Matchweek, 0, (len(sorted)+MatchesPerMatchweek-1)/MatchesPerMatchweek)
	for start := 0; start < len(sorted); start += MatchesPerMatchweek {
		end := min(start+MatchesPerMatchweek, len(sorted))
		chunk := sorted[start:end]
		out = append(out, Matchweek{
			Number:    len(out) + 1,
			Events:    chunk,
			StartDate: chunk[0].Date,
			EndDate:   chunk[len(chunk)-1].Date,
		})
	}
	return out
}
