package espn

import (
	"strings"
	"time"

	"github.com/riskibarqy/eleven-fantasy/internal/usecase"
)

var eventDateLayouts = []string{
	"2006-01-02T15:04Z07:00",
	time.RFC3339,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

func parseEventDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseCalendar keeps the date part of each entry. Unparseable entries are
// dropped.
func parseCalendar(entries []calendarEntry) []time.Time {
	out := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		day, _, _ := strings.Cut(strings.TrimSpace(string(entry)), "T")
		if t, err := time.Parse("2006-01-02", day); err == nil {
			out = append(out, t)
		}
	}
	return out
}

func mapEvents(items []eventItem) []usecase.ExternalEvent {
	out := make([]usecase.ExternalEvent, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ID.String())
		if id == "" {
			continue
		}
		date, ok := parseEventDate(item.Date)
		if !ok {
			continue
		}

		event := usecase.ExternalEvent{ID: id, Date: date}
		status := item.Status
		if len(item.Competitions) > 0 {
			comp := item.Competitions[0]
			if comp.Status != nil {
				status = comp.Status
			}
			if comp.Venue != nil {
				if venue := strings.TrimSpace(comp.Venue.FullName); venue != "" {
					event.Venue = &venue
				}
			}
			event.Home = findCompetitor(comp.Competitors, "home")
			event.Away = findCompetitor(comp.Competitors, "away")
		}
		if status != nil {
			event.StatusDescription = status.Type.Description
			event.StatusDetail = status.Type.ShortDetail
		}
		out = append(out, event)
	}
	return out
}

func findCompetitor(items []competitorItem, side string) *usecase.ExternalCompetitor {
	for _, item := range items {
		if !strings.EqualFold(strings.TrimSpace(item.HomeAway), side) {
			continue
		}
		return &usecase.ExternalCompetitor{
			TeamID: strings.TrimSpace(item.Team.ID.String()),
			Name:   teamName(item.Team),
			Logo:   teamLogo(item.Team),
			Score:  item.Score.String(),
		}
	}
	return nil
}

func teamName(team teamItem) string {
	if name := strings.TrimSpace(team.DisplayName); name != "" {
		return name
	}
	return strings.TrimSpace(team.Name)
}

func teamLogo(team teamItem) string {
	if logo := strings.TrimSpace(team.Logo); logo != "" {
		return logo
	}
	for _, l := range team.Logos {
		if href := strings.TrimSpace(l.Href); href != "" {
			return href
		}
	}
	return ""
}

func mapSummary(payload summaryEnvelope) usecase.ExternalEventSummary {
	var out usecase.ExternalEventSummary
	if len(payload.Header.Competitions) > 0 {
		for _, c := range payload.Header.Competitions[0].Competitors {
			switch strings.ToLower(strings.TrimSpace(c.HomeAway)) {
			case "home":
				out.HomeTeamID = strings.TrimSpace(c.Team.ID.String())
			case "away":
				out.AwayTeamID = strings.TrimSpace(c.Team.ID.String())
			}
		}
	}

	out.Rosters = make([]usecase.ExternalRoster, 0, len(payload.Rosters))
	for _, r := range payload.Rosters {
		roster := usecase.ExternalRoster{
			TeamID:          strings.TrimSpace(r.Team.ID.String()),
			TeamDisplayName: r.Team.DisplayName,
			TeamName:        r.Team.Name,
			HomeAway:        r.HomeAway,
			Formation:       r.Formation,
			HasRoster:       r.Roster != nil,
		}
		if r.Roster != nil {
			roster.Entries = make([]usecase.ExternalRosterEntry, 0, len(*r.Roster))
			for _, entry := range *r.Roster {
				roster.Entries = append(roster.Entries, mapRosterEntry(entry))
			}
		}
		out.Rosters = append(out.Rosters, roster)
	}
	return out
}

func mapRosterEntry(entry rosterEntryItem) usecase.ExternalRosterEntry {
	out := usecase.ExternalRosterEntry{
		FormationPlace: entry.FormationPlace.String(),
		Jersey:         entry.Jersey.String(),
		Starter:        bool(entry.Starter),
		SubbedIn:       bool(entry.SubbedIn),
		SubbedOut:      bool(entry.SubbedOut),
	}
	if a := entry.Athlete; a != nil {
		out.AthleteID = a.ID.String()
		out.DisplayName = a.DisplayName
		out.FullName = a.FullName
		if a.Position != nil {
			out.PositionAbbr = a.Position.Abbreviation
			out.PositionName = a.Position.Name
		}
		if a.Headshot != nil {
			out.Headshot = a.Headshot.Href
		}
	}
	return out
}
