package usecase

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/eleven-fantasy/internal/domain/lineup"
)

const unknownPlayerName = "Unknown Player"

// ParseTeamLineup splits a provider roster into starters and bench. Entries
// without an athlete id are dropped. A nil roster, or one the provider sent
// without a roster list, yields the empty team shape.
func ParseTeamLineup(roster *ExternalRoster) lineup.TeamLineup {
	if roster == nil || !roster.HasRoster {
		return lineup.EmptyTeam()
	}

	out := lineup.TeamLineup{
		Team:     firstNonBlank(roster.TeamDisplayName, roster.TeamName, lineup.UnknownTeamName),
		TeamID:   optionalString(roster.TeamID),
		Starters: make([]lineup.Player, 0, 11),
		Bench:    make([]lineup.Player, 0, len(roster.Entries)),
	}

	for _, entry := range roster.Entries {
		id := strings.TrimSpace(entry.AthleteID)
		if id == "" {
			continue
		}

		player := lineup.Player{
			ID:             id,
			Name:           firstNonBlank(entry.DisplayName, entry.FullName, unknownPlayerName),
			Position:       lineup.NormalizePosition(firstNonBlank(entry.PositionAbbr, entry.PositionName, string(lineup.PositionMID))),
			FormationPlace: parseOptionalInt(entry.FormationPlace),
			JerseyNumber:   parseOptionalInt(entry.Jersey),
			Photo:          optionalString(entry.Headshot),
			Starter:        entry.Starter,
			SubbedIn:       entry.SubbedIn,
			SubbedOut:      entry.SubbedOut,
		}
		if player.Starter {
			out.Starters = append(out.Starters, player)
		} else {
			out.Bench = append(out.Bench, player)
		}
	}

	return out
}

// BuildMatchLineups resolves which roster belongs to which side by header
// team id or the roster's home/away tag. When either side stays unresolved
// the rosters are taken in order, home first.
func BuildMatchLineups(summary ExternalEventSummary) lineup.MatchLineups {
	if len(summary.Rosters) == 0 || !summary.Rosters[0].HasRoster {
		return lineup.Unavailable()
	}

	home := findRoster(summary.Rosters, summary.HomeTeamID, "home")
	away := findRoster(summary.Rosters, summary.AwayTeamID, "away")
	if home == nil || away == nil {
		home, away = &summary.Rosters[0], nil
		if len(summary.Rosters) > 1 {
			away = &summary.Rosters[1]
		}
	}

	homeLineup := ParseTeamLineup(home)
	awayLineup := ParseTeamLineup(away)
	return lineup.MatchLineups{
		Available: true,
		Home:      &homeLineup,
		Away:      &awayLineup,
		Formation: lineup.Formation{
			Home: rosterFormation(home),
			Away: rosterFormation(away),
		},
	}
}

func findRoster(rosters []ExternalRoster, teamID, side string) *ExternalRoster {
	for i := range rosters {
		roster := &rosters[i]
		if sameTeamID(roster.TeamID, teamID) || strings.EqualFold(strings.TrimSpace(roster.HomeAway), side) {
			return roster
		}
	}
	return nil
}

func rosterFormation(roster *ExternalRoster) *string {
	if roster == nil {
		return nil
	}
	return optionalString(roster.Formation)
}

func sameTeamID(a, b string) bool {
	a = strings.TrimSpace(a)
	return a != "" && a == strings.TrimSpace(b)
}

// parseScore reads the leading digits of a provider score; anything else is 0.
func parseScore(raw string) int {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	value, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0
	}
	return value
}

func parseOptionalInt(raw string) *int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &value
}

func optionalString(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
