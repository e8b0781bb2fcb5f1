package lineup

import "strings"

type Position string

const (
	PositionGK  Position = "GK"
	PositionDEF Position = "DEF"
	PositionMID Position = "MID"
	PositionFWD Position = "FWD"
)

const UnknownTeamName = "Unknown Team"

// NormalizePosition folds provider position labels (abbreviations or full
// names) into the four fantasy positions. Anything unrecognised is MID.
func NormalizePosition(raw string) Position {
	p := strings.ToUpper(strings.TrimSpace(raw))

	switch {
	case strings.Contains(p, "GK") || p == "G":
		return PositionGK
	case strings.Contains(p, "DEF") || p == "D" || containsAny(p, "CB", "LB", "RB"):
		return PositionDEF
	case strings.Contains(p, "MID") || p == "M" || containsAny(p, "CM", "DM", "AM"):
		return PositionMID
	case strings.Contains(p, "FWD") || p == "F" || containsAny(p, "ST", "CF", "LW", "RW"):
		return PositionFWD
	default:
		return PositionMID
	}
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// Player is one roster entry of a match lineup.
type Player struct {
	ID             string
	Name           string
	Position       Position
	FormationPlace *int
	JerseyNumber   *int
	Photo          *string
	Starter        bool
	SubbedIn       bool
	SubbedOut      bool
}

type TeamLineup struct {
	Team     string
	TeamID   *string
	Starters []Player
	Bench    []Player
}

type Formation struct {
	Home *string
	Away *string
}

// MatchLineups is derived on demand from the provider and never stored.
type MatchLineups struct {
	Available bool
	Home      *TeamLineup
	Away      *TeamLineup
	Formation Formation
}

func Unavailable() MatchLineups {
	return MatchLineups{}
}

func EmptyTeam() TeamLineup {
	return TeamLineup{
		Team:     UnknownTeamName,
		Starters: []Player{},
		Bench:    []Player{},
	}
}
