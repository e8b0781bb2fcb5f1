package usecase

import (
	"testing"

	"github.com/riskibarqy/eleven-fantasy/internal/domain/lineup"
)

func rosterFor(teamID, homeAway string, entries ...ExternalRosterEntry) ExternalRoster {
	return ExternalRoster{
		TeamID:          teamID,
		TeamDisplayName: "Team " + teamID,
		HomeAway:        homeAway,
		Formation:       "4-3-3",
		HasRoster:       true,
		Entries:         entries,
	}
}

func TestParseTeamLineup_SplitsStartersAndBench(t *testing.T) {
	t.Parallel()

	roster := rosterFor("364", "home",
		ExternalRosterEntry{
			AthleteID:      "1001",
			DisplayName:    "Alisson",
			PositionAbbr:   "G",
			FormationPlace: "1",
			Jersey:         "1",
			Headshot:       "https://img/1001.png",
			Starter:        true,
		},
		ExternalRosterEntry{
			AthleteID:    "1002",
			FullName:     "Federico Chiesa",
			PositionName: "Forward",
			Jersey:       "14",
			SubbedIn:     true,
		},
		ExternalRosterEntry{DisplayName: "No Identity", Starter: true},
	)

	got := ParseTeamLineup(&roster)
	if got.Team != "Team 364" || got.TeamID == nil || *got.TeamID != "364" {
		t.Fatalf("unexpected team: %+v", got)
	}
	if len(got.Starters) != 1 || len(got.Bench) != 1 {
		t.Fatalf("expected 1 starter and 1 bench, got %d/%d", len(got.Starters), len(got.Bench))
	}

	starter := got.Starters[0]
	if starter.Position != lineup.PositionGK || starter.FormationPlace == nil || *starter.FormationPlace != 1 {
		t.Fatalf("unexpected starter: %+v", starter)
	}
	if starter.Photo == nil || *starter.Photo != "https://img/1001.png" {
		t.Fatalf("unexpected photo: %v", starter.Photo)
	}

	sub := got.Bench[0]
	if sub.Name != "Federico Chiesa" || sub.Position != lineup.PositionFWD || !sub.SubbedIn {
		t.Fatalf("unexpected bench player: %+v", sub)
	}
	if sub.FormationPlace != nil || sub.JerseyNumber == nil || *sub.JerseyNumber != 14 || sub.Photo != nil {
		t.Fatalf("unexpected optional fields: %+v", sub)
	}
}

func TestParseTeamLineup_Defaults(t *testing.T) {
	t.Parallel()

	roster := ExternalRoster{HasRoster: true, Entries: []ExternalRosterEntry{{AthleteID: "7", Jersey: "x"}}}
	got := ParseTeamLineup(&roster)
	if got.Team != lineup.UnknownTeamName || got.TeamID != nil {
		t.Fatalf("unexpected team fallback: %+v", got)
	}
	player := got.Bench[0]
	if player.Name != unknownPlayerName || player.Position != lineup.PositionMID || player.JerseyNumber != nil {
		t.Fatalf("unexpected player fallback: %+v", player)
	}
}

func TestParseTeamLineup_MissingRoster(t *testing.T) {
	t.Parallel()

	for _, roster := range []*ExternalRoster{nil, {TeamID: "1"}} {
		got := ParseTeamLineup(roster)
		if got.Team != lineup.UnknownTeamName || got.TeamID != nil || len(got.Starters) != 0 || len(got.Bench) != 0 {
			t.Fatalf("expected empty team, got %+v", got)
		}
		if got.Starters == nil || got.Bench == nil {
			t.Fatalf("empty team lists must be non-nil")
		}
	}
}

func TestBuildMatchLineups_Unavailable(t *testing.T) {
	t.Parallel()

	cases := []ExternalEventSummary{
		{},
		{Rosters: []ExternalRoster{{TeamID: "1"}}},
	}
	for _, summary := range cases {
		got := BuildMatchLineups(summary)
		if got.Available || got.Home != nil || got.Away != nil || got.Formation.Home != nil {
			t.Fatalf("expected unavailable lineups, got %+v", got)
		}
	}
}

func TestBuildMatchLineups_MatchesByTeamID(t *testing.T) {
	t.Parallel()

	summary := ExternalEventSummary{
		HomeTeamID: "364",
		AwayTeamID: "349",
		Rosters: []ExternalRoster{
			rosterFor("349", ""),
			rosterFor("364", ""),
		},
	}
	summary.Rosters[0].Formation = "5-4-1"

	got := BuildMatchLineups(summary)
	if !got.Available {
		t.Fatalf("expected available lineups")
	}
	if *got.Home.TeamID != "364" || *got.Away.TeamID != "349" {
		t.Fatalf("sides swapped: home=%s away=%s", *got.Home.TeamID, *got.Away.TeamID)
	}
	if *got.Formation.Away != "5-4-1" || *got.Formation.Home != "4-3-3" {
		t.Fatalf("unexpected formations: %+v", got.Formation)
	}
}

func TestBuildMatchLineups_FallsBackToHomeAwayTag(t *testing.T) {
	t.Parallel()

	summary := ExternalEventSummary{
		Rosters: []ExternalRoster{
			rosterFor("2", "away"),
			rosterFor("1", "home"),
		},
	}
	got := BuildMatchLineups(summary)
	if *got.Home.TeamID != "1" || *got.Away.TeamID != "2" {
		t.Fatalf("expected tag-based sides, got home=%s away=%s", *got.Home.TeamID, *got.Away.TeamID)
	}
}

func TestBuildMatchLineups_FallsBackToOrder(t *testing.T) {
	t.Parallel()

	summary := ExternalEventSummary{
		HomeTeamID: "99",
		Rosters: []ExternalRoster{
			rosterFor("1", ""),
			rosterFor("2", ""),
		},
	}
	got := BuildMatchLineups(summary)
	if *got.Home.TeamID != "1" || *got.Away.TeamID != "2" {
		t.Fatalf("expected positional sides, got home=%s away=%s", *got.Home.TeamID, *got.Away.TeamID)
	}
}

func TestParseScore(t *testing.T) {
	t.Parallel()

	cases := map[string]int{"": 0, "3": 3, " 2 ": 2, "1 (4)": 1, "abc": 0}
	for raw, want := range cases {
		if got := parseScore(raw); got != want {
			t.Fatalf("parseScore(%q)=%d want %d", raw, got, want)
		}
	}
}
