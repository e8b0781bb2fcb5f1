package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/eleven-fantasy/internal/domain/match"
)

const matchesTable = "matches"

type matchTableModel struct {
	ID           string         `db:"id"`
	ExternalID   string         `db:"external_id"`
	HomeTeam     string         `db:"home_team"`
	AwayTeam     string         `db:"away_team"`
	HomeTeamID   string         `db:"home_team_id"`
	AwayTeamID   string         `db:"away_team_id"`
	HomeTeamLogo string         `db:"home_team_logo"`
	AwayTeamLogo string         `db:"away_team_logo"`
	Venue        sql.NullString `db:"venue"`
	MatchDate    time.Time      `db:"match_date"`
	Status       string         `db:"status"`
	HomeScore    int            `db:"home_score"`
	AwayScore    int            `db:"away_score"`
	Matchweek    int            `db:"matchweek"`
	ContestID    string         `db:"contest_id"`
	CreatedAt    time.Time      `db:"created_at,readonly"`
	UpdatedAt    time.Time      `db:"updated_at,readonly"`
}

// matchUpsertRow adds the RETURNING flag telling inserts from updates.
type matchUpsertRow struct {
	matchTableModel
	Inserted bool `db:"inserted"`
}

func matchToModel(item match.Match) matchTableModel {
	return matchTableModel{
		ID:           item.ID,
		ExternalID:   item.ExternalID,
		HomeTeam:     item.HomeTeam,
		AwayTeam:     item.AwayTeam,
		HomeTeamID:   item.HomeTeamID,
		AwayTeamID:   item.AwayTeamID,
		HomeTeamLogo: item.HomeTeamLogo,
		AwayTeamLogo: item.AwayTeamLogo,
		Venue:        nullString(item.Venue),
		MatchDate:    item.MatchDate.UTC(),
		Status:       string(item.Status),
		HomeScore:    item.HomeScore,
		AwayScore:    item.AwayScore,
		Matchweek:    item.Matchweek,
		ContestID:    item.ContestID,
	}
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:           m.ID,
		ExternalID:   m.ExternalID,
		HomeTeam:     m.HomeTeam,
		AwayTeam:     m.AwayTeam,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		HomeTeamLogo: m.HomeTeamLogo,
		AwayTeamLogo: m.AwayTeamLogo,
		Venue:        stringPtr(m.Venue),
		MatchDate:    m.MatchDate.UTC(),
		Status:       match.Status(m.Status),
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		Matchweek:    m.Matchweek,
		ContestID:    m.ContestID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
