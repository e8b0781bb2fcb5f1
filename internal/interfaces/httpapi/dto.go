package httpapi

import (
	"time"

	"github.com/riskibarqy/eleven-fantasy/internal/domain/contest"
	"github.com/riskibarqy/eleven-fantasy/internal/domain/lineup"
	"github.com/riskibarqy/eleven-fantasy/internal/domain/match"
	"github.com/riskibarqy/eleven-fantasy/internal/usecase"
)

// isoLayout matches JavaScript's Date.toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

type healthDTO struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type matchDTO struct {
	ID           string  `json:"id"`
	ExternalID   string  `json:"externalId"`
	HomeTeam     string  `json:"homeTeam"`
	AwayTeam     string  `json:"awayTeam"`
	HomeTeamID   string  `json:"homeTeamId"`
	AwayTeamID   string  `json:"awayTeamId"`
	HomeTeamLogo string  `json:"homeTeamLogo"`
	AwayTeamLogo string  `json:"awayTeamLogo"`
	Venue        *string `json:"venue"`
	MatchDate    string  `json:"matchDate"`
	Status       string  `json:"status"`
	HomeScore    int     `json:"homeScore"`
	AwayScore    int     `json:"awayScore"`
	Matchweek    int     `json:"matchweek"`
	ContestID    *string `json:"contestId"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type contestDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Matchweek       int    `json:"matchweek"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	Status          string `json:"status"`
	Season          string `json:"season"`
	League          string `json:"league"`
	EntryFee        int    `json:"entryFee"`
	MaxParticipants int    `json:"maxParticipants"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

type matchDetailDTO struct {
	matchDTO
	Contest *contestDTO `json:"contest"`
	Players lineupsDTO  `json:"players"`
}

type lineupsDTO struct {
	Available bool           `json:"available"`
	Home      *teamLineupDTO `json:"home"`
	Away      *teamLineupDTO `json:"away"`
	Formation formationDTO   `json:"formation"`
}

type formationDTO struct {
	Home *string `json:"home"`
	Away *string `json:"away"`
}

type teamLineupDTO struct {
	Team     string      `json:"team"`
	TeamID   *string     `json:"teamId"`
	Starters []playerDTO `json:"starters"`
	Bench    []playerDTO `json:"bench"`
}

type playerDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Position       string  `json:"position"`
	FormationPlace *int    `json:"formationPlace"`
	JerseyNumber   *int    `json:"jerseyNumber"`
	Photo          *string `json:"photo"`
	Starter        bool    `json:"starter"`
	SubbedIn       bool    `json:"subbedIn"`
	SubbedOut      bool    `json:"subbedOut"`
}

type paginationDTO struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type matchListResponse struct {
	Success bool       `json:"success"`
	Length  int        `json:"length"`
	Data    []matchDTO `json:"data"`
}

type matchPageResponse struct {
	Success    bool          `json:"success"`
	Length     int           `json:"length"`
	Pagination paginationDTO `json:"pagination"`
	Data       []matchDTO    `json:"data"`
}

type matchDetailResponse struct {
	Success bool           `json:"success"`
	Match   matchDetailDTO `json:"match"`
}

type syncResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}

func matchToDTO(m match.Match) matchDTO {
	var contestID *string
	if m.ContestID != "" {
		id := m.ContestID
		contestID = &id
	}
	return matchDTO{
		ID:           m.ID,
		ExternalID:   m.ExternalID,
		HomeTeam:     m.HomeTeam,
		AwayTeam:     m.AwayTeam,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		HomeTeamLogo: m.HomeTeamLogo,
		AwayTeamLogo: m.AwayTeamLogo,
		Venue:        m.Venue,
		MatchDate:    formatTime(m.MatchDate),
		Status:       string(m.Status),
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		Matchweek:    m.Matchweek,
		ContestID:    contestID,
		CreatedAt:    formatTime(m.CreatedAt),
		UpdatedAt:    formatTime(m.UpdatedAt),
	}
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	return out
}

func contestToDTO(c contest.Contest) *contestDTO {
	return &contestDTO{
		ID:              c.ID,
		Name:            c.Name,
		Matchweek:       c.Matchweek,
		StartDate:       formatTime(c.StartDate),
		EndDate:         formatTime(c.EndDate),
		Status:          string(c.Status),
		Season:          c.Season,
		League:          c.League,
		EntryFee:        c.EntryFee,
		MaxParticipants: c.MaxParticipants,
		CreatedAt:       formatTime(c.CreatedAt),
		UpdatedAt:       formatTime(c.UpdatedAt),
	}
}

func paginationToDTO(p usecase.Pagination) paginationDTO {
	return paginationDTO{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
	}
}

func matchDetailToDTO(detail usecase.MatchDetail) matchDetailDTO {
	out := matchDetailDTO{
		matchDTO: matchToDTO(detail.Match),
		Players:  lineupsToDTO(detail.Lineups),
	}
	if detail.Contest != nil {
		out.Contest = contestToDTO(*detail.Contest)
	}
	return out
}

func lineupsToDTO(l lineup.MatchLineups) lineupsDTO {
	return lineupsDTO{
		Available: l.Available,
		Home:      teamLineupToDTO(l.Home),
		Away:      teamLineupToDTO(l.Away),
		Formation: formationDTO{Home: l.Formation.Home, Away: l.Formation.Away},
	}
}

func teamLineupToDTO(t *lineup.TeamLineup) *teamLineupDTO {
	if t == nil {
		return nil
	}
	return &teamLineupDTO{
		Team:     t.Team,
		TeamID:   t.TeamID,
		Starters: playersToDTO(t.Starters),
		Bench:    playersToDTO(t.Bench),
	}
}

func playersToDTO(players []lineup.Player) []playerDTO {
	out := make([]playerDTO, 0, len(players))
	for _, p := range players {
		out = append(out, playerDTO{
			ID:             p.ID,
			Name:           p.Name,
			Position:       string(p.Position),
			FormationPlace: p.FormationPlace,
			JerseyNumber:   p.JerseyNumber,
			Photo:          p.Photo,
			Starter:        p.Starter,
			SubbedIn:       p.SubbedIn,
			SubbedOut:      p.SubbedOut,
		})
	}
	return out
}
