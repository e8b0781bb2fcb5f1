package postgres

import (
	"time"

	"github.com/riskibarqy/eleven-fantasy/internal/domain/contest"
)

const contestsTable = "contests"

type contestTableModel struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Matchweek       int       `db:"matchweek"`
	StartDate       time.Time `db:"start_date"`
	EndDate         time.Time `db:"end_date"`
	Status          string    `db:"status"`
	Season          string    `db:"season"`
	League          string    `db:"league"`
	EntryFee        int       `db:"entry_fee"`
	MaxParticipants int       `db:"max_participants"`
	CreatedAt       time.Time `db:"created_at,readonly"`
	UpdatedAt       time.Time `db:"updated_at,readonly"`
}

func contestToModel(item contest.Contest) contestTableModel {
	return contestTableModel{
		ID:              item.ID,
		Name:            item.Name,
		Matchweek:       item.Matchweek,
		StartDate:       item.StartDate.UTC(),
		EndDate:         item.EndDate.UTC(),
		Status:          string(item.Status),
		Season:          item.Season,
		League:          item.League,
		EntryFee:        item.EntryFee,
		MaxParticipants: item.MaxParticipants,
	}
}

func (m contestTableModel) toDomain() contest.Contest {
	return contest.Contest{
		ID:              m.ID,
		Name:            m.Name,
		Matchweek:       m.Matchweek,
		StartDate:       m.StartDate.UTC(),
		EndDate:         m.EndDate.UTC(),
		Status:          contest.Status(m.Status),
		Season:          m.Season,
		League:          m.League,
		EntryFee:        m.EntryFee,
		MaxParticipants: m.MaxParticipants,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
