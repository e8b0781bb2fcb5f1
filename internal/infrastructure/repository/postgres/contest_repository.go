package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/eleven-fantasy/internal/domain/contest"
	qb "github.com/riskibarqy/eleven-fantasy/internal/platform/querybuilder"
)

// Name, season, league, fee and capacity are fixed at creation.
const contestUpsertSuffix = `ON CONFLICT (matchweek) DO UPDATE SET
	start_date = EXCLUDED.start_date,
	end_date = EXCLUDED.end_date,
	status = EXCLUDED.status,
	updated_at = NOW()
RETURNING *`

type ContestRepository struct {
	db *sqlx.DB
}

func NewContestRepository(db *sqlx.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

func (r *ContestRepository) UpsertByMatchweek(ctx context.Context, item contest.Contest) (contest.Contest, error) {
	query, args, err := qb.InsertModel(contestsTable, contestToModel(item), contestUpsertSuffix)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("build upsert contest query: %w", err)
	}

	var row contestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return contest.Contest{}, fmt.Errorf("upsert contest matchweek=%d: %w", item.Matchweek, err)
	}
	return row.toDomain(), nil
}

func (r *ContestRepository) GetByID(ctx context.Context, id string) (contest.Contest, bool, error) {
	query, args, err := qb.Select("*").From(contestsTable).
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return contest.Contest{}, false, fmt.Errorf("build select contest by id query: %w", err)
	}

	var row contestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contest.Contest{}, false, nil
		}
		return contest.Contest{}, false, fmt.Errorf("select contest by id: %w", err)
	}
	return row.toDomain(), true, nil
}
