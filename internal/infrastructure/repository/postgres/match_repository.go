package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/eleven-fantasy/internal/domain/match"
	qb "github.com/riskibarqy/eleven-fantasy/internal/platform/querybuilder"
)

// Only status, scores, kickoff, matchweek and contest follow the provider
// once a match exists.
const matchUpsertSuffix = `ON CONFLICT (external_id) DO UPDATE SET
	status = EXCLUDED.status,
	home_score = EXCLUDED.home_score,
	away_score = EXCLUDED.away_score,
	match_date = EXCLUDED.match_date,
	matchweek = EXCLUDED.matchweek,
	contest_id = EXCLUDED.contest_id,
	updated_at = NOW()
RETURNING *, (xmax = 0) AS inserted`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) (match.Match, bool, error) {
	query, args, err := qb.InsertModel(matchesTable, matchToModel(item), matchUpsertSuffix)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build upsert match query: %w", err)
	}

	var row matchUpsertRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return match.Match{}, false, fmt.Errorf("upsert match external_id=%s: unknown contest %s: %w", item.ExternalID, item.ContestID, err)
		}
		return match.Match{}, false, fmt.Errorf("upsert match external_id=%s: %w", item.ExternalID, err)
	}
	return row.toDomain(), row.Inserted, nil
}

func (r *MatchRepository) UpdateLiveState(ctx context.Context, externalID string, state match.LiveState) (bool, error) {
	query, args, err := qb.Update(matchesTable).
		Set("status", string(state.Status)).
		Set("home_score", state.HomeScore).
		Set("away_score", state.AwayScore).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update live state query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update live state external_id=%s: %w", externalID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From(matchesTable).
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	query, args, err := buildListMatchesQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) Count(ctx context.Context, filter match.Filter) (int, error) {
	query, args, err := qb.Count().From(matchesTable).Where(matchConditions(filter)...).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count matches query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return total, nil
}

func buildListMatchesQuery(filter match.Filter) (string, []any, error) {
	order := "match_date ASC"
	if filter.Order == match.SortByDateDesc {
		order = "match_date DESC"
	}

	builder := qb.Select("*").From(matchesTable).
		Where(matchConditions(filter)...).
		OrderBy(order, "external_id ASC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}
	return builder.ToSQL()
}

func matchConditions(filter match.Filter) []qb.Condition {
	var conds []qb.Condition
	if filter.Status != "" {
		conds = append(conds, qb.Eq("status", string(filter.Status)))
	}
	if filter.Matchweek != nil {
		conds = append(conds, qb.Eq("matchweek", *filter.Matchweek))
	}
	if filter.From != nil {
		conds = append(conds, qb.Gte("match_date", filter.From.UTC()))
	}
	return conds
}
