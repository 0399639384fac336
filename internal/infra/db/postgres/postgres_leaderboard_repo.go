package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"talkpdf-backend/internal/domain"
	"talkpdf-backend/internal/domain/ports/repository"
)

var _ repository.LeaderboardRepository = (*leaderboardRepo)(nil)

type leaderboardRepo struct{ pool *pgxpool.Pool }

func NewLeaderboardRepo(pool *pgxpool.Pool) *leaderboardRepo {
	return &leaderboardRepo{pool: pool}
}

// TopSince aggregates quiz XP per user over the trailing window.
func (r *leaderboardRepo) TopSince(ctx context.Context, tx repository.Tx, sinceDays int, limit int) ([]repository.LeaderboardRow, error) {
	q := fmt.Sprintf(`
SELECT q.user_id, COALESCE(p.display_name, ''), SUM(q.xp_earned) AS xp
  FROM quiz_results q
  LEFT JOIN profiles p ON p.id = q.user_id
 WHERE q.completed_at >= NOW() - INTERVAL '%d days'
 GROUP BY q.user_id, p.display_name
 ORDER BY xp DESC
 LIMIT $1;`, sinceDays)

	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []repository.LeaderboardRow
	rank := 0
	for rows.Next() {
		var row repository.LeaderboardRow
		if err := rows.Scan(&row.UserID, &row.DisplayName, &row.XP); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		rank++
		row.Rank = rank
		out = append(out, row)
	}
	return out, nil
}
