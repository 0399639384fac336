package repository

import "context"

// LeaderboardRow is one aggregated ranking entry.
type LeaderboardRow struct {
	UserID      string
	DisplayName string
	XP          int64
	Rank        int
}

type LeaderboardRepository interface {
	// TopSince aggregates quiz XP per user from the given instant onward.
	TopSince(ctx context.Context, tx Tx, sinceDays int, limit int) ([]LeaderboardRow, error)
}
