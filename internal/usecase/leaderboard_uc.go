// File: internal/usecase/leaderboard_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"talkpdf-backend/internal/domain/ports/repository"
)

const (
	leaderboardWindowDays = 7
	leaderboardMaxLimit   = 100
)

var _ LeaderboardUseCase = (*leaderboardUC)(nil)

// LeaderboardUseCase exposes the weekly quiz XP ranking. Purely derived.
type LeaderboardUseCase interface {
	Top(ctx context.Context, limit int) ([]repository.LeaderboardRow, error)
}

type leaderboardUC struct {
	board repository.LeaderboardRepository
	log   *zerolog.Logger
}

func NewLeaderboardUseCase(board repository.LeaderboardRepository, logger *zerolog.Logger) *leaderboardUC {
	return &leaderboardUC{board: board, log: logger}
}

func (u *leaderboardUC) Top(ctx context.Context, limit int) ([]repository.LeaderboardRow, error) {
	if limit <= 0 || limit > leaderboardMaxLimit {
		limit = 20
	}
	return u.board.TopSince(ctx, nil, leaderboardWindowDays, limit)
}
