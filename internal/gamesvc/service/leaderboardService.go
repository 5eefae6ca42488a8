package service

import (
	"context"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/scoring"
)

type LeaderboardService struct {
	tx           Transactor
	leaderboard  LeaderboardRepo
	defaultLimit int
	maxLimit     int
}

func NewLeaderboardService(tx Transactor, st Stores, defaultLimit, maxLimit int) *LeaderboardService {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &LeaderboardService{
		tx:           tx,
		leaderboard:  st.Leaderboard,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// TopPlayers ranks players by the mean normalized score of their finished
// games. A non-positive limit selects the default, larger ones are capped.
func (s *LeaderboardService) TopPlayers(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	switch {
	case limit <= 0:
		limit = s.defaultLimit
	case limit > s.maxLimit:
		limit = s.maxLimit
	}

	totals, err := s.leaderboard.CategoryTotals(ctx, s.tx.Conn())
	if err != nil {
		return nil, err
	}
	return scoring.Rank(totals, limit), nil
}
