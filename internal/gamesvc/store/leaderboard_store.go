package store

import (
	"context"
	"fmt"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
)

type LeaderboardStore struct{}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{}
}

// CategoryTotals sums the finished games of every user per category.
// Ranking is done by the caller.
func (s *LeaderboardStore) CategoryTotals(ctx context.Context, q DBTX) ([]models.CategoryTotals, error) {
	rows, err := q.Query(ctx, `
		SELECT u.id, u.login, c.max_score, COUNT(g.id), COALESCE(SUM(g.score), 0)
		FROM games g
		JOIN users u ON u.id = g.user_id
		JOIN categories c ON c.id = g.category_id
		WHERE g.is_over
		GROUP BY u.id, u.login, c.id, c.max_score
		ORDER BY u.id, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var totals []models.CategoryTotals
	for rows.Next() {
		var t models.CategoryTotals
		if err := rows.Scan(&t.UserID, &t.Login, &t.MaxScore, &t.Games, &t.ScoreSum); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
