package scoring

import (
	"math"
	"sort"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/shopspring/decimal"
)

// Distance bands in meters.
const (
	exactRadius  = 150.0
	nearRadius   = 1_000.0
	regionRadius = 100_000.0
	farRadius    = 500_000.0
)

// RoundScore maps the distance between the target and the guess to a round score.
// The result is never negative and never increases with distance.
func RoundScore(distance float64) int {
	if math.IsNaN(distance) {
		return 0
	}
	var score float64
	switch {
	case distance <= exactRadius:
		score = models.MaxRoundScore
	case distance <= nearRadius:
		score = 5000 - distance
	case distance <= regionRadius:
		score = 4000 - distance*0.001
	case distance <= farRadius:
		score = 3000 - distance*0.002
	default:
		score = 2000 - distance*0.0001
	}
	if score <= 0 {
		return 0
	}
	return int(math.Floor(score))
}

// GameScore sums round scores.
func GameScore(roundScores []int) int {
	total := 0
	for _, s := range roundScores {
		total += s
	}
	return total
}

// Normalized returns score as a percentage of maxScore.
func Normalized(score, maxScore int) decimal.Decimal {
	if maxScore <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(score)).
		Div(decimal.NewFromInt(int64(maxScore))).
		Mul(decimal.NewFromInt(100))
}

type playerAcc struct {
	entry      models.LeaderboardEntry
	normalized decimal.Decimal
	games      int64
}

// Rank folds per (user, category) totals of finished games into leaderboard entries.
// avg_score is the mean of score/max_score*100 over every finished game of the user.
// Entries are ordered by avg_score desc then user id asc and cut to limit.
func Rank(totals []models.CategoryTotals, limit int) []models.LeaderboardEntry {
	players := make(map[int64]*playerAcc)
	for _, t := range totals {
		if t.Games <= 0 || t.MaxScore <= 0 {
			continue
		}
		acc, ok := players[t.UserID]
		if !ok {
			acc = &playerAcc{entry: models.LeaderboardEntry{ID: t.UserID, Login: t.Login}}
			players[t.UserID] = acc
		}
		// sum over games of score_i/max*100 == (sum score_i)/max*100 within one category
		acc.normalized = acc.normalized.Add(
			decimal.NewFromInt(t.ScoreSum).
				Div(decimal.NewFromInt(int64(t.MaxScore))).
				Mul(decimal.NewFromInt(100)),
		)
		acc.games += t.Games
		acc.entry.SumScore += t.ScoreSum
	}

	entries := make([]models.LeaderboardEntry, 0, len(players))
	for _, acc := range players {
		acc.entry.AvgScore = acc.normalized.Div(decimal.NewFromInt(acc.games)).InexactFloat64()
		entries = append(entries, acc.entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AvgScore != entries[j].AvgScore {
			return entries[i].AvgScore > entries[j].AvgScore
		}
		return entries[i].ID < entries[j].ID
	})
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
