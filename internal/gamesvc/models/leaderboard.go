package models

type LeaderboardEntry struct {
	ID       int64   `json:"id"`
	Login    string  `json:"login"`
	AvgScore float64 `json:"avg_score"`
	SumScore int64   `json:"sum_score"`
}

// CategoryTotals aggregates the finished games of one user in one category.
type CategoryTotals struct {
	UserID   int64
	Login    string
	MaxScore int
	Games    int64
	ScoreSum int64
}
