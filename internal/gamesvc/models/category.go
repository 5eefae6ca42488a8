package models

import "time"

// MaxRoundScore is the best score a single round can give.
const MaxRoundScore = 5000

type Category struct {
	ID          int64     `json:"id"`
	Codename    string    `json:"codename"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	RoundsCount int       `json:"rounds_count"`
	MaxScore    int       `json:"max_score"` // fixed when the category is created
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategory builds a category and derives its max score from the round count.
func NewCategory(codename, name, description, image string, roundsCount int) *Category {
	return &Category{
		Codename:    codename,
		Name:        name,
		Description: description,
		Image:       image,
		RoundsCount: roundsCount,
		MaxScore:    MaxRoundScore * roundsCount,
	}
}

// CategoryStats are the aggregates shown next to a category.
type CategoryStats struct {
	PointsCount   int      `json:"points_count"`
	PlayersCount  int      `json:"players_count"`
	AvgGamesScore *float64 `json:"avg_games_score"`
}

// CategoryDetail is a category with its stats and whether the caller liked it.
type CategoryDetail struct {
	Category
	CategoryStats
	Like bool `json:"like"`
}
