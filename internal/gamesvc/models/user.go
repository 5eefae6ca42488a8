package models

import (
	"time"
)

// User represents the users table in the database.
type User struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserInfo is a user with the stats of their finished games.
type UserInfo struct {
	ID             int64  `json:"id"`
	Login          string `json:"login"`
	GamesCount     int    `json:"games_count"`
	BestGameScore  *int   `json:"best_game_score"`
	AvgGameScore   *int   `json:"avg_game_score"`
	BestRoundScore *int   `json:"best_round_score"`
	AvgRoundScore  *int   `json:"avg_round_score"`
}
