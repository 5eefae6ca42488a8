package models

import "time"

type Game struct {
	ID         int64     `json:"id"`         // Primary key
	UserID     int64     `json:"user"`       // Owner
	CategoryID int64     `json:"category"`   // Foreign key to categories
	IsOver     bool      `json:"is_over"`    // set once by end game
	Score      int       `json:"score"`      // sum of round scores, frozen on end game
	CreatedAt  time.Time `json:"created_at"` // Timestamp
	UpdatedAt  time.Time `json:"updated_at"` // Timestamp
}

// StartedGame is the first round of a new game and its category.
type StartedGame struct {
	Round    *Round
	Category *CategoryDetail
}
