package models

import (
	"time"

	"github.com/avvvet/geoquiz-services/internal/geo"
)

type Round struct {
	ID            int64      `json:"id"`
	GameID        int64      `json:"game"`
	Num           int        `json:"num"` // 1-based position inside the game
	RandomPointID *int64     `json:"random_point_id"`
	RandomPoint   *geo.Coord `json:"-"`
	UserPoint     *geo.Coord `json:"-"`
	DateStart     time.Time  `json:"date_start"`
	DateEnd       *time.Time `json:"date_end"`
	Score         int        `json:"score"`
}

// IsCompleted reports whether the player already submitted a guess.
func (r *Round) IsCompleted() bool {
	return r.UserPoint != nil
}

// RoundResult is what a completed guess yields.
type RoundResult struct {
	Round    *Round
	Distance float64
}
