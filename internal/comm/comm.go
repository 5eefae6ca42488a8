package comm

import (
	"encoding/json"
	"time"
)

// GameServiceSubject is where the game service publishes its events.
const GameServiceSubject = "game.service"

const (
	TypeRoundCompleted = "round-completed"
	TypeGameEnded      = "game-ended"
	TypeWatch          = "watch"
	TypeWatchResponse  = "watch-response"
)

type WSMessage struct {
	Type     string          `json:"type"` // e.g. "round-completed", "watch"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid,omitempty"`
}

type ServiceHeartbeat struct {
	ID        string    `json:"id"` // service id
	Timestamp time.Time `json:"timestamp"`
}

// RoundCompleted is published after a guess was scored.
type RoundCompleted struct {
	GameID      int64     `json:"game_id"`
	RoundID     int64     `json:"round_id"`
	UserID      int64     `json:"user_id"`
	Category    string    `json:"category"` // codename
	Num         int       `json:"num"`
	Score       int       `json:"score"`
	Distance    float64   `json:"distance"`
	CompletedAt time.Time `json:"completed_at"`
}

type RoundSummary struct {
	Num      int        `json:"num"`
	Score    int        `json:"score"`
	DateEnd  *time.Time `json:"date_end,omitempty"`
	Complete bool       `json:"complete"`
}

// GameEnded is published once per game, after end game committed.
type GameEnded struct {
	GameID   int64          `json:"game_id"`
	UserID   int64          `json:"user_id"`
	Category string         `json:"category"` // codename
	Score    int            `json:"score"`
	MaxScore int            `json:"max_score"`
	Rounds   []RoundSummary `json:"rounds"`
	EndedAt  time.Time      `json:"ended_at"`
}

// Watch is sent by websocket clients to choose which category feed they get.
// "*" subscribes to every category.
type Watch struct {
	Category string `json:"category"`
}
