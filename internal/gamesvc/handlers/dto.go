package handlers

import (
	"encoding/json"
	"time"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/avvvet/geoquiz-services/internal/geo"
)

// round is the wire form of a round, with points as GeoJSON.
type round struct {
	ID          int64           `json:"id"`
	Game        int64           `json:"game"`
	Num         int             `json:"num"`
	RandomPoint json.RawMessage `json:"random_point"`
	UserPoint   json.RawMessage `json:"user_point"`
	DateStart   time.Time       `json:"date_start"`
	DateEnd     *time.Time      `json:"date_end"`
	Score       int             `json:"score"`
}

type startedGame struct {
	round
	Category *models.CategoryDetail `json:"category"`
}

type roundResult struct {
	Score    int     `json:"score"`
	Distance float64 `json:"distance_between_points"`
}

type authResult struct {
	Token string           `json:"token"`
	User  *models.UserInfo `json:"user"`
}

var null = json.RawMessage("null")

func geoJSON(c *geo.Coord) (json.RawMessage, error) {
	if c == nil {
		return null, nil
	}
	return geo.MarshalGeoJSON(*c)
}

func toRound(r *models.Round) (*round, error) {
	random, err := geoJSON(r.RandomPoint)
	if err != nil {
		return nil, err
	}
	user, err := geoJSON(r.UserPoint)
	if err != nil {
		return nil, err
	}
	return &round{
		ID:          r.ID,
		Game:        r.GameID,
		Num:         r.Num,
		RandomPoint: random,
		UserPoint:   user,
		DateStart:   r.DateStart,
		DateEnd:     r.DateEnd,
		Score:       r.Score,
	}, nil
}
