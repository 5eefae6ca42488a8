package models

import "github.com/avvvet/geoquiz-services/internal/geo"

type Point struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
	Point      geo.Coord `json:"point"`
}
