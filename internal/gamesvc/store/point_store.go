package store

import (
	"context"
	"fmt"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/avvvet/geoquiz-services/internal/geo"
)

type PointStore struct{}

func NewPointStore() *PointStore {
	return &PointStore{}
}

func (s *PointStore) Create(ctx context.Context, q DBTX, p *models.Point) error {
	wkb, err := geo.EncodeWKB(p.Point)
	if err != nil {
		return fmt.Errorf("encode point: %w", err)
	}
	err = q.QueryRow(ctx, `
		INSERT INTO points (point, category_id)
		VALUES (ST_SetSRID(ST_GeomFromWKB($1), 4326), $2)
		RETURNING id
	`, wkb, p.CategoryID).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create point: %w", err)
	}
	return nil
}

// IDsByCategory lists the candidate ids for random selection.
func (s *PointStore) IDsByCategory(ctx context.Context, q DBTX, categoryID int64) ([]int64, error) {
	rows, err := q.Query(ctx, `SELECT id FROM points WHERE category_id = $1 ORDER BY id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list points: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
