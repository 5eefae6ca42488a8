package store

import (
	"context"
	"fmt"
	"time"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/avvvet/geoquiz-services/internal/geo"
	"github.com/jackc/pgx/v5"
)

type RoundStore struct{}

func NewRoundStore() *RoundStore {
	return &RoundStore{}
}

// The target point is read through a LEFT JOIN so a round keeps loading
// after its point was deleted.
const roundSelect = `
	SELECT r.id, r.game_id, r.num, r.random_point_id,
	       ST_AsBinary(p.point), ST_AsBinary(r.user_point),
	       r.date_start, r.date_end, r.score
	FROM rounds r
	LEFT JOIN points p ON p.id = r.random_point_id
`

func scanRound(row pgx.Row) (*models.Round, error) {
	r := &models.Round{}
	var randomWKB, userWKB []byte
	err := row.Scan(
		&r.ID,
		&r.GameID,
		&r.Num,
		&r.RandomPointID,
		&randomWKB,
		&userWKB,
		&r.DateStart,
		&r.DateEnd,
		&r.Score,
	)
	if err != nil {
		return nil, err
	}
	if r.RandomPoint, err = geo.DecodeNullableWKB(randomWKB); err != nil {
		return nil, fmt.Errorf("round %d random point: %w", r.ID, err)
	}
	if r.UserPoint, err = geo.DecodeNullableWKB(userWKB); err != nil {
		return nil, fmt.Errorf("round %d user point: %w", r.ID, err)
	}
	return r, nil
}

// CreateRound inserts round num of the game targeting pointID.
func (s *RoundStore) CreateRound(ctx context.Context, q DBTX, gameID int64, num int, pointID int64) (*models.Round, error) {
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO rounds (game_id, num, random_point_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, gameID, num, pointID).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create round: %w", err)
	}
	return s.GetRoundByID(ctx, q, id)
}

func (s *RoundStore) GetRoundByID(ctx context.Context, q DBTX, roundID int64) (*models.Round, error) {
	r, err := scanRound(q.QueryRow(ctx, roundSelect+` WHERE r.id = $1`, roundID))
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

// ListRoundsByGame returns the rounds of a game ordered by num.
func (s *RoundStore) ListRoundsByGame(ctx context.Context, q DBTX, gameID int64) ([]*models.Round, error) {
	rows, err := q.Query(ctx, roundSelect+` WHERE r.game_id = $1 ORDER BY r.num`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []*models.Round
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

// CompleteRound records the guess, its score and the completion time.
func (s *RoundStore) CompleteRound(ctx context.Context, q DBTX, roundID int64, userPoint geo.Coord, score int, at time.Time) error {
	wkb, err := geo.EncodeWKB(userPoint)
	if err != nil {
		return fmt.Errorf("encode user point: %w", err)
	}
	tag, err := q.Exec(ctx, `
		UPDATE rounds
		SET user_point = ST_SetSRID(ST_GeomFromWKB($1), 4326), score = $2, date_end = $3
		WHERE id = $4
	`, wkb, score, at, roundID)
	if err != nil {
		return fmt.Errorf("failed to complete round: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
