package store

import (
	"context"
	"fmt"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/jackc/pgx/v5"
)

type GameStore struct{}

func NewGameStore() *GameStore {
	return &GameStore{}
}

const gameColumns = `id, user_id, category_id, is_over, score, created_at, updated_at`

func scanGame(row pgx.Row) (*models.Game, error) {
	game := &models.Game{}
	err := row.Scan(
		&game.ID,
		&game.UserID,
		&game.CategoryID,
		&game.IsOver,
		&game.Score,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return game, nil
}

func (s *GameStore) CreateGame(ctx context.Context, q DBTX, userID, categoryID int64) (*models.Game, error) {
	query := `
		INSERT INTO games (user_id, category_id)
		VALUES ($1, $2)
		RETURNING ` + gameColumns

	game, err := scanGame(q.QueryRow(ctx, query, userID, categoryID))
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

func (s *GameStore) GetGameByID(ctx context.Context, q DBTX, gameID int64) (*models.Game, error) {
	game, err := scanGame(q.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, gameID))
	if err != nil {
		return nil, notFound(err)
	}
	return game, nil
}

// LockGameByID reads the game with a row lock held until the enclosing
// transaction ends. Every write to a game or its rounds goes through it.
func (s *GameStore) LockGameByID(ctx context.Context, q DBTX, gameID int64) (*models.Game, error) {
	game, err := scanGame(q.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1 FOR UPDATE`, gameID))
	if err != nil {
		return nil, notFound(err)
	}
	return game, nil
}

func (s *GameStore) ListGamesByUser(ctx context.Context, q DBTX, userID int64) ([]*models.Game, error) {
	rows, err := q.Query(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// FinishGame marks the game over and stores its final score.
func (s *GameStore) FinishGame(ctx context.Context, q DBTX, gameID int64, score int) error {
	tag, err := q.Exec(ctx, `
		UPDATE games
		SET is_over = TRUE, score = $1, updated_at = now()
		WHERE id = $2
	`, score, gameID)
	if err != nil {
		return fmt.Errorf("failed to finish game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// HasFinishedGame reports whether the user finished at least one game in the category.
func (s *GameStore) HasFinishedGame(ctx context.Context, q DBTX, userID, categoryID int64) (bool, error) {
	var ok bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM games WHERE user_id = $1 AND category_id = $2 AND is_over
		)
	`, userID, categoryID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check finished games: %w", err)
	}
	return ok, nil
}
