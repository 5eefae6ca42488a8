package store

import (
	"context"
	"fmt"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
)

type UserStore struct{}

func NewUserStore() *UserStore {
	return &UserStore{}
}

func (r *UserStore) CreateUser(ctx context.Context, q DBTX, login, passwordHash string) (*models.User, error) {
	query := `
        INSERT INTO users (login, password_hash)
        VALUES ($1, $2)
        RETURNING id, login, password_hash, created_at, updated_at;
    `

	u := &models.User{}
	err := q.QueryRow(ctx, query, login, passwordHash).Scan(
		&u.ID,
		&u.Login,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	return u, nil
}

func (r *UserStore) GetByID(ctx context.Context, q DBTX, id int64) (*models.User, error) {
	return r.getOne(ctx, q, `
        SELECT id, login, password_hash, created_at, updated_at
        FROM users
        WHERE id = $1
    `, id)
}

func (r *UserStore) GetByLogin(ctx context.Context, q DBTX, login string) (*models.User, error) {
	return r.getOne(ctx, q, `
        SELECT id, login, password_hash, created_at, updated_at
        FROM users
        WHERE login = $1
    `, login)
}

func (r *UserStore) getOne(ctx context.Context, q DBTX, query string, arg any) (*models.User, error) {
	u := &models.User{}
	err := q.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Login,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *UserStore) UpdatePassword(ctx context.Context, q DBTX, id int64, passwordHash string) error {
	tag, err := q.Exec(ctx, `
        UPDATE users
        SET password_hash = $1, updated_at = now()
        WHERE id = $2
    `, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetInfo collects the stats of the user's finished games.
func (r *UserStore) GetInfo(ctx context.Context, q DBTX, id int64) (*models.UserInfo, error) {
	info := &models.UserInfo{}
	var avgGame, avgRound *float64
	err := q.QueryRow(ctx, `
        SELECT u.id, u.login,
               (SELECT COUNT(*) FROM games g WHERE g.user_id = u.id AND g.is_over),
               (SELECT MAX(g.score) FROM games g WHERE g.user_id = u.id AND g.is_over),
               (SELECT AVG(g.score)::float8 FROM games g WHERE g.user_id = u.id AND g.is_over),
               (SELECT MAX(r.score) FROM rounds r JOIN games g ON g.id = r.game_id
                 WHERE g.user_id = u.id AND g.is_over),
               (SELECT AVG(r.score)::float8 FROM rounds r JOIN games g ON g.id = r.game_id
                 WHERE g.user_id = u.id AND g.is_over)
        FROM users u
        WHERE u.id = $1
    `, id).Scan(
		&info.ID,
		&info.Login,
		&info.GamesCount,
		&info.BestGameScore,
		&avgGame,
		&info.BestRoundScore,
		&avgRound,
	)
	if err != nil {
		return nil, notFound(err)
	}
	info.AvgGameScore = roundAvg(avgGame)
	info.AvgRoundScore = roundAvg(avgRound)
	return info, nil
}
