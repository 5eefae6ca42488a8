package store

import (
	"context"
	"fmt"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/jackc/pgx/v5"
)

type CategoryStore struct{}

func NewCategoryStore() *CategoryStore {
	return &CategoryStore{}
}

const categoryColumns = `c.id, c.codename, c.name, c.description, c.image, c.rounds_count, c.max_score, c.created_at, c.updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	c := &models.Category{}
	err := row.Scan(
		&c.ID,
		&c.Codename,
		&c.Name,
		&c.Description,
		&c.Image,
		&c.RoundsCount,
		&c.MaxScore,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts c. max_score is written once here and never updated.
func (s *CategoryStore) Create(ctx context.Context, q DBTX, c *models.Category) error {
	err := q.QueryRow(ctx, `
		INSERT INTO categories (codename, name, description, image, rounds_count, max_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, c.Codename, c.Name, c.Description, c.Image, c.RoundsCount, c.MaxScore).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (s *CategoryStore) GetByID(ctx context.Context, q DBTX, id int64) (*models.Category, error) {
	c, err := scanCategory(q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE c.id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *CategoryStore) GetByCodename(ctx context.Context, q DBTX, codename string) (*models.Category, error) {
	c, err := scanCategory(q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE c.codename = $1`, codename))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *CategoryStore) List(ctx context.Context, q DBTX) ([]*models.Category, error) {
	return s.list(ctx, q, `SELECT `+categoryColumns+` FROM categories c ORDER BY c.id`)
}

// ListLikedBy returns the categories the user liked.
func (s *CategoryStore) ListLikedBy(ctx context.Context, q DBTX, userID int64) ([]*models.Category, error) {
	return s.list(ctx, q, `
		SELECT `+categoryColumns+`
		FROM categories c
		JOIN category_likes l ON l.category_id = c.id
		WHERE l.user_id = $1
		ORDER BY c.id
	`, userID)
}

func (s *CategoryStore) list(ctx context.Context, q DBTX, query string, args ...any) ([]*models.Category, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *CategoryStore) Stats(ctx context.Context, q DBTX, categoryID int64) (*models.CategoryStats, error) {
	st := &models.CategoryStats{}
	err := q.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM points p WHERE p.category_id = $1),
			(SELECT COUNT(DISTINCT g.user_id) FROM games g WHERE g.category_id = $1),
			(SELECT AVG(g.score)::float8 FROM games g WHERE g.category_id = $1 AND g.is_over)
	`, categoryID).Scan(&st.PointsCount, &st.PlayersCount, &st.AvgGamesScore)
	if err != nil {
		return nil, fmt.Errorf("failed to get category stats: %w", err)
	}
	return st, nil
}

func (s *CategoryStore) IsLiked(ctx context.Context, q DBTX, categoryID, userID int64) (bool, error) {
	var liked bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM category_likes WHERE category_id = $1 AND user_id = $2)
	`, categoryID, userID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return liked, nil
}

// AddLike is idempotent.
func (s *CategoryStore) AddLike(ctx context.Context, q DBTX, categoryID, userID int64) error {
	_, err := q.Exec(ctx, `
		INSERT INTO category_likes (category_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (category_id, user_id) DO NOTHING
	`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("failed to add like: %w", err)
	}
	return nil
}
