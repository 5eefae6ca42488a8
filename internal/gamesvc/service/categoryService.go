package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/store"
)

type CategoryService struct {
	tx           Transactor
	categories   CategoryRepo
	games        GameRepo
	imageBaseURL string
}

// NewCategoryService builds the service. Relative image references are
// resolved against imageBaseURL.
func NewCategoryService(tx Transactor, st Stores, imageBaseURL string) *CategoryService {
	return &CategoryService{
		tx:           tx,
		categories:   st.Categories,
		games:        st.Games,
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
	}
}

// List returns every category. userID 0 means an anonymous caller.
func (s *CategoryService) List(ctx context.Context, userID int64) ([]*models.CategoryDetail, error) {
	q := s.tx.Conn()
	categories, err := s.categories.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, q, categories, userID)
}

func (s *CategoryService) Get(ctx context.Context, categoryID, userID int64) (*models.CategoryDetail, error) {
	q := s.tx.Conn()
	c, err := s.categories.GetByID(ctx, q, categoryID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, q, c, userID)
}

// Liked returns the categories the user liked.
func (s *CategoryService) Liked(ctx context.Context, userID int64) ([]*models.CategoryDetail, error) {
	q := s.tx.Conn()
	categories, err := s.categories.ListLikedBy(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, q, categories, userID)
}

// SetLike records that the user likes the category. Only players who
// finished a game in the category may like it.
func (s *CategoryService) SetLike(ctx context.Context, userID, categoryID int64) (*models.CategoryDetail, error) {
	var c *models.Category
	err := s.tx.InTx(ctx, func(q store.DBTX) error {
		var err error
		c, err = s.categories.GetByID(ctx, q, categoryID)
		if err != nil {
			return err
		}

		played, err := s.games.HasFinishedGame(ctx, q, userID, categoryID)
		if err != nil {
			return err
		}
		if !played {
			return fmt.Errorf("%w: you have not finished a game in this category", ErrPermission)
		}

		return s.categories.AddLike(ctx, q, categoryID, userID)
	})
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, s.tx.Conn(), c, userID)
}

func (s *CategoryService) details(ctx context.Context, q store.DBTX, categories []*models.Category, userID int64) ([]*models.CategoryDetail, error) {
	out := make([]*models.CategoryDetail, 0, len(categories))
	for _, c := range categories {
		d, err := s.detail(ctx, q, c, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *CategoryService) detail(ctx context.Context, q store.DBTX, c *models.Category, userID int64) (*models.CategoryDetail, error) {
	stats, err := s.categories.Stats(ctx, q, c.ID)
	if err != nil {
		return nil, err
	}

	liked := false
	if userID != 0 {
		liked, err = s.categories.IsLiked(ctx, q, c.ID, userID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	d := &models.CategoryDetail{Category: *c, CategoryStats: *stats, Like: liked}
	d.Image = s.imageURL(c.Image)
	return d, nil
}

func (s *CategoryService) imageURL(ref string) string {
	if ref == "" || s.imageBaseURL == "" || strings.Contains(ref, "://") {
		return ref
	}
	return s.imageBaseURL + "/" + strings.TrimLeft(ref, "/")
}
