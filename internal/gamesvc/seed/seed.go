// Package seed loads reference categories and their points.
//
// A seed file is JSON:
//
//	{"categories": [{
//	    "codename": "capitals", "name": "World capitals", "description": "",
//	    "image": "categories/capitals.png", "rounds_count": 5,
//	    "points": {"type": "FeatureCollection", "features": [...]}
//	}]}
//
// Every feature geometry must be a WGS84 Point.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/store"
	"github.com/avvvet/geoquiz-services/internal/geo"
	log "github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom/encoding/geojson"
)

const (
	maxCodenameLength = 20
	maxNameLength     = 50
)

type fileCategory struct {
	Codename    string                     `json:"codename"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Image       string                     `json:"image"`
	RoundsCount int                        `json:"rounds_count"`
	Points      *geojson.FeatureCollection `json:"points"`
}

type file struct {
	Categories []fileCategory `json:"categories"`
}

// Category is a parsed category with its points.
type Category struct {
	Category *models.Category
	Points   []geo.Coord
}

// Parse reads and validates a seed file.
func Parse(r io.Reader) ([]Category, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	seen := map[string]bool{}
	out := make([]Category, 0, len(f.Categories))
	for i, fc := range f.Categories {
		if err := validate(fc); err != nil {
			return nil, fmt.Errorf("category #%d: %w", i+1, err)
		}
		if seen[fc.Codename] {
			return nil, fmt.Errorf("category %q listed twice", fc.Codename)
		}
		seen[fc.Codename] = true

		c := Category{
			Category: models.NewCategory(fc.Codename, fc.Name, fc.Description, fc.Image, fc.RoundsCount),
			Points:   make([]geo.Coord, 0, len(fc.Points.Features)),
		}
		for j, feature := range fc.Points.Features {
			coord, err := geo.FromGeometry(feature.Geometry)
			if err != nil {
				return nil, fmt.Errorf("category %q feature #%d: %w", fc.Codename, j+1, err)
			}
			c.Points = append(c.Points, coord)
		}
		out = append(out, c)
	}
	return out, nil
}

func validate(fc fileCategory) error {
	switch {
	case fc.Codename == "":
		return errors.New("codename is required")
	case len(fc.Codename) > maxCodenameLength:
		return fmt.Errorf("codename %q longer than %d", fc.Codename, maxCodenameLength)
	case fc.Name == "":
		return errors.New("name is required")
	case len([]rune(fc.Name)) > maxNameLength:
		return fmt.Errorf("name of %q longer than %d", fc.Codename, maxNameLength)
	case fc.RoundsCount <= 0:
		return fmt.Errorf("rounds_count of %q must be positive", fc.Codename)
	case fc.Points == nil || len(fc.Points.Features) == 0:
		return fmt.Errorf("category %q has no points", fc.Codename)
	}
	return nil
}

type Transactor interface {
	InTx(ctx context.Context, fn func(q store.DBTX) error) error
}

type CategoryWriter interface {
	Create(ctx context.Context, q store.DBTX, c *models.Category) error
}

type PointWriter interface {
	Create(ctx context.Context, q store.DBTX, p *models.Point) error
}

type Summary struct {
	Categories int
	Points     int
	Skipped    int
}

// Load inserts each category with its points in its own transaction.
// Categories whose codename already exists are skipped.
func Load(ctx context.Context, tx Transactor, categories CategoryWriter, points PointWriter, seed []Category) (Summary, error) {
	var sum Summary
	for _, sc := range seed {
		err := tx.InTx(ctx, func(q store.DBTX) error {
			if err := categories.Create(ctx, q, sc.Category); err != nil {
				return err
			}
			for _, coord := range sc.Points {
				p := &models.Point{CategoryID: sc.Category.ID, Point: coord}
				if err := points.Create(ctx, q, p); err != nil {
					return err
				}
			}
			return nil
		})
		if errors.Is(err, store.ErrDuplicate) {
			log.Infof("category %s already exists, skipped", sc.Category.Codename)
			sum.Skipped++
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("load category %s: %w", sc.Category.Codename, err)
		}
		sum.Categories++
		sum.Points += len(sc.Points)
	}
	return sum, nil
}
