package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/avvvet/geoquiz-services/internal/comm"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/scoring"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/store"
	"github.com/avvvet/geoquiz-services/internal/geo"
	log "github.com/sirupsen/logrus"
)

// GameService drives games and rounds. Every transition locks the game row
// first, so concurrent requests on one game are applied one at a time.
type GameService struct {
	tx         Transactor
	games      GameRepo
	rounds     RoundRepo
	points     PointRepo
	categories CategoryRepo
	catalog    *CategoryService
	events     EventPublisher

	intn func(n int) int
	now  func() time.Time
}

func NewGameService(tx Transactor, st Stores, catalog *CategoryService, events EventPublisher) *GameService {
	if events == nil {
		events = noopPublisher{}
	}
	return &GameService{
		tx:         tx,
		games:      st.Games,
		rounds:     st.Rounds,
		points:     st.Points,
		categories: st.Categories,
		catalog:    catalog,
		events:     events,
		intn:       rand.IntN,
		now:        time.Now,
	}
}

// StartGame creates a game in the category with the given codename together
// with its first round.
func (s *GameService) StartGame(ctx context.Context, userID int64, codename string) (*models.StartedGame, error) {
	if codename == "" {
		return nil, invalid("category", "this field is required")
	}

	var (
		category *models.Category
		round    *models.Round
	)
	err := s.tx.InTx(ctx, func(q store.DBTX) error {
		var err error
		category, err = s.categories.GetByCodename(ctx, q, codename)
		if errors.Is(err, store.ErrNotFound) {
			return invalid("category", fmt.Sprintf("category %q does not exist", codename))
		}
		if err != nil {
			return err
		}

		ids, err := s.points.IDsByCategory(ctx, q, category.ID)
		if err != nil {
			return err
		}
		pointID, err := pickUnused(s.intn, ids, nil)
		if err != nil {
			return err
		}

		game, err := s.games.CreateGame(ctx, q, userID, category.ID)
		if err != nil {
			return err
		}
		round, err = s.rounds.CreateRound(ctx, q, game.ID, 1, pointID)
		return err
	})
	if err != nil {
		return nil, err
	}

	detail, err := s.catalog.detail(ctx, s.tx.Conn(), category, userID)
	if err != nil {
		return nil, err
	}
	log.Infof("[GameService.StartGame] user %d started game %d in %s", userID, round.GameID, codename)
	return &models.StartedGame{Round: round, Category: detail}, nil
}

// NextRound appends a round to an active game. Its target is a point of the
// game's category that no earlier round of the game used.
func (s *GameService) NextRound(ctx context.Context, userID, gameID int64) (*models.Round, error) {
	var round *models.Round
	err := s.tx.InTx(ctx, func(q store.DBTX) error {
		game, err := s.lockOwnGame(ctx, q, userID, gameID)
		if err != nil {
			return err
		}

		category, err := s.categories.GetByID(ctx, q, game.CategoryID)
		if err != nil {
			return err
		}

		rounds, err := s.rounds.ListRoundsByGame(ctx, q, game.ID)
		if err != nil {
			return err
		}
		if len(rounds) >= category.RoundsCount {
			return fmt.Errorf("%w: all %d rounds already played", ErrState, category.RoundsCount)
		}

		num := 0
		used := make([]int64, 0, len(rounds))
		for _, r := range rounds {
			if r.Num > num {
				num = r.Num
			}
			if r.RandomPointID != nil {
				used = append(used, *r.RandomPointID)
			}
		}

		ids, err := s.points.IDsByCategory(ctx, q, category.ID)
		if err != nil {
			return err
		}
		pointID, err := pickUnused(s.intn, ids, used)
		if err != nil {
			return err
		}

		round, err = s.rounds.CreateRound(ctx, q, game.ID, num+1, pointID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return round, nil
}

// EndGame finishes the game and freezes its score as the sum of its rounds.
func (s *GameService) EndGame(ctx context.Context, userID, gameID int64) (*models.Game, error) {
	var (
		game  *models.Game
		event comm.GameEnded
	)
	err := s.tx.InTx(ctx, func(q store.DBTX) error {
		var err error
		game, err = s.lockOwnGame(ctx, q, userID, gameID)
		if err != nil {
			return err
		}

		rounds, err := s.rounds.ListRoundsByGame(ctx, q, game.ID)
		if err != nil {
			return err
		}
		scores := make([]int, 0, len(rounds))
		summaries := make([]comm.RoundSummary, 0, len(rounds))
		for _, r := range rounds {
			scores = append(scores, r.Score)
			summaries = append(summaries, comm.RoundSummary{
				Num:      r.Num,
				Score:    r.Score,
				DateEnd:  r.DateEnd,
				Complete: r.IsCompleted(),
			})
		}

		score := scoring.GameScore(scores)
		if err := s.games.FinishGame(ctx, q, game.ID, score); err != nil {
			return err
		}
		game.IsOver = true
		game.Score = score

		category, err := s.categories.GetByID(ctx, q, game.CategoryID)
		if err != nil {
			return err
		}
		event = comm.GameEnded{
			GameID:   game.ID,
			UserID:   game.UserID,
			Category: category.Codename,
			Score:    score,
			MaxScore: category.MaxScore,
			Rounds:   summaries,
			EndedAt:  s.now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.GameEnded(event)
	return game, nil
}

// SetUserPoint scores the player's guess for a round.
func (s *GameService) SetUserPoint(ctx context.Context, userID, roundID int64, point geo.Coord) (*models.RoundResult, error) {
	if err := point.Validate(); err != nil {
		return nil, invalid("user_point", err.Error())
	}

	var (
		result *models.RoundResult
		event  comm.RoundCompleted
	)
	err := s.tx.InTx(ctx, func(q store.DBTX) error {
		round, err := s.rounds.GetRoundByID(ctx, q, roundID)
		if err != nil {
			return err
		}
		game, err := s.lockOwnGame(ctx, q, userID, round.GameID)
		if err != nil {
			return err
		}
		// re-read under the game lock
		round, err = s.rounds.GetRoundByID(ctx, q, roundID)
		if err != nil {
			return err
		}
		if round.IsCompleted() {
			return fmt.Errorf("%w: round already has a guess", ErrState)
		}
		if round.RandomPoint == nil {
			return fmt.Errorf("%w: round has no target point", ErrState)
		}

		distance, err := geo.Distance(round.RandomPoint, &point)
		if err != nil {
			return err
		}
		score := scoring.RoundScore(distance)
		at := s.now()
		if err := s.rounds.CompleteRound(ctx, q, round.ID, point, score, at); err != nil {
			return err
		}

		round.UserPoint = &point
		round.Score = score
		round.DateEnd = &at
		result = &models.RoundResult{Round: round, Distance: distance}

		category, err := s.categories.GetByID(ctx, q, game.CategoryID)
		if err != nil {
			return err
		}
		event = comm.RoundCompleted{
			GameID:      round.GameID,
			RoundID:     round.ID,
			UserID:      userID,
			Category:    category.Codename,
			Num:         round.Num,
			Score:       score,
			Distance:    distance,
			CompletedAt: at,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.RoundCompleted(event)
	return result, nil
}

func (s *GameService) GetGame(ctx context.Context, gameID int64) (*models.Game, error) {
	return s.games.GetGameByID(ctx, s.tx.Conn(), gameID)
}

// ListGames returns the user's games, newest first.
func (s *GameService) ListGames(ctx context.Context, userID int64) ([]*models.Game, error) {
	return s.games.ListGamesByUser(ctx, s.tx.Conn(), userID)
}

func (s *GameService) GetRound(ctx context.Context, roundID int64) (*models.Round, error) {
	return s.rounds.GetRoundByID(ctx, s.tx.Conn(), roundID)
}

// lockOwnGame locks an active game owned by userID.
func (s *GameService) lockOwnGame(ctx context.Context, q store.DBTX, userID, gameID int64) (*models.Game, error) {
	game, err := s.games.LockGameByID(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	if game.UserID != userID {
		return nil, fmt.Errorf("%w: game %d belongs to another player", ErrPermission, gameID)
	}
	if game.IsOver {
		return nil, fmt.Errorf("%w: game %d is over", ErrState, gameID)
	}
	return game, nil
}
