package service

import (
	"context"
	"time"

	"github.com/avvvet/geoquiz-services/internal/comm"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/store"
	"github.com/avvvet/geoquiz-services/internal/geo"
)

// Transactor hands out database handles. InTx commits when fn returns nil.
type Transactor interface {
	InTx(ctx context.Context, fn func(q store.DBTX) error) error
	Conn() store.DBTX
}

type UserRepo interface {
	CreateUser(ctx context.Context, q store.DBTX, login, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, q store.DBTX, id int64) (*models.User, error)
	GetByLogin(ctx context.Context, q store.DBTX, login string) (*models.User, error)
	UpdatePassword(ctx context.Context, q store.DBTX, id int64, passwordHash string) error
	GetInfo(ctx context.Context, q store.DBTX, id int64) (*models.UserInfo, error)
}

type CategoryRepo interface {
	GetByID(ctx context.Context, q store.DBTX, id int64) (*models.Category, error)
	GetByCodename(ctx context.Context, q store.DBTX, codename string) (*models.Category, error)
	List(ctx context.Context, q store.DBTX) ([]*models.Category, error)
	ListLikedBy(ctx context.Context, q store.DBTX, userID int64) ([]*models.Category, error)
	Stats(ctx context.Context, q store.DBTX, categoryID int64) (*models.CategoryStats, error)
	IsLiked(ctx context.Context, q store.DBTX, categoryID, userID int64) (bool, error)
	AddLike(ctx context.Context, q store.DBTX, categoryID, userID int64) error
}

type PointRepo interface {
	IDsByCategory(ctx context.Context, q store.DBTX, categoryID int64) ([]int64, error)
}

type GameRepo interface {
	CreateGame(ctx context.Context, q store.DBTX, userID, categoryID int64) (*models.Game, error)
	GetGameByID(ctx context.Context, q store.DBTX, gameID int64) (*models.Game, error)
	LockGameByID(ctx context.Context, q store.DBTX, gameID int64) (*models.Game, error)
	ListGamesByUser(ctx context.Context, q store.DBTX, userID int64) ([]*models.Game, error)
	FinishGame(ctx context.Context, q store.DBTX, gameID int64, score int) error
	HasFinishedGame(ctx context.Context, q store.DBTX, userID, categoryID int64) (bool, error)
}

type RoundRepo interface {
	CreateRound(ctx context.Context, q store.DBTX, gameID int64, num int, pointID int64) (*models.Round, error)
	GetRoundByID(ctx context.Context, q store.DBTX, roundID int64) (*models.Round, error)
	ListRoundsByGame(ctx context.Context, q store.DBTX, gameID int64) ([]*models.Round, error)
	CompleteRound(ctx context.Context, q store.DBTX, roundID int64, userPoint geo.Coord, score int, at time.Time) error
}

type LeaderboardRepo interface {
	CategoryTotals(ctx context.Context, q store.DBTX) ([]models.CategoryTotals, error)
}

// Stores groups the repositories the services read and write.
type Stores struct {
	Users       UserRepo
	Categories  CategoryRepo
	Points      PointRepo
	Games       GameRepo
	Rounds      RoundRepo
	Leaderboard LeaderboardRepo
}

// NewStores wires the postgres stores.
func NewStores() Stores {
	return Stores{
		Users:       store.NewUserStore(),
		Categories:  store.NewCategoryStore(),
		Points:      store.NewPointStore(),
		Games:       store.NewGameStore(),
		Rounds:      store.NewRoundStore(),
		Leaderboard: store.NewLeaderboardStore(),
	}
}

// EventPublisher receives game events after the change was committed.
type EventPublisher interface {
	RoundCompleted(ev comm.RoundCompleted)
	GameEnded(ev comm.GameEnded)
}

type noopPublisher struct{}

func (noopPublisher) RoundCompleted(comm.RoundCompleted) {}
func (noopPublisher) GameEnded(comm.GameEnded)           {}
