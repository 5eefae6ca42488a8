package service

import (
	"context"
	"sync"
	"testing"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/avvvet/geoquiz-services/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	db         *memDB
	events     *recordingPublisher
	games      *GameService
	categories *CategoryService
	users      *UserService
	board      *LeaderboardService
}

func newFixture() *fixture {
	db := newMemDB()
	st := db.stores()
	events := &recordingPublisher{}
	categories := NewCategoryService(db, st, "https://cdn.example.com/media/")
	users := NewUserService(db, st)
	users.cost = bcrypt.MinCost
	return &fixture{
		db:         db,
		events:     events,
		games:      NewGameService(db, st, categories, events),
		categories: categories,
		users:      users,
		board:      NewLeaderboardService(db, st, 10, 100),
	}
}

func coords(n int) []geo.Coord {
	out := make([]geo.Coord, n)
	for i := range out {
		out[i] = geo.Coord{Lon: float64(i), Lat: float64(i) / 2}
	}
	return out
}

func TestPickUnused(t *testing.T) {
	ids := []int64{1, 2, 3, 4}

	for i := 0; i < 4; i++ {
		id, err := pickUnused(func(n int) int { return i % n }, ids, []int64{2, 4})
		require.NoError(t, err)
		assert.Contains(t, []int64{1, 3}, id)
	}

	_, err := pickUnused(func(n int) int { return 0 }, ids, ids)
	assert.ErrorIs(t, err, ErrExhausted)

	_, err = pickUnused(func(n int) int { return 0 }, nil, nil)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestStartGame(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.db.addUser("anna")
	cat := f.db.addCategory("capitals", 5, coords(3)...)

	started, err := f.games.StartGame(ctx, user, "capitals")
	require.NoError(t, err)

	assert.Equal(t, 1, started.Round.Num)
	require.NotNil(t, started.Round.RandomPointID)
	assert.Equal(t, cat.ID, f.db.points[*started.Round.RandomPointID].CategoryID)
	assert.False(t, started.Round.IsCompleted())

	assert.Equal(t, "capitals", started.Category.Codename)
	assert.Equal(t, 25000, started.Category.MaxScore)
	assert.Equal(t, 3, started.Category.PointsCount)
	assert.Equal(t, 1, started.Category.PlayersCount)
	assert.Nil(t, started.Category.AvgGamesScore)
}

func TestStartGameValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.db.addUser("anna")
	f.db.addCategory("empty", 5)

	_, err := f.games.StartGame(ctx, user, "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)

	_, err = f.games.StartGame(ctx, user, "missing")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)

	_, err = f.games.StartGame(ctx, user, "empty")
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestNextRoundNumbersAndDistinctPoints(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.db.addUser("anna")
	f.db.addCategory("rivers", 4, coords(4)...)

	started, err := f.games.StartGame(ctx, user, "rivers")
	require.NoError(t, err)
	gameID := started.Round.GameID

	seen := map[int64]bool{*started.Round.RandomPointID: true}
	for n := 2; n <= 4; n++ {
		r, err := f.games.NextRound(ctx, user, gameID)
		require.NoError(t, err)
		assert.Equal(t, n, r.Num)
		require.NotNil(t, r.RandomPointID)
		assert.False(t, seen[*r.RandomPointID], "point %d reused", *r.RandomPointID)
		seen[*r.RandomPointID] = true
	}

	_, err = f.games.NextRound(ctx, user, gameID)
	assert.ErrorIs(t, err, ErrState)
}

func TestNextRoundExhaustsPoints(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.db.addUser("anna")
	f.db.addCategory("lakes", 5, coords(2)...)

	started, err := f.games.StartGame(ctx, user, "lakes")
	require.NoError(t, err)

	_, err = f.games.NextRound(ctx, user, started.Round.GameID)
	require.NoError(t, err)

	_, err = f.games.NextRound(ctx, user, started.Round.GameID)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestNextRoundRejectsOtherPlayers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.db.addUser("anna")
	other := f.db.addUser("boris")
	f.db.addCategory("lakes", 5, coords(3)...)

	started, err := f.games.StartGame(ctx, owner, "lakes")
	require.NoError(t, err)

	_, err = f.games.NextRound(ctx, other, started.Round.GameID)
	assert.ErrorIs(t, err, ErrPermission)

	_, err = f.games.EndGame(ctx, other, started.Round.GameID)
	assert.ErrorIs(t, err, ErrPermission)

	_, err = f.games.SetUserPoint(ctx, other, started.Round.ID, geo.Coord{})
	assert.ErrorIs(t, err, ErrPermission)

	_, err = f.games.NextRound(ctx, owner, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetUserPointExactGuess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.db.addUser("anna")
	f.db.addCategory("origin", 1, geo.Coord{Lon: 0, Lat: 0})

	started, err := f.games.StartGame(ctx, user, "origin")
	require.NoError(t, err)

	res, err := f.games.SetUserPoint(ctx, user, started.Round.ID, geo.Coord{Lon: 0, Lat: 0})
	require.NoError(t, err)
	assert.Equal(t, 5000, res.Round.Score)
	assert.Zero(t, res.Distance)
	assert.NotNil(t, res.Round.DateEnd)

	stored := f.db.rounds[started.Round.ID]
	assert.True(t, stored.IsCompleted())
	assert.Equal(t, 5000, stored.Score)

	require.Len(t, f.events.rounds, 1)
	assert.Equal(t, "origin", f.events.rounds[0].Category)
	assert.Equal(t, 5000, f.events.rounds[0].Score)

	_, err = f.games.SetUserPoint(ctx, user, started.Round.ID, geo.Coord{Lon: 10, Lat: 10})
	assert.ErrorIs(t, err, ErrState)
	assert.Equal(t, 5000, f.db.rounds[started.Round.ID].Score)
}

func TestSetUserPointValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.db.addUser("anna")
	f.db.addCategory("origin", 1, geo.Coord{})

	started, err := f.games.StartGame(ctx, user, "origin")
	require.NoError(t, err)

	_, err = f.games.SetUserPoint(ctx, user, started.Round.ID, geo.Coord{Lon: 0, Lat: 91})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "user_point", verr.Field)

	_, err = f.games.SetUserPoint(ctx, user, 12345, geo.Coord{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetUserPointWithoutTarget(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.db.addUser("anna")
	f.db.addCategory("origin", 1, geo.Coord{})

	started, err := f.games.StartGame(ctx, user, "origin")
	require.NoError(t, err)

	// the target point was deleted
	r := f.db.rounds[started.Round.ID]
	r.RandomPointID = nil
	r.RandomPoint = nil

	_, err = f.games.SetUserPoint(ctx, user, started.Round.ID, geo.Coord{})
	assert.ErrorIs(t, err, ErrState)
}

func TestEndGame(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.db.addUser("anna")
	f.db.addCategory("twice", 2, geo.Coord{Lon: 0, Lat: 0}, geo.Coord{Lon: 0, Lat: 0})

	started, err := f.games.StartGame(ctx, user, "twice")
	require.NoError(t, err)
	gameID := started.Round.GameID

	_, err = f.games.SetUserPoint(ctx, user, started.Round.ID, geo.Coord{})
	require.NoError(t, err)
	second, err := f.games.NextRound(ctx, user, gameID)
	require.NoError(t, err)
	_, err = f.games.SetUserPoint(ctx, user, second.ID, geo.Coord{})
	require.NoError(t, err)

	game, err := f.games.EndGame(ctx, user, gameID)
	require.NoError(t, err)
	assert.True(t, game.IsOver)
	assert.Equal(t, 10000, game.Score)

	require.Len(t, f.events.ended, 1)
	assert.Equal(t, 10000, f.events.ended[0].Score)
	assert.Equal(t, 10000, f.events.ended[0].MaxScore)
	assert.Len(t, f.events.ended[0].Rounds, 2)

	_, err = f.games.EndGame(ctx, user, gameID)
	assert.ErrorIs(t, err, ErrState)
	assert.Len(t, f.events.ended, 1)
	assert.Equal(t, 10000, f.db.games[gameID].Score)
}

func TestGameOverRejectsTransitions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.db.addUser("anna")
	f.db.addCategory("over", 3, coords(3)...)

	started, err := f.games.StartGame(ctx, user, "over")
	require.NoError(t, err)
	_, err = f.games.EndGame(ctx, user, started.Round.GameID)
	require.NoError(t, err)
	assert.Zero(t, f.db.games[started.Round.GameID].Score)

	_, err = f.games.NextRound(ctx, user, started.Round.GameID)
	assert.ErrorIs(t, err, ErrState)

	_, err = f.games.SetUserPoint(ctx, user, started.Round.ID, geo.Coord{})
	assert.ErrorIs(t, err, ErrState)
}

func TestConcurrentNextRound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.db.addUser("anna")
	f.db.addCategory("busy", 6, coords(20)...)

	started, err := f.games.StartGame(ctx, user, "busy")
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		rounds []*models.Round
		errs   []error
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := f.games.NextRound(ctx, user, started.Round.GameID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			rounds = append(rounds, r)
		}()
	}
	wg.Wait()

	assert.Len(t, rounds, 5)
	assert.Len(t, errs, 5)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrState)
	}

	nums := map[int]bool{1: true}
	points := map[int64]bool{*started.Round.RandomPointID: true}
	for _, r := range rounds {
		assert.False(t, nums[r.Num], "duplicate num %d", r.Num)
		nums[r.Num] = true
		assert.False(t, points[*r.RandomPointID])
		points[*r.RandomPointID] = true
	}
	assert.Len(t, nums, 6)
}

func TestListAndGet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.db.addUser("anna")
	other := f.db.addUser("boris")
	f.db.addCategory("misc", 3, coords(3)...)

	a, err := f.games.StartGame(ctx, user, "misc")
	require.NoError(t, err)
	b, err := f.games.StartGame(ctx, user, "misc")
	require.NoError(t, err)
	_, err = f.games.StartGame(ctx, other, "misc")
	require.NoError(t, err)

	games, err := f.games.ListGames(ctx, user)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, b.Round.GameID, games[0].ID)
	assert.Equal(t, a.Round.GameID, games[1].ID)

	g, err := f.games.GetGame(ctx, a.Round.GameID)
	require.NoError(t, err)
	assert.Equal(t, user, g.UserID)

	r, err := f.games.GetRound(ctx, a.Round.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Num)

	_, err = f.games.GetGame(ctx, 424242)
	assert.ErrorIs(t, err, ErrNotFound)
}
