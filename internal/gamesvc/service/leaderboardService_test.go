package service

import (
	"context"
	"testing"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/avvvet/geoquiz-services/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedGame(db *memDB, userID int64, c *models.Category, score int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	g := &models.Game{ID: db.id(), UserID: userID, CategoryID: c.ID, IsOver: true, Score: score}
	db.games[g.ID] = g
}

func TestTopPlayers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	anna := f.db.addUser("anna")
	boris := f.db.addUser("boris")
	f.db.addUser("idle")
	five := f.db.addCategory("five", 5, geo.Coord{})
	two := f.db.addCategory("two", 2, geo.Coord{})

	// anna: 10000/25000 = 40, 5000/10000 = 50 -> 45
	finishedGame(f.db, anna, five, 10000)
	finishedGame(f.db, anna, two, 5000)
	// boris: 15000/25000 = 60
	finishedGame(f.db, boris, five, 15000)

	// unfinished games do not count
	_, err := f.games.StartGame(ctx, boris, "two")
	require.NoError(t, err)

	top, err := f.board.TopPlayers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "boris", top[0].Login)
	assert.InDelta(t, 60.0, top[0].AvgScore, 1e-9)
	assert.Equal(t, int64(15000), top[0].SumScore)
	assert.Equal(t, "anna", top[1].Login)
	assert.InDelta(t, 45.0, top[1].AvgScore, 1e-9)
	assert.Equal(t, int64(15000), top[1].SumScore)

	top, err = f.board.TopPlayers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, boris, top[0].ID)
}

func TestTopPlayersLimitBounds(t *testing.T) {
	db := newMemDB()
	s := NewLeaderboardService(db, db.stores(), 2, 3)
	c := db.addCategory("c", 1, geo.Coord{})
	for i := 0; i < 5; i++ {
		finishedGame(db, db.addUser(string(rune('a'+i))), c, 1000*i)
	}

	top, err := s.TopPlayers(context.Background(), -1)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	top, err = s.TopPlayers(context.Background(), 50)
	require.NoError(t, err)
	assert.Len(t, top, 3)
	assert.Equal(t, "e", top[0].Login)
}
