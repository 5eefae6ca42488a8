package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avvvet/geoquiz-services/internal/comm"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/models"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/store"
	"github.com/avvvet/geoquiz-services/internal/geo"
)

// memDB is an in-memory stand-in for postgres. InTx serializes
// transactions the way the game row lock does.
type memDB struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID     int64
	users      map[int64]*models.User
	categories map[int64]*models.Category
	likes      map[[2]int64]bool
	points     map[int64]*models.Point
	games      map[int64]*models.Game
	rounds     map[int64]*models.Round
}

func newMemDB() *memDB {
	return &memDB{
		users:      map[int64]*models.User{},
		categories: map[int64]*models.Category{},
		likes:      map[[2]int64]bool{},
		points:     map[int64]*models.Point{},
		games:      map[int64]*models.Game{},
		rounds:     map[int64]*models.Round{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) InTx(ctx context.Context, fn func(q store.DBTX) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()
	return fn(nil)
}

func (db *memDB) Conn() store.DBTX { return nil }

func (db *memDB) stores() Stores {
	return Stores{
		Users:       fakeUsers{db},
		Categories:  fakeCategories{db},
		Points:      fakePoints{db},
		Games:       fakeGames{db},
		Rounds:      fakeRounds{db},
		Leaderboard: fakeLeaderboard{db},
	}
}

func (db *memDB) addCategory(codename string, roundsCount int, coords ...geo.Coord) *models.Category {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := models.NewCategory(codename, codename, "", "", roundsCount)
	c.ID = db.id()
	db.categories[c.ID] = c
	for _, coord := range coords {
		p := &models.Point{ID: db.id(), CategoryID: c.ID, Point: coord}
		db.points[p.ID] = p
	}
	return c
}

func (db *memDB) addUser(login string) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := &models.User{ID: db.id(), Login: login}
	db.users[u.ID] = u
	return u.ID
}

type fakeUsers struct{ db *memDB }

func (f fakeUsers) CreateUser(ctx context.Context, q store.DBTX, login, passwordHash string) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.Login == login {
			return nil, store.ErrDuplicate
		}
	}
	u := &models.User{ID: f.db.id(), Login: login, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.db.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f fakeUsers) GetByID(ctx context.Context, q store.DBTX, id int64) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) GetByLogin(ctx context.Context, q store.DBTX, login string) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.Login == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f fakeUsers) UpdatePassword(ctx context.Context, q store.DBTX, id int64, passwordHash string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f fakeUsers) GetInfo(ctx context.Context, q store.DBTX, id int64) (*models.UserInfo, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	info := &models.UserInfo{ID: u.ID, Login: u.Login}
	for _, g := range f.db.games {
		if g.UserID == id && g.IsOver {
			info.GamesCount++
			if info.BestGameScore == nil || g.Score > *info.BestGameScore {
				s := g.Score
				info.BestGameScore = &s
			}
		}
	}
	return info, nil
}

type fakeCategories struct{ db *memDB }

func (f fakeCategories) GetByID(ctx context.Context, q store.DBTX, id int64) (*models.Category, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f fakeCategories) GetByCodename(ctx context.Context, q store.DBTX, codename string) (*models.Category, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, c := range f.db.categories {
		if c.Codename == codename {
			cp := *c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f fakeCategories) List(ctx context.Context, q store.DBTX) ([]*models.Category, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []*models.Category
	for _, c := range f.db.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeCategories) ListLikedBy(ctx context.Context, q store.DBTX, userID int64) ([]*models.Category, error) {
	all, _ := f.List(ctx, q)
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []*models.Category
	for _, c := range all {
		if f.db.likes[[2]int64{c.ID, userID}] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f fakeCategories) Stats(ctx context.Context, q store.DBTX, categoryID int64) (*models.CategoryStats, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	st := &models.CategoryStats{}
	for _, p := range f.db.points {
		if p.CategoryID == categoryID {
			st.PointsCount++
		}
	}
	players := map[int64]bool{}
	sum, finished := 0, 0
	for _, g := range f.db.games {
		if g.CategoryID != categoryID {
			continue
		}
		players[g.UserID] = true
		if g.IsOver {
			sum += g.Score
			finished++
		}
	}
	st.PlayersCount = len(players)
	if finished > 0 {
		avg := float64(sum) / float64(finished)
		st.AvgGamesScore = &avg
	}
	return st, nil
}

func (f fakeCategories) IsLiked(ctx context.Context, q store.DBTX, categoryID, userID int64) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.db.likes[[2]int64{categoryID, userID}], nil
}

func (f fakeCategories) AddLike(ctx context.Context, q store.DBTX, categoryID, userID int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.likes[[2]int64{categoryID, userID}] = true
	return nil
}

type fakePoints struct{ db *memDB }

func (f fakePoints) IDsByCategory(ctx context.Context, q store.DBTX, categoryID int64) ([]int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var ids []int64
	for _, p := range f.db.points {
		if p.CategoryID == categoryID {
			ids = append(ids, p.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type fakeGames struct{ db *memDB }

func (f fakeGames) CreateGame(ctx context.Context, q store.DBTX, userID, categoryID int64) (*models.Game, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	g := &models.Game{ID: f.db.id(), UserID: userID, CategoryID: categoryID, CreatedAt: time.Now()}
	f.db.games[g.ID] = g
	cp := *g
	return &cp, nil
}

func (f fakeGames) GetGameByID(ctx context.Context, q store.DBTX, gameID int64) (*models.Game, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	g, ok := f.db.games[gameID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f fakeGames) LockGameByID(ctx context.Context, q store.DBTX, gameID int64) (*models.Game, error) {
	return f.GetGameByID(ctx, q, gameID)
}

func (f fakeGames) ListGamesByUser(ctx context.Context, q store.DBTX, userID int64) ([]*models.Game, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []*models.Game
	for _, g := range f.db.games {
		if g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f fakeGames) FinishGame(ctx context.Context, q store.DBTX, gameID int64, score int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	g, ok := f.db.games[gameID]
	if !ok {
		return store.ErrNotFound
	}
	g.IsOver = true
	g.Score = score
	return nil
}

func (f fakeGames) HasFinishedGame(ctx context.Context, q store.DBTX, userID, categoryID int64) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, g := range f.db.games {
		if g.UserID == userID && g.CategoryID == categoryID && g.IsOver {
			return true, nil
		}
	}
	return false, nil
}

type fakeRounds struct{ db *memDB }

func (f fakeRounds) CreateRound(ctx context.Context, q store.DBTX, gameID int64, num int, pointID int64) (*models.Round, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, r := range f.db.rounds {
		if r.GameID == gameID && r.Num == num {
			return nil, store.ErrDuplicate
		}
	}
	pid := pointID
	target := f.db.points[pointID].Point
	r := &models.Round{
		ID:            f.db.id(),
		GameID:        gameID,
		Num:           num,
		RandomPointID: &pid,
		RandomPoint:   &target,
		DateStart:     time.Now(),
	}
	f.db.rounds[r.ID] = r
	cp := *r
	return &cp, nil
}

func (f fakeRounds) GetRoundByID(ctx context.Context, q store.DBTX, roundID int64) (*models.Round, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	r, ok := f.db.rounds[roundID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f fakeRounds) ListRoundsByGame(ctx context.Context, q store.DBTX, gameID int64) ([]*models.Round, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []*models.Round
	for _, r := range f.db.rounds {
		if r.GameID == gameID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Num < out[j].Num })
	return out, nil
}

func (f fakeRounds) CompleteRound(ctx context.Context, q store.DBTX, roundID int64, userPoint geo.Coord, score int, at time.Time) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	r, ok := f.db.rounds[roundID]
	if !ok {
		return store.ErrNotFound
	}
	r.UserPoint = &userPoint
	r.Score = score
	r.DateEnd = &at
	return nil
}

type fakeLeaderboard struct{ db *memDB }

func (f fakeLeaderboard) CategoryTotals(ctx context.Context, q store.DBTX) ([]models.CategoryTotals, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	byKey := map[[2]int64]*models.CategoryTotals{}
	for _, g := range f.db.games {
		if !g.IsOver {
			continue
		}
		k := [2]int64{g.UserID, g.CategoryID}
		t, ok := byKey[k]
		if !ok {
			t = &models.CategoryTotals{
				UserID:   g.UserID,
				Login:    f.db.users[g.UserID].Login,
				MaxScore: f.db.categories[g.CategoryID].MaxScore,
			}
			byKey[k] = t
		}
		t.Games++
		t.ScoreSum += int64(g.Score)
	}
	var out []models.CategoryTotals
	for _, t := range byKey {
		out = append(out, *t)
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	rounds []comm.RoundCompleted
	ended  []comm.GameEnded
}

func (p *recordingPublisher) RoundCompleted(ev comm.RoundCompleted) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rounds = append(p.rounds, ev)
}

func (p *recordingPublisher) GameEnded(ev comm.GameEnded) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ended = append(p.ended, ev)
}
