package archivesvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avvvet/geoquiz-services/internal/comm"
	"github.com/avvvet/geoquiz-services/internal/db"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/scoring"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "finished_games"

var ErrNotFound = errors.New("game not archived")

type RoundRecord struct {
	Num      int        `bson:"num"`
	Score    int        `bson:"score"`
	DateEnd  *time.Time `bson:"date_end,omitempty"`
	Complete bool       `bson:"complete"`
}

// GameRecord is the archived summary of one finished game.
type GameRecord struct {
	GameID     int64         `bson:"game_id"`
	UserID     int64         `bson:"user_id"`
	Category   string        `bson:"category"`
	Score      int           `bson:"score"`
	MaxScore   int           `bson:"max_score"`
	Normalized float64       `bson:"normalized"` // score / max_score * 100
	Rounds     []RoundRecord `bson:"rounds"`
	EndedAt    time.Time     `bson:"ended_at"`
	ArchivedAt time.Time     `bson:"archived_at"`
	ExpiresAt  *time.Time    `bson:"expires_at,omitempty"`
}

// NewGameRecord builds the record for ev. A positive retention sets expires_at.
func NewGameRecord(ev comm.GameEnded, now time.Time, retention time.Duration) *GameRecord {
	rec := &GameRecord{
		GameID:     ev.GameID,
		UserID:     ev.UserID,
		Category:   ev.Category,
		Score:      ev.Score,
		MaxScore:   ev.MaxScore,
		Normalized: scoring.Normalized(ev.Score, ev.MaxScore).Round(2).InexactFloat64(),
		Rounds:     make([]RoundRecord, 0, len(ev.Rounds)),
		EndedAt:    ev.EndedAt,
		ArchivedAt: now,
	}
	for _, r := range ev.Rounds {
		rec.Rounds = append(rec.Rounds, RoundRecord{Num: r.Num, Score: r.Score, DateEnd: r.DateEnd, Complete: r.Complete})
	}
	if retention > 0 {
		exp := now.Add(retention)
		rec.ExpiresAt = &exp
	}
	return rec
}

// Archive stores finished games in MongoDB, one document per game.
type Archive struct {
	db        *mongo.Database
	coll      *mongo.Collection
	retention time.Duration
}

func NewArchive(database *mongo.Database, retention time.Duration) *Archive {
	return &Archive{
		db:        database,
		coll:      database.Collection(collectionName),
		retention: retention,
	}
}

// EnsureIndexes makes game_id unique and expires records by expires_at.
func (a *Archive) EnsureIndexes(ctx context.Context) error {
	_, err := a.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "game_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create game_id index: %w", err)
	}
	return db.CreateTTLIndexForCollection(ctx, a.db, collectionName)
}

// Save upserts the record of ev, so redelivered events overwrite.
func (a *Archive) Save(ctx context.Context, ev comm.GameEnded) error {
	rec := NewGameRecord(ev, time.Now().UTC(), a.retention)
	_, err := a.coll.ReplaceOne(ctx,
		bson.M{"game_id": rec.GameID},
		rec,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("archive game %d: %w", rec.GameID, err)
	}
	return nil
}

func (a *Archive) Get(ctx context.Context, gameID int64) (*GameRecord, error) {
	var rec GameRecord
	err := a.coll.FindOne(ctx, bson.M{"game_id": gameID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
