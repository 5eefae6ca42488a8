package main

import (
	"context"
	"flag"
	"os"
	"time"

	config "github.com/avvvet/geoquiz-services/configs"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/db"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/seed"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/store"
	log "github.com/sirupsen/logrus"
)

func main() {
	filePath := flag.String("file", "points.json", "path to the seed file")
	flag.Parse()

	config.LoadEnv("loadpoints")

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("failed to open seed file: %v", err)
	}
	defer f.Close()

	categories, err := seed.Parse(f)
	if err != nil {
		log.Fatalf("failed to read seed file: %v", err)
	}

	pool, err := db.Connect(os.Getenv("POSTGRES_URL"))
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.ClosePool()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sum, err := seed.Load(ctx, store.NewTxManager(pool), store.NewCategoryStore(), store.NewPointStore(), categories)
	if err != nil {
		log.Fatalf("failed to load seed: %v", err)
	}
	log.Infof("loaded %d categories with %d points, %d skipped", sum.Categories, sum.Points, sum.Skipped)
}
