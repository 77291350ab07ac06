package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/vytor/plantquiz/internal/catalog"
	"github.com/vytor/plantquiz/internal/config"
	"github.com/vytor/plantquiz/internal/db"
	"github.com/vytor/plantquiz/internal/logger"
	"github.com/vytor/plantquiz/internal/repository/sqlstore"
)

func main() {
	path := flag.String("catalog", "data/catalog.example.yaml", "deck catalog to import")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	).WithPrefix("seed")
	logger.SetDefault(log)

	f, err := os.Open(*path)
	if err != nil {
		log.Error("failed to open catalog: %v", err)
		os.Exit(1)
	}
	contents, err := catalog.Read(f)
	f.Close()
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	database, err := db.Open(ctx, db.Options{Driver: cfg.DBDriver, Path: cfg.DBPath, URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer database.Close()

	decks := sqlstore.NewDeckRepository(database.DB, database.Builder())
	for _, c := range contents {
		if err := decks.Import(ctx, c); err != nil {
			log.Error("failed to import deck %d (%s): %v", c.Deck.ID, c.Deck.Name, err)
			database.Close()
			os.Exit(1)
		}
		log.Info("imported deck %d (%s): %d plants, %d images", c.Deck.ID, c.Deck.Name, len(c.Plants), len(c.Images))
	}
	log.Info("catalog %s imported", *path)
}
