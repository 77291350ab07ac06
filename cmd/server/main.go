package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/plantquiz/internal/api"
	"github.com/vytor/plantquiz/internal/config"
	"github.com/vytor/plantquiz/internal/db"
	"github.com/vytor/plantquiz/internal/flore"
	"github.com/vytor/plantquiz/internal/imagecache"
	"github.com/vytor/plantquiz/internal/logger"
	"github.com/vytor/plantquiz/internal/prefs"
	"github.com/vytor/plantquiz/internal/quiz"
	"github.com/vytor/plantquiz/internal/repository/sqlstore"
	"github.com/vytor/plantquiz/internal/services"
	"github.com/vytor/plantquiz/internal/store"
	"github.com/vytor/plantquiz/internal/worker"
)

const (
	roundSweepInterval = time.Minute
	roundIdleTimeout   = 30 * time.Minute
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Plantquiz Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_driver=%s", cfg.DBDriver)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("content_source=%s", cfg.ContentSource)
	log.Debug("sync_worker_count=%d", cfg.SyncWorkerCount)
	log.Debug("sync_queue_size=%d", cfg.SyncQueueSize)
	log.Debug("image_prefetch=%t", cfg.ImagePrefetch)
	log.Debug("image_fetch_concurrency=%d", cfg.ImageFetchConcurrency)

	rules, err := config.LoadRules(cfg.GameRulesPath)
	if err != nil {
		log.Error("failed to load game rules: %v", err)
		os.Exit(1)
	}
	log.Debug("rules: time_budget=%s quota=%d+%d/level reward=%d",
		rules.TimeBudget(), rules.BaseQuota, rules.QuotaPerLevel, rules.Reward)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.Open(ctx, db.Options{Driver: cfg.DBDriver, Path: cfg.DBPath, URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	sb := database.Builder()
	deckRepo := sqlstore.NewDeckRepository(database.DB, sb)
	imageRepo := sqlstore.NewImageRepository(database.DB, sb)
	progressRepo := sqlstore.NewProgressRepository(database.DB, sb)
	playerRepo := sqlstore.NewPlayerRepository(database.DB, sb)

	var content services.ContentSource
	switch cfg.ContentSource {
	case "remote":
		log.Info("serving decks from %s", cfg.ContentAPIURL)
		content = flore.New(cfg.ContentAPIURL)
	default:
		content = services.NewRepositoryContent(deckRepo, imageRepo)
	}

	var images quiz.ImageCache = imagecache.Nop{}
	if cfg.ImagePrefetch {
		images = imagecache.New(&http.Client{Timeout: 10 * time.Second}, cfg.ImageFetchConcurrency)
	}

	labels, err := prefs.Open(cfg.PrefsAppName)
	if err != nil {
		log.Warn("label preferences will not persist: %v", err)
		labels = prefs.NewMemory()
	}

	syncPool := worker.NewPool("sync", cfg.SyncWorkerCount, cfg.SyncQueueSize)

	progressService := services.NewProgressService(progressRepo, playerRepo)
	deckService := services.NewDeckService(content)
	gameService := services.NewGameService(services.GameDeps{
		Content:  content,
		Progress: progressService,
		Images:   images,
		Sync:     worker.NewSyncDispatcher(syncPool, progressService),
		Labels:   labels,
		Rounds:   store.NewRoundStore(),
	}, rules)

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set, every player is anonymous")
	}
	srv := &api.Server{
		DB:        database.DB,
		Decks:     deckService,
		Games:     gameService,
		Progress:  progressService,
		JWTSecret: []byte(cfg.JWTSecret),
	}

	syncPool.Start(ctx)
	go sweepRounds(ctx, gameService)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("closing open rounds")
	gameService.Shutdown()

	// Drain queued progress writes before the database closes.
	log.Debug("stopping sync pool")
	if err := syncPool.Stop(shutdownCtx); err != nil {
		log.Warn("sync pool did not drain: %v", err)
	}
	cancel()

	log.Info("===========================================")
	log.Info("Plantquiz Server Stopped")
	log.Info("===========================================")
}

func sweepRounds(ctx context.Context, games services.GameService) {
	log := logger.Default().WithPrefix("sweeper")
	ticker := time.NewTicker(roundSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := games.Sweep(roundIdleTimeout); n > 0 {
				log.Info("closed %d idle rounds", n)
			}
		}
	}
}
