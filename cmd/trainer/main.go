package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fadedpez/blackjacktrainer/internal/bot"
	"github.com/fadedpez/blackjacktrainer/internal/config"
	"github.com/fadedpez/blackjacktrainer/internal/discord"
	"github.com/fadedpez/blackjacktrainer/internal/logging"
	"github.com/fadedpez/blackjacktrainer/pkg/repositories/game"
	walletRepo "github.com/fadedpez/blackjacktrainer/pkg/repositories/wallet"
	"github.com/fadedpez/blackjacktrainer/pkg/scheduler"
	"github.com/fadedpez/blackjacktrainer/pkg/services/blackjack"
	"github.com/fadedpez/blackjacktrainer/pkg/services/statistics"
	"github.com/fadedpez/blackjacktrainer/pkg/services/trainer"
	"github.com/fadedpez/blackjacktrainer/pkg/services/wallet"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if err := cfg.ValidateDiscord(); err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.LogLevel)

	gameRepo, wallets := openRepositories(cfg, logger)
	defer closeRepositories(logger, gameRepo, wallets)

	var maintenance *scheduler.ElasticsearchMaintenanceScheduler
	if cfg.ElasticsearchURL != "" {
		esConfig := game.DefaultElasticsearchConfig()
		esConfig.URL = cfg.ElasticsearchURL
		esConfig.Username = cfg.ElasticsearchUsername
		esConfig.Password = cfg.ElasticsearchPassword
		esConfig.IndexPrefix = cfg.ElasticsearchPrefix

		esRepo, err := game.NewElasticsearchRepository(gameRepo, esConfig)
		if err != nil {
			logger.Warn("Elasticsearch unavailable, rounds will not be indexed: %v", err)
		} else {
			logger.Info("Indexing rounds into Elasticsearch at %s", cfg.ElasticsearchURL)
			gameRepo = esRepo
			maintenance = scheduler.NewElasticsearchMaintenanceScheduler(esRepo, logger)
		}
	}

	walletService := wallet.NewService(wallets, cfg.StartingChips)
	manager := trainer.NewManager(trainer.Config{
		Engine:        blackjack.NewEngine(blackjack.WithLogger(logger)),
		Settings:      cfg.TableSettings(),
		Repository:    gameRepo,
		Wallet:        walletService,
		Logger:        logger,
		StartingChips: cfg.StartingChips,
	}, cfg.SessionIdleTimeout)

	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		log.Fatalf("Error creating Discord session: %v", err)
	}
	trainerBot := bot.New(cfg, session, manager, statistics.NewService(gameRepo), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tasks := scheduler.NewScheduler(logger)
	scheduler.AddSessionEviction(tasks, manager, cfg.SessionIdleTimeout/2, logger)
	tasks.Start(ctx)
	if maintenance != nil {
		maintenance.Start(ctx)
	}

	if err := trainerBot.Start(); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}
	logger.Info("Blackjack trainer is running. Press Ctrl+C to exit")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	trainerBot.Shutdown(shutdownCtx)
	tasks.Stop()
	if maintenance != nil {
		maintenance.Stop()
	}
	manager.Shutdown(shutdownCtx)
}

// openRepositories opens the configured storage, falling back to memory when
// the database cannot be opened
func openRepositories(cfg *config.Config, logger *logging.Logger) (game.Repository, walletRepo.Repository) {
	if cfg.StorageType == config.StorageMemory {
		logger.Info("Using in-memory repositories (data will be lost on restart)")
		return game.NewMemoryRepository(), walletRepo.NewMemoryRepository()
	}

	dbPath := cfg.SQLitePath()
	logger.Info("Initializing SQLite repositories at %s", dbPath)

	gameRepo, err := game.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite game repository: %v", err)
		logger.Warn("Falling back to in-memory repositories")
		return game.NewMemoryRepository(), walletRepo.NewMemoryRepository()
	}

	wallets, err := walletRepo.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite wallet repository: %v", err)
		logger.Warn("Falling back to in-memory repositories")
		if closeErr := gameRepo.Close(); closeErr != nil {
			logger.LogError(closeErr)
		}
		return game.NewMemoryRepository(), walletRepo.NewMemoryRepository()
	}

	return gameRepo, wallets
}

func closeRepositories(logger *logging.Logger, gameRepo game.Repository, wallets walletRepo.Repository) {
	if err := gameRepo.Close(); err != nil {
		logger.Error("Error closing game repository: %v", err)
	}
	if err := wallets.Close(); err != nil {
		logger.Error("Error closing wallet repository: %v", err)
	}
}
