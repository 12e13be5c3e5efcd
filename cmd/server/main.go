package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/symptom-triage-server/internal/api"
	"github.com/symptom-triage-server/internal/cache"
	"github.com/symptom-triage-server/internal/catalog"
	"github.com/symptom-triage-server/internal/config"
	"github.com/symptom-triage-server/internal/database"
	"github.com/symptom-triage-server/internal/domain"
	"github.com/symptom-triage-server/internal/history"
	"github.com/symptom-triage-server/internal/llm"
	"github.com/symptom-triage-server/internal/repository"
	"github.com/symptom-triage-server/internal/service"
)

func main() {
	// Local development convenience; a missing .env is fine
	_ = godotenv.Load()

	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)

	logger.WithFields(logrus.Fields{
		"host":     cfg.Server.Host,
		"port":     cfg.Server.Port,
		"strategy": cfg.Analyzer.Strategy,
		"database": cfg.Database.Driver,
	}).Info("Starting symptom triage server")

	cat := catalog.Default()

	// The LLM client serves the openai strategy and follow-up conversations
	var llmClient *llm.Client
	if cfg.OpenAI.APIKey != "" {
		llmClient, err = llm.NewClient(cfg.OpenAI, logger)
		if err != nil {
			logger.WithError(err).Warn("OpenAI client unavailable")
		}
	}

	var analyzer domain.Analyzer
	if cfg.Analyzer.Strategy == "openai" && llmClient != nil {
		analyzer = llmClient
	} else {
		if cfg.Analyzer.Strategy == "openai" {
			logger.Warn("Falling back to rule-based analysis: no OpenAI client")
			cfg.Analyzer.Strategy = "rules"
		}
		analyzer = service.NewRuleBasedAnalyzer(logger, cat, nil)
	}

	if cfg.Cache.Enabled {
		var redisClient *redis.Client
		if cfg.Cache.RedisURL != "" {
			redisClient, err = cache.NewRedisClient(cfg.Cache.RedisURL)
			if err != nil {
				logger.WithError(err).Warn("Redis unavailable, caching in memory only")
			}
		}
		analyzer = cache.New(analyzer, cfg.Cache.MaxItems, cfg.Cache.TTL, redisClient, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Check history storage
	var (
		store         history.Store
		db            *database.DB
		conversations *repository.ConversationRepository
	)

	switch cfg.Database.Driver {
	case "postgres":
		dbConfig := database.ConfigFromDomain(cfg.Database)

		migrationRunner, err := database.NewMigrationRunner(dbConfig.URL(), logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create migration runner")
		}
		if err := migrationRunner.Up(ctx); err != nil {
			logger.WithError(err).Fatal("Failed to run migrations")
		}
		migrationRunner.Close()

		db, err = database.NewConnection(ctx, dbConfig, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		store, err = history.NewPostgresStoreFromURL(dbConfig.URL())
		if err != nil {
			logger.WithError(err).Fatal("Failed to open check history store")
		}

		conversations = repository.NewConversationRepository(db.Pool, logger)
	default:
		store, err = history.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to open check history store")
		}
	}
	defer store.Close()

	// Create server
	server, err := api.NewServer(cfg, api.Deps{
		Analyzer:      analyzer,
		Store:         store,
		Conversations: conversations,
		LLM:           llmClient,
		DB:            db,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create server")
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
