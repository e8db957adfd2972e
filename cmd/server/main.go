package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sterna-backend/internal/config"
	"sterna-backend/internal/database"
	"sterna-backend/internal/handlers"
	"sterna-backend/internal/logger"
	"sterna-backend/internal/metrics"
	"sterna-backend/internal/repository"
	"sterna-backend/internal/router"
	"sterna-backend/internal/services"
	"sterna-backend/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log := logger.Setup(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err := cfg.Validate(); err != nil {
		fatal(log, "invalid configuration", err)
	}
	log.Info("starting Sterna backend", "env", cfg.Env, "storage", cfg.StorageType)

	m := metrics.New()

	// ──── Step 2: Initialize Redis Clients ────
	var redisClients *database.RedisClients
	if cfg.LiveUpdatesEnabled() {
		var err error
		redisClients, err = database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			fatal(log, "redis connection failed", err)
		}
		defer redisClients.Close()
		log.Info("redis connected")
	}

	// ──── Step 3: Initialize Message Store ────
	var store services.MessageStore
	switch cfg.StorageType {
	case config.StoragePostgres:
		pool, err := database.NewPostgresPool(cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			fatal(log, "postgres connection failed", err)
		}
		defer pool.Close()
		log.Info("postgres connected")

		if err := database.RunMigrations(pool, cfg.MigrationsDir); err != nil {
			fatal(log, "database migration failed", err)
		}
		log.Info("database migrations applied")

		store = repository.NewMessageRepo(pool)
	case config.StorageRedis:
		store = repository.NewRedisMessageRepo(redisClients.Store)
	case config.StorageMemory:
		log.Warn("using in-memory message store; history is lost on restart")
		store = repository.NewMemoryMessageRepo()
	}

	// ──── Step 4: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, m, log)
	if err != nil {
		fatal(log, "gemini client initialization failed", err)
	}
	defer geminiService.Close()
	log.Info("gemini client initialized")

	// ──── Step 5: Initialize Services & Handlers ────
	var publisher services.EventPublisher = services.NopPublisher{}
	var wsHub *websocket.Hub
	if redisClients != nil {
		publisher = services.NewRedisPublisher(redisClients.Store)
		wsHub = websocket.NewHub(redisClients.PubSub, log)
		defer wsHub.Close()
		log.Info("live session updates enabled")
	}

	chatService := services.NewChatService(store, geminiService, publisher, m, log)
	chatHandler := handlers.NewChatHandler(chatService, log)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(chatHandler, wsHub, m, cfg.FrontendURL)

	// No WriteTimeout: a completion call may take as long as the model needs.
	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info("Sterna backend ready", "addr", "http://localhost:"+cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		fatal(log, "server error", err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
