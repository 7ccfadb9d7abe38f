package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArifMiah07/vibe-chat-backend/internal/config"
	cacheadapter "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/cache/adapter"
	"github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/database"
	queueadapter "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/queue/adapter"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/task"
	msgadapter "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/persistence/repository/adapter"

	"github.com/joho/godotenv"
)

// The worker consumes background chat tasks (offline-message handling) from
// the queue the API enqueues into.
func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found or could not be loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	pool, err := database.Connect(ctx, cfg.DBURL)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	cache, err := cacheadapter.NewRedisCache(cfg.RedisURL)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	srv, err := queueadapter.NewAsynqServer(cfg.RedisURL, 10, map[string]int{"chat": 2, "default": 1})
	if err != nil {
		slog.Error("failed to create queue server", "error", err)
		os.Exit(1)
	}

	task.RegisterNotifyOfflineTask(srv, msgadapter.NewPgMessageRepository(pool), cache)

	stop, stopCancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopCancel()

	slog.Info("worker started")
	if err := srv.Run(stop); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
