package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArifMiah07/vibe-chat-backend/cmd/api/router/v1"
	"github.com/ArifMiah07/vibe-chat-backend/internal/auth"
	"github.com/ArifMiah07/vibe-chat-backend/internal/config"
	cacheadapter "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/cache/adapter"
	"github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/database"
	queueadapter "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/queue/adapter"
	"github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/realtime"
	msgadapter "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/persistence/repository/adapter"
	useradapter "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

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
	gin.SetMode(cfg.GinMode)

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

	queue, err := queueadapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		slog.Error("failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer queue.Close()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	hub := realtime.NewHub()
	defer hub.Close()

	users := useradapter.NewCachedUserRepository(useradapter.NewPgUserRepository(pool), cache)
	messages := msgadapter.NewPgMessageRepository(pool)

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, hub, tokens, cfg.JWTExpiresIn, users, messages, cache, queue)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop, stopCancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopCancel()
	<-stop.Done()

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	// Closing the hub first tears down every live socket, which unblocks the
	// per-connection read loops before the HTTP server drains.
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
