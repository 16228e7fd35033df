package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/einartakla1/dncs-poll-api/internal/config"
	"github.com/einartakla1/dncs-poll-api/internal/domain"
	"github.com/einartakla1/dncs-poll-api/internal/identity"
	"github.com/einartakla1/dncs-poll-api/internal/logging"
	"github.com/einartakla1/dncs-poll-api/internal/poll"
	"github.com/einartakla1/dncs-poll-api/internal/redis"
	"github.com/einartakla1/dncs-poll-api/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupRedis(cfg *config.Config) *goredis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	var (
		store   poll.Store
		limiter poll.RateLimiter
	)
	if cfg.RedisURL != "" {
		redisClient := setupRedis(cfg)
		defer func() { _ = redisClient.Close() }()

		store = redis.NewPollStore(redisClient)
		limiter = redis.NewVoteRateLimiter(redisClient, cfg.RateLimitSalt, cfg.VoteRateLimit, cfg.VoteRateWindow)
	} else {
		slog.Warn("REDIS_URL not set, using in-process memory store; data does not survive restarts")
		store = poll.NewMemoryStore()
		limiter = poll.NewMemoryRateLimiter(clock, cfg.VoteRateLimit, cfg.VoteRateWindow)
	}

	polls := poll.NewService(store, limiter, clock, domain.Status(cfg.DefaultPollStatus))
	resolver := identity.New(cfg.VoterIdentityMode)

	srv := server.NewServer(cfg, polls, store, resolver)

	done := runGracefulShutdown(srv)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
