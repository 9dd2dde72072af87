// Command library-proxy serves the exercise library API with coarse body part,
// muscle multi-select and movement pattern whitelist queries answered by
// fan-out over the backend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/exercise-library-client/internal/config"
	"github.com/Sternrassler/exercise-library-client/pkg/client"
	"github.com/Sternrassler/exercise-library-client/pkg/library"
	"github.com/Sternrassler/exercise-library-client/pkg/logging"
	"github.com/Sternrassler/exercise-library-client/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logging.Setup(cfg.LoggingConfig())
	logger := logging.NewLogger("proxy")

	clientCfg := cfg.ClientConfig()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		}
		clientCfg.RateLimitStore = ratelimit.NewRedisStore(rdb)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Sharing rate limit state via Redis")
	}

	c, err := client.New(clientCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create backend client")
	}
	defer c.Close()

	lib := library.New(c, cfg.LibraryConfig())
	app := newApp(c, lib, cfg.Server.RequestTimeout, logger)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info().Msg("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	logger.Info().
		Str("addr", cfg.Addr()).
		Dur("request_timeout", cfg.Server.RequestTimeout).
		Str("backend", cfg.Backend.BaseURL+cfg.Backend.BasePath).
		Str("user_agent", cfg.Backend.UserAgent).
		Msg("Starting library proxy")

	if err := app.Listen(cfg.Addr()); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}
