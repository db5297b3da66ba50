package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Rina-ui/Front-TP-JEE/internal/bank"
	"github.com/Rina-ui/Front-TP-JEE/internal/config"
	"github.com/Rina-ui/Front-TP-JEE/internal/gate"
	"github.com/Rina-ui/Front-TP-JEE/internal/gql"
	"github.com/Rina-ui/Front-TP-JEE/internal/logger"
	"github.com/Rina-ui/Front-TP-JEE/internal/metrics"
	"github.com/Rina-ui/Front-TP-JEE/internal/server"
	"github.com/Rina-ui/Front-TP-JEE/internal/storage"
	"github.com/Rina-ui/Front-TP-JEE/internal/storage/memory"
	"github.com/Rina-ui/Front-TP-JEE/internal/storage/postgres"
	"github.com/Rina-ui/Front-TP-JEE/internal/storage/redis"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	log := logger.New(cfg.LogLevel)
	if envErr != nil {
		log.Debug().Msg("no .env file found; relying on existing environment")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	kv, closeKV, err := openSlots(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.SessionBackend).Msg("init session storage")
	}
	defer closeKV()

	routes, err := gate.DefaultTable()
	if err != nil {
		log.Fatal().Err(err).Msg("load route table")
	}

	transport := gql.NewClient(cfg.GraphQLEndpoint, &http.Client{Timeout: cfg.HTTPTimeout}, log.With().Str("component", "graphql").Logger())
	srv := server.New(cfg, server.Deps{
		KV:      kv,
		Clients: bank.New(transport, log),
		Routes:  routes,
		Metrics: metrics.New(),
	}, log)

	go func() {
		log.Info().Str("addr", cfg.HTTPAddress()).Str("backend", cfg.SessionBackend).Msg("bank portal listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}

func openSlots(ctx context.Context, cfg config.Config) (storage.KV, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendPostgres:
		st, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case config.BackendRedis:
		st, err := redis.NewStore(ctx, cfg.RedisURL, cfg.ContextTTL)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return memory.NewStore(), func() {}, nil
	}
}

