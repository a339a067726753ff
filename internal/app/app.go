package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/auth"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/auth/jwt"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/config"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/db/repository"
	sqlcgen "github.com/ehteshamawan1/quiz-app-sub000/internal/db/sqlc"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/events"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/game"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/gameplay"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/gameplay/scoring"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/logging"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/server"
	ws "github.com/ehteshamawan1/quiz-app-sub000/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	broadcaster *events.Broadcaster
	bgCancels   []context.CancelFunc
}

// New bootstraps logger, Postgres, Redis, the gameplay engine and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	queries := sqlcgen.New(pool)
	gameRepo := repository.NewGameRepository(queries)
	sessionRepo := repository.NewSessionRepository(pool, queries)

	tokens := jwt.NewManager(jwt.TokenConfig{
		AccessSecret: []byte(cfg.Security.JWTSecret),
		Issuer:       cfg.Security.JWTIssuer,
	})

	catalog := game.NewCatalog(gameRepo, game.NewCache(redisClient, cfg.Gameplay.GameCacheTTL), logger)
	locker := gameplay.NewRedisLocker(redisClient, cfg.Gameplay.LockTTL, cfg.Gameplay.LockWait, logger)
	publisher := events.NewPublisher(redisClient, cfg.Gameplay.EventsChannel, logger)

	scoringCfg := scoring.DefaultConfig()
	scoringCfg.PassThreshold = decimal.NewFromInt(int64(cfg.Gameplay.PassThreshold))

	gameplaySvc := gameplay.NewService(
		sessionRepo,
		catalog,
		locker,
		publisher,
		gameplay.ServiceOptions{
			MaxAttempts:   cfg.Gameplay.MaxAttempts,
			ScoringConfig: &scoringCfg,
		},
		logger,
	)

	wsHub := ws.NewHub(logger)
	wsHandler := gameplay.NewHandler(gameplaySvc, wsHub, tokens, logger)
	httpHandlers := gameplay.NewHTTPHandlers(gameplaySvc, logger)
	broadcaster := events.NewBroadcaster(redisClient, wsHub, cfg.Gameplay.EventsChannel, logger)

	server.ConfigureUpgrader(cfg.CORS.AllowedOrigins)
	requireStudent := auth.RequireStudent(tokens, logger)
	apiServer := server.NewHTTPServer(
		cfg,
		logger,
		[]server.Pinger{server.PostgresPinger(pool), server.RedisPinger(redisClient)},
		func(mux *http.ServeMux) { httpHandlers.Register(mux, requireStudent) },
		wsHandler.HandleWebSocket,
	)

	logger.Info().
		Int("max_attempts", cfg.Gameplay.MaxAttempts).
		Int("pass_threshold", cfg.Gameplay.PassThreshold).
		Msg("gameplay engine initialized")

	return &Application{
		cfg:         cfg,
		logger:      logger,
		pool:        pool,
		redis:       redisClient,
		http:        apiServer,
		broadcaster: broadcaster,
		bgCancels:   make([]context.CancelFunc, 0, 1),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.broadcaster != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.broadcaster.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Msg("session event broadcaster stopped")
			}
		}()
	}
}
