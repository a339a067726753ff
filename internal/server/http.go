package server

import (
	"context"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/config"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/logging"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/metrics"
)

// WSUpgrader handles WebSocket upgrades. Configure restricts it to the
// allowed origins; requests without an Origin header are accepted.
var WSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ConfigureUpgrader installs the origin allow-list on WSUpgrader.
func ConfigureUpgrader(allowedOrigins []string) {
	WSUpgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowedOrigins, origin)
	}
}

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

// PostgresPinger adapts a pgx pool.
func PostgresPinger(pool *pgxpool.Pool) Pinger {
	return pool.Ping
}

// RedisPinger adapts a Redis client.
func RedisPinger(client *redis.Client) Pinger {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// NewHTTPServer wires base routes (health, metrics, ping) plus the gameplay
// routes added by registerRoutes.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pingers []Pinger, registerRoutes func(mux *http.ServeMux), wsHandler http.HandlerFunc) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())
		if err := pingDependencies(r.Context(), pingers); err != nil {
			log.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if registerRoutes != nil {
		registerRoutes(mux)
	}

	if wsHandler != nil {
		mux.HandleFunc("GET /ws/gameplay", wsHandler)
	} else {
		mux.HandleFunc("GET /ws/gameplay", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "WebSocket handler not configured", http.StatusNotImplemented)
		})
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: logging.AccessLog(logger)(metrics.Middleware(mux)),
	}
}

func pingDependencies(ctx context.Context, pingers []Pinger) error {
	for _, ping := range pingers {
		if err := ping(ctx); err != nil {
			return err
		}
	}
	return nil
}
