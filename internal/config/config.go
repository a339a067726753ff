package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"gameplay-engine"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Security Security
	Gameplay Gameplay
	CORS     CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// ConnString renders the pgx keyword/value DSN.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode, p.MaxConns)
}

// Redis holds cache, lock and pub/sub configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores token verification settings.
type Security struct {
	JWTSecret string `env:"JWT_SECRET,notEmpty"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:""`
}

// Gameplay groups session engine policy.
type Gameplay struct {
	MaxAttempts   int           `env:"GAMEPLAY_MAX_ATTEMPTS" envDefault:"3"`
	PassThreshold int           `env:"GAMEPLAY_PASS_THRESHOLD" envDefault:"70"`
	LockTTL       time.Duration `env:"GAMEPLAY_LOCK_TTL" envDefault:"10s"`
	LockWait      time.Duration `env:"GAMEPLAY_LOCK_WAIT" envDefault:"3s"`
	GameCacheTTL  time.Duration `env:"GAMEPLAY_GAME_CACHE_TTL" envDefault:"10m"`
	EventsChannel string        `env:"GAMEPLAY_EVENTS_CHANNEL" envDefault:"gameplay:sessions"`
}

// CORS holds the origins allowed to open WebSocket connections.
type CORS struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Gameplay.MaxAttempts < 1 {
		return nil, fmt.Errorf("GAMEPLAY_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.Gameplay.PassThreshold < 0 || cfg.Gameplay.PassThreshold > 100 {
		return nil, fmt.Errorf("GAMEPLAY_PASS_THRESHOLD must be between 0 and 100")
	}
	return cfg, nil
}
