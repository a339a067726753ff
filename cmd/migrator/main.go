package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ehteshamawan1/quiz-app-sub000/db"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/config"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, redo, status or version")
		dir     = flag.String("dir", "", "Read migrations from this directory instead of the embedded set")
		envFile = flag.String("env-file", "configs/.env", "dotenv file loaded outside production")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("app", "migrator").Logger()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Debug().Err(err).Str("file", *envFile).Msg("no .env file loaded")
		}
	}

	var pg config.Postgres
	if err := env.ParseWithOptions(&pg, env.Options{RequiredIfNoDef: true}); err != nil {
		log.Fatal().Err(err).Msg("failed to read postgres configuration")
	}

	// pgx via stdlib (database/sql compatible)
	sqlDB, err := sql.Open("pgx", pg.ConnString())
	if err != nil {
		log.Fatal().Err(err).Str("host", pg.Host).Int("port", pg.Port).Msg("failed to open database connection")
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	migrationDir := "migrations"
	if *dir != "" {
		goose.SetBaseFS(nil)
		migrationDir = *dir
	} else {
		goose.SetBaseFS(db.Migrations)
	}
	goose.SetTableName("goose_db_version")
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("failed to set goose dialect")
	}

	log.Info().
		Str("host", pg.Host).
		Str("database", pg.Database).
		Str("migration_dir", migrationDir).
		Str("command", *command).
		Msg("running migrations")

	switch *command {
	case "up", "down", "redo", "status", "version":
		if err := goose.RunContext(ctx, *command, sqlDB, migrationDir); err != nil {
			log.Fatal().Err(err).Str("command", *command).Msg("migration command failed")
		}
	default:
		log.Fatal().Str("command", *command).Msg("unknown command. Use: up, down, redo, status or version")
	}

	log.Info().Str("command", *command).Msg("migration command finished")
}
