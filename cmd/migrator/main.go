package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/prepsom/levelplay/internal/answerstore"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, or status")
		driver  = flag.String("driver", "postgres", "Answer store dialect: postgres or sqlite")
		dsn     = flag.String("dsn", "", "SQLite path (driver=sqlite); postgres reads PG_* from the environment")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	var (
		sqlDriver string
		source    string
	)
	switch answerstore.Driver(*driver) {
	case answerstore.DriverPostgres:
		pgUser := getEnv("PG_USER", "")
		pgDatabase := getEnv("PG_DATABASE", "")
		if pgUser == "" {
			log.Fatal().Msg("PG_USER environment variable is required")
		}
		if pgDatabase == "" {
			log.Fatal().Msg("PG_DATABASE environment variable is required")
		}
		sqlDriver = "pgx"
		source = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getEnv("PG_HOST", "localhost"), getEnv("PG_PORT", "5432"), pgUser,
			getEnv("PG_PASSWORD", ""), pgDatabase, getEnv("PG_SSL_MODE", "disable"))
	case answerstore.DriverSQLite:
		sqlDriver = "sqlite"
		source = *dsn
		if source == "" {
			source = getEnv("SQLITE_PATH", "prepsom.db")
		}
	default:
		log.Fatal().Str("driver", *driver).Msg("unknown driver. Use: postgres or sqlite")
	}

	db, err := sql.Open(sqlDriver, source)
	if err != nil {
		log.Fatal().Err(err).Str("driver", *driver).Msg("failed to open database connection")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	log.Info().Str("driver", *driver).Msg("connected to database")

	d := answerstore.Driver(*driver)
	switch *command {
	case "up":
		results, err := answerstore.Migrate(ctx, db, d)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations up")
		}
		log.Info().Int("applied", len(results)).Msg("migrations applied successfully")

	case "down":
		if err := answerstore.Rollback(ctx, db, d); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations down")
		}
		log.Info().Msg("migrations rolled back successfully")

	case "status":
		statuses, err := answerstore.MigrationStatus(ctx, db, d)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get migration status")
		}
		for _, s := range statuses {
			log.Info().
				Int64("version", s.Source.Version).
				Str("path", s.Source.Path).
				Str("state", string(s.State)).
				Msg("migration")
		}

	default:
		log.Fatal().Str("command", *command).Msg("unknown command. Use: up, down, or status")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
