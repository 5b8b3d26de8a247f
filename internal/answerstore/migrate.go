package answerstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded schema for driver (sqlite or postgres) to db.
func Migrate(ctx context.Context, db *sql.DB, driver Driver) ([]*goose.MigrationResult, error) {
	provider, err := newProvider(db, driver)
	if err != nil {
		return nil, err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("migrate %s: %w", driver, err)
	}
	return results, nil
}

// Rollback undoes the most recent migration.
func Rollback(ctx context.Context, db *sql.DB, driver Driver) error {
	provider, err := newProvider(db, driver)
	if err != nil {
		return err
	}
	if _, err := provider.Down(ctx); err != nil {
		return fmt.Errorf("rollback %s: %w", driver, err)
	}
	return nil
}

// MigrationStatus lists applied and pending migrations.
func MigrationStatus(ctx context.Context, db *sql.DB, driver Driver) ([]*goose.MigrationStatus, error) {
	provider, err := newProvider(db, driver)
	if err != nil {
		return nil, err
	}
	return provider.Status(ctx)
}

func newProvider(db *sql.DB, driver Driver) (*goose.Provider, error) {
	var dialect goose.Dialect
	switch driver {
	case DriverSQLite:
		dialect = goose.DialectSQLite3
	case DriverPostgres:
		dialect = goose.DialectPostgres
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
	sub, err := fs.Sub(migrationsFS, "migrations/"+string(driver))
	if err != nil {
		return nil, fmt.Errorf("migrations for %s: %w", driver, err)
	}
	provider, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, nil
}
