package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrationsFS embed.FS

func (db *DB) migrate(ctx context.Context) error {
	var dialect goose.Dialect
	switch db.DriverName() {
	case DriverSQLite:
		dialect = goose.DialectSQLite3
	case DriverPostgres:
		dialect = goose.DialectPostgres
	default:
		return fmt.Errorf("unsupported database driver: %s", db.DriverName())
	}

	dir, err := fs.Sub(migrationsFS, "migrations/"+db.DriverName())
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db.DB.DB, dir)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		db.log.WithFields(logrus.Fields{
			"version":  r.Source.Version,
			"duration": r.Duration,
		}).Info("Applied migration")
	}
	return nil
}
