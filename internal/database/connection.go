package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when an update targets a record that does not exist
var ErrNotFound = errors.New("record not found")

// DB is a database handle shared by the repositories
type DB struct {
	*sqlx.DB
	log logrus.FieldLogger
}

// Connect opens the database, applies pending migrations and returns the handle
func Connect(ctx context.Context, driver, dsn string, log logrus.FieldLogger) (*DB, error) {
	if driver == DriverSQLite && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	conn, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers; one connection also keeps :memory: alive
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	}

	db := &DB{DB: conn, log: log}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	return db.DB.Close()
}

// insertReturningID executes an INSERT written with ? placeholders and returns the new row id
func insertReturningID(ctx context.Context, ext sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	if ext.DriverName() == DriverPostgres {
		var id int64
		err := ext.QueryRowxContext(ctx, ext.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	result, err := ext.ExecContext(ctx, ext.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// selectIn runs a query containing an IN (?) clause bound to a slice argument
func (db *DB) selectIn(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return err
	}
	return db.SelectContext(ctx, dest, db.Rebind(query), args...)
}
