package repository

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Config holds database connection configuration.
type Config struct {
	// Driver selects the backend: "postgres" (default) or "sqlite".
	Driver string

	// Postgres settings.
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	// SQLite settings. Path may be ":memory:" for tests and ephemeral use.
	Path string
}

// Open connects to the configured database and verifies the connection.
func Open(cfg Config) (*sqlx.DB, error) {
	switch cfg.Driver {
	case "", "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		)
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		return db, nil
	case "sqlite":
		db, err := sqlx.Connect("sqlite", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("connect sqlite: %w", err)
		}
		// A single connection keeps :memory: databases coherent and avoids
		// SQLITE_BUSY under concurrent writers.
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Migrate applies any pending embedded migrations in filename order.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(db.Rebind(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL
		)
	`)); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migration files: %w", err)
	}

	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			versions = append(versions, entry.Name())
		}
	}
	sort.Strings(versions)

	for _, version := range versions {
		var exists bool
		query := db.Rebind(`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)`)
		if err := db.QueryRow(query, version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", version, err)
		}
		if exists {
			continue
		}

		script, err := migrationFiles.ReadFile("migrations/" + version)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", version, err)
		}
		if _, err := tx.Exec(string(script)); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		record := db.Rebind(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`)
		if _, err := tx.Exec(record, version, time.Now().UTC()); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %s: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", version, err)
		}
	}

	return nil
}

// Tx runs fn inside a transaction, rolling back on error.
func Tx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
