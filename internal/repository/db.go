// Package repository persists extraction results. It runs over database/sql
// with two interchangeable drivers: modernc.org/sqlite for local runs (the
// default, a plain file next to the output JSON) and pgx for a shared
// Postgres instance.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to the database named by the DSN and applies the schema.
// A postgres:// or postgresql:// DSN selects pgx; anything else is a
// SQLite file path (":memory:" included).
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := "sqlite"
	if isPostgres(cfg.DSN) {
		driver = "pgx"
	}
	logger.Info("db.open", "driver", driver)

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		logger.Error("db.open_failed", "driver", driver, "error", err)
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		logger.Error("db.ping_failed", "driver", driver, "error", err)
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("db.ready", "driver", driver)
	return db, nil
}

// HealthCheck pings with a bounded deadline to catch DSN issues early.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// The schema is shared between both drivers, so column types stick to the
// common denominator. UUIDs are stored as text.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS schools (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		level TEXT NOT NULL,
		extracted_at TIMESTAMP NOT NULL,
		UNIQUE (name, level)
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		school_id TEXT NOT NULL REFERENCES schools (id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		area TEXT NOT NULL,
		focus_group TEXT NOT NULL DEFAULT '',
		focus_area TEXT NOT NULL DEFAULT '',
		focus_grades TEXT NOT NULL DEFAULT '',
		focus_student_group TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL DEFAULT '',
		current_data TEXT NOT NULL DEFAULT '',
		raw_strategies TEXT NOT NULL DEFAULT '',
		strategies_summarized TEXT NOT NULL DEFAULT '',
		engagement_strategies TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS strategies (
		id TEXT PRIMARY KEY,
		goal_id TEXT NOT NULL REFERENCES goals (id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		action TEXT NOT NULL,
		measures TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS goals_school_idx ON goals (school_id, position)`,
	`CREATE INDEX IF NOT EXISTS strategies_goal_idx ON strategies (goal_id, position)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// rebind converts ?-style placeholders to the $N style pgx expects. Queries
// in this package are written with ?, the SQLite style.
func rebind(pg bool, query string) string {
	if !pg {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
