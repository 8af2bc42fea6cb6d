// Package db opens the SQL connection behind the note store and creates its
// tables.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"notes-api/apperr"
	"notes-api/store"
)

// MemoryDSN selects the in-process store instead of a database.
const MemoryDSN = "memory://"

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Connect returns the store addressed by dsn, with its tables in place.
func Connect(ctx context.Context, dsn string, opts ...store.Option) (store.Store, error) {
	if strings.HasPrefix(dsn, MemoryDSN) {
		return store.NewMemory(opts...), nil
	}

	conn, dialect, err := Open(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := Bootstrap(ctx, conn, dialect); err != nil {
		conn.Close()
		return nil, err
	}

	return store.NewSQL(conn, dialect, opts...), nil
}

// Open connects to MySQL or PostgreSQL depending on the shape of dsn and
// verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, store.Dialect, error) {
	driver, normalized, dialect, err := driverFor(dsn)
	if err != nil {
		return nil, dialect, err
	}

	conn, err := sql.Open(driver, normalized)
	if err != nil {
		return nil, dialect, fmt.Errorf("db open error: %w", err)
	}
	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxIdleConns)
	conn.SetConnMaxLifetime(connMaxLifetime)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, dialect, fmt.Errorf("%w: ping %s: %w", apperr.ErrStoreUnavailable, dialect, err)
	}

	return conn, dialect, nil
}

var errEmptyDSN = errors.New("empty database dsn")

func driverFor(dsn string) (driver, normalized string, dialect store.Dialect, err error) {
	switch {
	case dsn == "":
		return "", "", store.MySQL, errEmptyDSN
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "pgx", dsn, store.Postgres, nil
	}

	cfg, err := mysql.ParseDSN(strings.TrimPrefix(dsn, "mysql://"))
	if err != nil {
		return "", "", store.MySQL, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return "mysql", cfg.FormatDSN(), store.MySQL, nil
}

var schema = map[store.Dialect][]string{
	store.MySQL: {
		`CREATE TABLE IF NOT EXISTS users (
			id CHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) COLLATE utf8mb4_bin NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at DATETIME(6) NOT NULL
		) DEFAULT CHARSET = utf8mb4`,
		`CREATE TABLE IF NOT EXISTS notes (
			id CHAR(36) NOT NULL PRIMARY KEY,
			user_id CHAR(36) NOT NULL,
			title MEDIUMTEXT NOT NULL,
			content MEDIUMTEXT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			INDEX idx_notes_user_created (user_id, created_at),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		) DEFAULT CHARSET = utf8mb4`,
	},
	store.Postgres: {
		`CREATE TABLE IF NOT EXISTS users (
			id CHAR(36) PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id CHAR(36) PRIMARY KEY,
			user_id CHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_user_created ON notes (user_id, created_at)`,
	},
}

// Bootstrap creates the users and notes tables if they do not exist yet.
func Bootstrap(ctx context.Context, conn *sql.DB, dialect store.Dialect) error {
	for _, stmt := range schema[dialect] {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: bootstrap %s schema: %w", apperr.ErrStoreUnavailable, dialect, err)
		}
	}
	return nil
}
