// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// Open opens the database for the given dialect and verifies the
// connection. A SQLite file is created if it does not exist yet, and the
// pool is limited to a single connection shared by the whole process.
func Open(dialect Dialect, url string) (*sql.DB, error) {
	if dialect.Name == SQLite.Name && url != ":memory:" {
		if _, err := os.Stat(url); errors.Is(err, os.ErrNotExist) {
			slog.Info("Creating SQLite database", "path", url)
		}
	}

	conn, err := sql.Open(dialect.Driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect.Name == SQLite.Name {
		conn.SetMaxOpenConns(1)
		for _, p := range sqlitePragmas {
			if _, err := conn.Exec(p); err != nil {
				conn.Close()
				return nil, fmt.Errorf("failed to apply %s: %w", p, err)
			}
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}
