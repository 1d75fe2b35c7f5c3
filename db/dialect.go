// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the few places where SQLite and PostgreSQL differ for
// the statements this package issues.
type Dialect struct {
	Name   string
	Driver string
}

var (
	SQLite   = Dialect{Name: "sqlite", Driver: "sqlite"}
	Postgres = Dialect{Name: "postgres", Driver: "postgres"}
)

// DialectFor maps a configured database type to its dialect.
func DialectFor(dbType string) (Dialect, error) {
	switch dbType {
	case "", SQLite.Name:
		return SQLite, nil
	case Postgres.Name:
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database type %q", dbType)
	}
}

// Placeholder returns the n-th (1-based) bind parameter marker.
func (d Dialect) Placeholder(n int) string {
	if d.Name == Postgres.Name {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// columnsQuery lists a table's columns in declaration order. The single
// parameter is the table name.
func (d Dialect) columnsQuery() string {
	if d.Name == Postgres.Name {
		return `SELECT column_name FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position`
	}
	return `SELECT name FROM pragma_table_info(?) ORDER BY cid`
}

// QuoteIdent quotes a table or column name. CSV headers are arbitrary text,
// so every identifier that reaches SQL goes through here.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
