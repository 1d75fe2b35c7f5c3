// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/barcode-trace/models"
)

// CreateSchema creates the CSV data table.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	return createSchema(context.Background(), db)
}

func createSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Placeholder columns only. Columns introduced by CSV headers are added by
// Table.AddMissingColumns before each append.
var schema = `
CREATE TABLE IF NOT EXISTS ` + QuoteIdent(models.TableName) + ` (
    "BARCODE" TEXT,
    "COLUMN1" TEXT,
    "COLUMN2" INTEGER,
    "Judgement" TEXT,
    "source_file" TEXT
);
`
