// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the storage engine and wraps the CSV data table.

# Opening

Open takes a Dialect (SQLite or Postgres) and a URL:

	dialect, _ := db.DialectFor(cfg.DatabaseType)
	conn, err := db.Open(dialect, cfg.DatabaseURL)

SQLite files are created on first open. The pool is limited to one
connection so the process holds a single long-lived handle.

# Schema Creation

CreateSchema creates csv_data_table with its placeholder columns:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS.

# Table Operations

	table := db.NewTable(conn, dialect)

  - EnsureTable: CREATE TABLE IF NOT EXISTS
  - Columns: column names in declaration order
  - AddMissingColumns: ALTER TABLE ... ADD COLUMN for new CSV headers
  - Barcodes: set of stored barcodes
  - Append: insert a row set in one transaction
  - FindByBarcode: exact-match lookup, table column order
  - Count: number of stored rows

Every identifier is quoted with QuoteIdent; every value is a bind
parameter.
*/
package db
