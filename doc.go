// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for barcode-trace.

barcode-trace loads every CSV file in a folder into a single table keyed by
BARCODE and serves a page that shows every stored row for a barcode, with
OK, None and BB cells highlighted.

# Commands

	barcode-trace serve  [flags]            - HTTP server (default command)
	barcode-trace ingest [flags]            - one ingest pass, then exit
	barcode-trace lookup [flags] <barcode>  - ingest, then print matching rows

Flags must come before the barcode.

# Starting the Server

	CSV_DIR=./data go run .

Or with flags:

	go run . serve -p 3318 -csv-dir ./data -watch

# Configuration

Required settings:

  - CSV_DIR (-csv-dir): Folder scanned for *.csv files

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): SQLite file or postgres URL (default: trace.db)
  - WATCH (-watch): Ingest when CSV files change
  - HIGHLIGHT_COLUMN (-highlight-column): Only highlight this column

# Architecture

  - csvsource: CSV folder listing and parsing
  - ingest: Incremental load of new barcodes
  - db: Connection, schema and table access
  - trace: Ingest then lookup, shared by HTTP and CLI
  - render: HTML and terminal output with cell highlighting
  - watcher: Background ingest on folder changes
  - handlers, router, middleware: HTTP layer
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
