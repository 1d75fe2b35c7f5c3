// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DatabaseURL: SQLite file path or postgres URL (default: trace.db for sqlite)
  - CSVDir: Folder scanned for CSV files (required)
  - Watch: Run an ingest pass when CSV files change
  - WatchDebounce: Quiet period before a watched change is ingested (default: 500ms)
  - HighlightColumn: Only highlight cells in this column (default: any column)
  - Args: Positional arguments left after the flags

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	-csv-dir          CSV folder
	-watch            Watch the CSV folder
	-watch-debounce   Watch debounce duration
	-highlight-column Highlighted column
	-c                YAML config file
	-env-file         dotenv file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	CSV_DIR          → -csv-dir
	WATCH            → -watch
	WATCH_DEBOUNCE   → -watch-debounce
	HIGHLIGHT_COLUMN → -highlight-column
	CONFIG_FILE      → -c

The dotenv file is loaded first and never overrides variables that are
already set.

# Config File

A YAML file may supply any setting:

	csv_dir: /srv/inspection
	database_type: sqlite
	database_url: /var/lib/trace/trace.db
	watch: true
	watch_debounce: 2s
	highlight_column: Judgement

Precedence is flags, then environment, then config file, then defaults.

# Validation

ParseFlags returns an error if:

  - no CSV directory is given
  - PORT, WATCH or WATCH_DEBOUNCE cannot be parsed
  - the database type is not sqlite or postgres
  - postgres is selected without a database URL
*/
package cliparse
