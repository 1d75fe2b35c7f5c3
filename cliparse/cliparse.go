// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort          = 3318
	DefaultSQLitePath    = "trace.db"
	DefaultWatchDebounce = 500 * time.Millisecond
)

// Supported database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port            int           `yaml:"port"`
	DatabaseURL     string        `yaml:"database_url"`
	DatabaseType    string        `yaml:"database_type"`
	CSVDir          string        `yaml:"csv_dir"`
	Watch           bool          `yaml:"watch"`
	WatchDebounce   time.Duration `yaml:"watch_debounce"`
	HighlightColumn string        `yaml:"highlight_column"`

	ConfigFile string   `yaml:"-"`
	EnvFile    string   `yaml:"-"`
	Args       []string `yaml:"-"` // positional arguments left after flags
}

// ParseFlags parses flags and fills anything not given on the command line
// from the environment (including a .env file), then from the YAML config
// file, then from defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("barcode-trace", flag.ContinueOnError)

	// Network and storage
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (SQLite file path or postgres:// URL)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Ingest
	fs.StringVar(&cfg.CSVDir, "csv-dir", "", "Directory scanned for *.csv files")
	fs.BoolVar(&cfg.Watch, "watch", false, "Ingest automatically when CSV files change")
	fs.DurationVar(&cfg.WatchDebounce, "watch-debounce", 0, "Quiet period before a watched change triggers ingest")

	// Rendering
	fs.StringVar(&cfg.HighlightColumn, "highlight-column", "", "Only highlight cells of this column (default: any column)")

	// Config sources
	fs.StringVar(&cfg.ConfigFile, "c", "", "YAML config file")
	fs.StringVar(&cfg.EnvFile, "env-file", ".env", "dotenv file loaded into the environment if present")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Args = fs.Args()

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return Config{}, err
	}

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv("CONFIG_FILE")
	}
	var file Config
	if cfg.ConfigFile != "" {
		var err error
		file, err = loadConfigFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, err
		}
	}

	// Fall back to environment variables, then the config file
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else if file.Port != 0 {
			cfg.Port = file.Port
		} else {
			cfg.Port = DefaultPort
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = firstNonEmpty(os.Getenv("DATABASE_TYPE"), file.DatabaseType, DatabaseSQLite)
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = firstNonEmpty(os.Getenv("DATABASE_URL"), file.DatabaseURL)
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == DatabasePostgres {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultSQLitePath
	}

	if cfg.CSVDir == "" {
		cfg.CSVDir = firstNonEmpty(os.Getenv("CSV_DIR"), file.CSVDir)
	}
	if cfg.CSVDir == "" {
		return Config{}, errors.New("CSV directory required (use -csv-dir or CSV_DIR env)")
	}

	if !set["watch"] {
		if w := os.Getenv("WATCH"); w != "" {
			watch, err := strconv.ParseBool(w)
			if err != nil {
				return Config{}, errors.New("invalid WATCH env variable")
			}
			cfg.Watch = watch
		} else {
			cfg.Watch = file.Watch
		}
	}

	if cfg.WatchDebounce == 0 {
		if d := os.Getenv("WATCH_DEBOUNCE"); d != "" {
			debounce, err := time.ParseDuration(d)
			if err != nil {
				return Config{}, errors.New("invalid WATCH_DEBOUNCE env variable")
			}
			cfg.WatchDebounce = debounce
		} else if file.WatchDebounce != 0 {
			cfg.WatchDebounce = file.WatchDebounce
		} else {
			cfg.WatchDebounce = DefaultWatchDebounce
		}
	}
	if cfg.WatchDebounce < 0 {
		return Config{}, errors.New("watch debounce must not be negative")
	}

	if cfg.HighlightColumn == "" {
		cfg.HighlightColumn = firstNonEmpty(os.Getenv("HIGHLIGHT_COLUMN"), file.HighlightColumn)
	}

	return cfg, nil
}

// loadEnvFile loads a dotenv file without overriding variables that are
// already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
