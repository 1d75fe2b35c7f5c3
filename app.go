// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"database/sql"
	"log/slog"

	"github.com/danielhkuo/barcode-trace/cliparse"
	"github.com/danielhkuo/barcode-trace/db"
	"github.com/danielhkuo/barcode-trace/ingest"
	"github.com/danielhkuo/barcode-trace/render"
	"github.com/danielhkuo/barcode-trace/trace"
)

// app holds everything the commands share.
type app struct {
	cfg    cliparse.Config
	conn   *sql.DB
	svc    *trace.Service
	styler *render.Styler
}

// newApp parses args, opens the database and creates the schema.
func newApp(args []string) (*app, error) {
	cfg, err := cliparse.ParseFlags(args)
	if err != nil {
		return nil, err
	}

	dialect, err := db.DialectFor(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}

	conn, err := db.Open(dialect, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	slog.Info("Database schema ready", "type", dialect.Name)

	table := db.NewTable(conn, dialect)
	return &app{
		cfg:    cfg,
		conn:   conn,
		svc:    trace.NewService(cfg.CSVDir, table, ingest.New(table, nil)),
		styler: render.DefaultStyler(cfg.HighlightColumn),
	}, nil
}

func (a *app) Close() error {
	return a.conn.Close()
}
