// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/barcode-trace/ingest"
	"github.com/danielhkuo/barcode-trace/render"
	"github.com/danielhkuo/barcode-trace/router"
	"github.com/danielhkuo/barcode-trace/trace"
	"github.com/danielhkuo/barcode-trace/watcher"
)

const shutdownTimeout = 10 * time.Second

// Flags are parsed by cliparse so every command accepts the same flags,
// env variables and config file.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "serve [flags]",
		Short:              "Serve the barcode lookup page",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE:               runServe,
	}
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "ingest [flags]",
		Short:              "Run one ingest pass over the CSV folder",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE:               runIngest,
	}
}

func lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "lookup [flags] <barcode>",
		Short:              "Ingest the CSV folder, then print every row for a barcode",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE:               runLookup,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	defer a.Close()

	renderer, err := render.New(a.styler)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Handler:           router.NewRouter(a.svc, renderer),
		Addr:              ":" + strconv.Itoa(a.cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var w *watcher.Watcher
	if a.cfg.Watch {
		w, err = watcher.New(a.cfg.CSVDir, a.cfg.WatchDebounce, a.svc.Ingest, nil)
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Listening", "port", a.cfg.Port, "csv_dir", a.cfg.CSVDir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if w != nil {
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	err = g.Wait()
	slog.Info("Server closed", "error", err)
	return err
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := newApp(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.svc.Ingest(cmd.Context())
	if errors.Is(err, trace.ErrNoCSVFiles) {
		fmt.Fprintln(cmd.OutOrStdout(), trace.NoCSVFilesMessage)
		return nil
	}
	printReport(cmd, report)
	return err
}

func runLookup(cmd *cobra.Command, args []string) error {
	a, err := newApp(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	defer a.Close()

	if len(a.cfg.Args) != 1 {
		return errors.New("lookup takes exactly one barcode")
	}
	barcode := a.cfg.Args[0]
	out := cmd.OutOrStdout()

	res, err := a.svc.Trace(cmd.Context(), barcode)
	if errors.Is(err, trace.ErrNoCSVFiles) {
		fmt.Fprintln(out, trace.NoCSVFilesMessage)
		return nil
	}
	if err != nil {
		return err
	}

	if res.IngestErr != nil {
		for _, f := range res.Ingest.Failed() {
			color.New(color.FgYellow).Fprintf(out, "Could not ingest %s: %v\n", f.File, f.Err)
		}
	}

	if res.Rows.Empty() {
		fmt.Fprintln(out, render.NoRowMessage(barcode))
		return nil
	}
	return a.styler.Terminal(out, res.Rows)
}

func printReport(cmd *cobra.Command, report ingest.Report) {
	out := cmd.OutOrStdout()
	for _, f := range report.Files {
		if f.Err != nil {
			color.New(color.FgRed).Fprintf(out, "%s: %v\n", f.File, f.Err)
			continue
		}
		fmt.Fprintf(out, "%s (%s): %d parsed, %d inserted, %d skipped, %d rejected\n",
			f.File, humanize.Bytes(uint64(f.Size)), f.Parsed, f.Inserted, f.Skipped, f.Rejected)
	}
	fmt.Fprintf(out, "Loaded %s new rows from %d files in %s.\n",
		humanize.Comma(int64(report.Inserted())), len(report.Files), report.Duration.Round(time.Millisecond))
}
