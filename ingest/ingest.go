// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/danielhkuo/barcode-trace/csvsource"
	"github.com/danielhkuo/barcode-trace/models"
)

// Store is the part of the data table an ingest pass writes to.
type Store interface {
	EnsureTable(ctx context.Context) error
	Barcodes(ctx context.Context) (map[string]struct{}, error)
	AddMissingColumns(ctx context.Context, want []string) ([]string, error)
	Append(ctx context.Context, rs models.RowSet) (int, error)
}

// FileReport is the outcome of ingesting one file.
type FileReport struct {
	File         string   `json:"file"`
	Size         int64    `json:"size"`
	Parsed       int      `json:"parsed"`
	Inserted     int      `json:"inserted"`
	Skipped      int      `json:"skipped"`  // barcode already stored
	Rejected     int      `json:"rejected"` // empty barcode
	AddedColumns []string `json:"added_columns,omitempty"`
	Err          error    `json:"-"`
}

// Report is the outcome of one ingest pass.
type Report struct {
	PassID   string        `json:"pass_id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Files    []FileReport  `json:"files"`
}

// Inserted returns the number of rows appended across all files.
func (r Report) Inserted() int {
	n := 0
	for _, f := range r.Files {
		n += f.Inserted
	}
	return n
}

// Failed returns the reports of files that could not be ingested.
func (r Report) Failed() []FileReport {
	var failed []FileReport
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// Ingestor appends new CSV rows to the store. Passes are serialized so a
// watcher-triggered pass and a request-triggered pass never interleave.
type Ingestor struct {
	store  Store
	logger *slog.Logger
	mu     sync.Mutex
}

func New(store Store, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{store: store, logger: logger}
}

// Run ingests files in the given order. The stored barcodes are re-read
// before each file, so rows committed by an earlier file of the same pass
// are excluded from later files; rows within one file are not deduplicated
// against each other.
//
// A failing file does not stop the pass. The returned error joins every
// file failure; the report always describes every file.
func (in *Ingestor) Run(ctx context.Context, files []string) (Report, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	report := Report{PassID: uuid.NewString(), Started: time.Now()}
	log := in.logger.With("pass_id", report.PassID)

	if err := in.store.EnsureTable(ctx); err != nil {
		return report, fmt.Errorf("ensure table: %w", err)
	}

	log.Info("ingest pass started", "files", len(files))

	var errs []error
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		fr := in.ingestFile(ctx, log, path)
		if fr.Err != nil {
			log.Error("ingest failed", "file", fr.File, "error", fr.Err)
			errs = append(errs, fmt.Errorf("%s: %w", fr.File, fr.Err))
		}
		report.Files = append(report.Files, fr)
	}

	report.Duration = time.Since(report.Started)
	log.Info("ingest pass completed",
		"files", len(report.Files),
		"inserted", report.Inserted(),
		"failed", len(report.Failed()),
		"duration_ms", report.Duration.Milliseconds(),
	)

	return report, errors.Join(errs...)
}

func (in *Ingestor) ingestFile(ctx context.Context, log *slog.Logger, path string) FileReport {
	fr := FileReport{File: filepath.Base(path)}

	if info, err := os.Stat(path); err == nil {
		fr.Size = info.Size()
	}

	rs, err := csvsource.ReadFile(path)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Parsed = rs.Len()

	existing, err := in.store.Barcodes(ctx)
	if err != nil {
		fr.Err = err
		return fr
	}

	fresh, skipped, rejected := filterNew(rs, existing)
	fr.Skipped = skipped
	fr.Rejected = rejected

	if !fresh.Empty() {
		added, err := in.store.AddMissingColumns(ctx, fresh.Columns)
		fr.AddedColumns = added
		if err != nil {
			fr.Err = err
			return fr
		}
		if len(added) > 0 {
			log.Info("added columns", "file", fr.File, "columns", added)
		}

		n, err := in.store.Append(ctx, fresh)
		if err != nil {
			fr.Err = err
			return fr
		}
		fr.Inserted = n
	}

	log.Info("ingested file",
		"file", fr.File,
		"size", humanize.Bytes(uint64(fr.Size)),
		"parsed", fr.Parsed,
		"inserted", fr.Inserted,
		"skipped", fr.Skipped,
		"rejected", fr.Rejected,
	)
	return fr
}

// filterNew drops rows whose barcode is in existing and rows without a
// barcode.
func filterNew(rs models.RowSet, existing map[string]struct{}) (fresh models.RowSet, skipped, rejected int) {
	fresh = models.RowSet{Columns: rs.Columns}
	idx := rs.ColumnIndex(models.ColumnBarcode)

	for i, row := range rs.Rows {
		barcode := rs.Get(i, models.ColumnBarcode)
		if idx < 0 || barcode.Null {
			rejected++
			continue
		}
		if _, ok := existing[barcode.Value]; ok {
			skipped++
			continue
		}
		fresh.Rows = append(fresh.Rows, row)
	}
	return fresh, skipped, rejected
}
