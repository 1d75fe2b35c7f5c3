// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package trace

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/barcode-trace/csvsource"
	"github.com/danielhkuo/barcode-trace/ingest"
	"github.com/danielhkuo/barcode-trace/models"
)

var ErrNoCSVFiles = errors.New("no CSV files found")

// NoCSVFilesMessage is what users see when the folder holds no CSV files.
const NoCSVFilesMessage = "No CSV files found in the specified folder."

// Lookuper finds stored rows by barcode.
type Lookuper interface {
	FindByBarcode(ctx context.Context, barcode string) (models.RowSet, error)
}

// Service ties the CSV folder, the ingestor and the table together.
type Service struct {
	dir      string
	table    Lookuper
	ingestor *ingest.Ingestor
}

func NewService(dir string, table Lookuper, ingestor *ingest.Ingestor) *Service {
	return &Service{dir: dir, table: table, ingestor: ingestor}
}

// Dir returns the watched CSV folder.
func (s *Service) Dir() string { return s.dir }

// Scan lists the CSV files currently in the folder.
func (s *Service) Scan() ([]string, error) {
	files, err := csvsource.ListFiles(s.dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoCSVFiles
	}
	return files, nil
}

// Ingest runs one ingest pass over every CSV file in the folder.
func (s *Service) Ingest(ctx context.Context) (ingest.Report, error) {
	files, err := s.Scan()
	if err != nil {
		return ingest.Report{}, err
	}
	return s.ingestor.Run(ctx, files)
}

// Lookup returns every stored row with the given barcode.
func (s *Service) Lookup(ctx context.Context, barcode string) (models.RowSet, error) {
	rs, err := s.table.FindByBarcode(ctx, barcode)
	if err != nil {
		return models.RowSet{}, fmt.Errorf("lookup %q: %w", barcode, err)
	}
	return rs, nil
}

// Result is the outcome of Trace.
type Result struct {
	Barcode   string
	Ingest    ingest.Report
	IngestErr error
	Rows      models.RowSet
}

// Trace runs an ingest pass and then looks the barcode up. ErrNoCSVFiles
// and folder listing errors are returned as is. Ingest failures are
// recorded on the result and the lookup still runs against whatever was
// stored; lookup failures are returned.
func (s *Service) Trace(ctx context.Context, barcode string) (Result, error) {
	res := Result{Barcode: barcode}

	files, err := s.Scan()
	if err != nil {
		return res, err
	}

	res.Ingest, res.IngestErr = s.ingestor.Run(ctx, files)

	res.Rows, err = s.Lookup(ctx, barcode)
	if err != nil {
		return res, err
	}
	return res, nil
}
