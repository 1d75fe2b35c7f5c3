// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/danielhkuo/barcode-trace/models"
)

var (
	ErrMissingBarcode  = errors.New("missing BARCODE column")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrEmptyFile       = errors.New("no header row")
)

const Extension = ".csv"

const bom = "\ufeff"

// ListFiles returns the regular *.csv files directly inside dir, sorted by
// file name.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !IsCSV(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// IsCSV reports whether name has the .csv extension.
func IsCSV(name string) bool {
	return strings.HasSuffix(name, Extension)
}

// SourceName is the base name of path without its extension.
func SourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadFile parses a CSV file and tags every row with its source name.
func ReadFile(path string) (models.RowSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.RowSet{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rs, err := Read(f, SourceName(path))
	if err != nil {
		return models.RowSet{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rs, nil
}

// Read parses CSV from r. The first record is the header and must contain
// a BARCODE column. Empty fields become NULL, short records are padded
// with NULL, and a source_file column set to source is appended. A header
// column already named source_file, in any case, is overwritten instead.
func Read(r io.Reader, source string) (models.RowSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return models.RowSet{}, ErrEmptyFile
	}
	if err != nil {
		return models.RowSet{}, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := normalizeHeader(header)
	if err != nil {
		return models.RowSet{}, err
	}

	sourceIdx := -1
	for i, c := range cols {
		if strings.EqualFold(c, models.ColumnSourceFile) {
			cols[i] = models.ColumnSourceFile
			sourceIdx = i
		}
	}
	width := len(cols)
	if sourceIdx < 0 {
		cols = append(cols, models.ColumnSourceFile)
		sourceIdx = width
	}

	rs := models.RowSet{Columns: cols}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.RowSet{}, fmt.Errorf("failed to read record: %w", err)
		}
		if len(record) > width {
			return models.RowSet{}, fmt.Errorf("line %d: expected %d fields, saw %d", line, width, len(record))
		}

		row := make(models.Row, len(cols))
		for i := range row {
			row[i] = models.NullCell()
			if i < len(record) && record[i] != "" {
				row[i] = models.TextCell(record[i])
			}
		}
		row[sourceIdx] = models.TextCell(source)
		rs.Rows = append(rs.Rows, row)
	}

	return rs, nil
}

func normalizeHeader(header []string) ([]string, error) {
	cols := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	hasBarcode := false

	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, bom)
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		// SQLite column names are case-insensitive
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		seen[key] = true

		if name == models.ColumnBarcode {
			hasBarcode = true
		}
		cols[i] = name
	}

	if !hasBarcode {
		return nil, ErrMissingBarcode
	}
	return cols, nil
}
