// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/danielhkuo/barcode-trace/models"
)

// Table is a handle on the CSV data table.
type Table struct {
	db      *sql.DB
	dialect Dialect
	name    string
}

func NewTable(db *sql.DB, dialect Dialect) *Table {
	return &Table{db: db, dialect: dialect, name: models.TableName}
}

func (t *Table) Name() string { return t.name }

// EnsureTable creates the table if it does not exist.
func (t *Table) EnsureTable(ctx context.Context) error {
	return createSchema(ctx, t.db)
}

// Columns returns the table's columns in declaration order. A table that
// does not exist has no columns.
func (t *Table) Columns(ctx context.Context) ([]string, error) {
	rows, err := t.db.QueryContext(ctx, t.dialect.columnsQuery(), t.name)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	return cols, nil
}

// AddMissingColumns adds every name in want that the table lacks as a TEXT
// column. Names are compared case-insensitively, as SQLite does. It
// returns the columns that were added.
func (t *Table) AddMissingColumns(ctx context.Context, want []string) ([]string, error) {
	existing, err := t.Columns(ctx)
	if err != nil {
		return nil, err
	}

	var added []string
	for _, col := range want {
		if _, ok := matchColumn(existing, col); ok {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", QuoteIdent(t.name), QuoteIdent(col))
		if _, err := t.db.ExecContext(ctx, stmt); err != nil {
			return added, fmt.Errorf("failed to add column %q: %w", col, err)
		}
		existing = append(existing, col)
		added = append(added, col)
	}
	return added, nil
}

// Barcodes returns the set of non-NULL barcodes currently stored.
func (t *Table) Barcodes(ctx context.Context) (map[string]struct{}, error) {
	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL",
		QuoteIdent(models.ColumnBarcode), QuoteIdent(t.name), QuoteIdent(models.ColumnBarcode))

	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query barcodes: %w", err)
	}
	defer rows.Close()

	barcodes := make(map[string]struct{})
	for rows.Next() {
		var barcode sql.NullString
		if err := rows.Scan(&barcode); err != nil {
			return nil, fmt.Errorf("failed to scan barcode: %w", err)
		}
		if barcode.Valid {
			barcodes[barcode.String] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating barcodes: %w", err)
	}
	return barcodes, nil
}

// Append inserts every row of rs in a single transaction and returns the
// number of rows written. All of rs.Columns must already exist.
func (t *Table) Append(ctx context.Context, rs models.RowSet) (int, error) {
	if rs.Empty() {
		return 0, nil
	}

	existing, err := t.Columns(ctx)
	if err != nil {
		return 0, err
	}

	cols := make([]string, len(rs.Columns))
	marks := make([]string, len(rs.Columns))
	for i, c := range rs.Columns {
		name, ok := matchColumn(existing, c)
		if !ok {
			return 0, fmt.Errorf("column %q does not exist in %s", c, t.name)
		}
		cols[i] = QuoteIdent(name)
		marks[i] = t.dialect.Placeholder(i + 1)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(t.name), strings.Join(cols, ", "), strings.Join(marks, ", "))

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insert.Close()

	args := make([]any, len(rs.Columns))
	for n, row := range rs.Rows {
		for i := range args {
			args[i] = nil
			if i < len(row) && !row[i].Null {
				args[i] = row[i].Value
			}
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("failed to insert row %d: %w", n+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return rs.Len(), nil
}

// FindByBarcode returns every row whose barcode equals barcode, with
// columns in table order. A missing table yields an empty set.
func (t *Table) FindByBarcode(ctx context.Context, barcode string) (models.RowSet, error) {
	existing, err := t.Columns(ctx)
	if err != nil {
		return models.RowSet{}, err
	}
	if len(existing) == 0 {
		return models.RowSet{}, nil
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s",
		QuoteIdent(t.name), QuoteIdent(models.ColumnBarcode), t.dialect.Placeholder(1))

	rows, err := t.db.QueryContext(ctx, query, barcode)
	if err != nil {
		return models.RowSet{}, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return models.RowSet{}, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := models.RowSet{Columns: cols}
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return models.RowSet{}, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(models.Row, len(cols))
		for i, v := range values {
			if v.Valid {
				row[i] = models.TextCell(v.String)
			} else {
				row[i] = models.NullCell()
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return models.RowSet{}, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

// Count returns the number of stored rows.
func (t *Table) Count(ctx context.Context) (int, error) {
	var count int
	err := t.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+QuoteIdent(t.name)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}

func matchColumn(existing []string, name string) (string, bool) {
	for _, c := range existing {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}
