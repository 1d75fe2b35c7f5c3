// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Well-known column names
const (
	ColumnBarcode    = "BARCODE"
	ColumnJudgement  = "Judgement"
	ColumnSourceFile = "source_file"
)

// TableName is the single relation every CSV row is appended to.
const TableName = "csv_data_table"

// NullText is how a NULL cell is displayed.
const NullText = "None"

// Domain types

// Cell is one value of a row. A NULL database value or an empty CSV field
// has Null set and displays as NullText.
type Cell struct {
	Value string `json:"value"`
	Null  bool   `json:"null,omitempty"`
}

// Text returns the display form of the cell
func (c Cell) Text() string {
	if c.Null {
		return NullText
	}
	return c.Value
}

func TextCell(v string) Cell { return Cell{Value: v} }

func NullCell() Cell { return Cell{Null: true} }

// Row is aligned with RowSet.Columns
type Row []Cell

// RowSet is an ordered set of columns and the rows under them.
type RowSet struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows
func (rs RowSet) Len() int { return len(rs.Rows) }

// Empty reports whether the set holds no rows
func (rs RowSet) Empty() bool { return len(rs.Rows) == 0 }

// ColumnIndex returns the position of name in Columns, or -1.
func (rs RowSet) ColumnIndex(name string) int {
	for i, c := range rs.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Get returns the cell of row i under column name. Missing columns read as NULL.
func (rs RowSet) Get(i int, name string) Cell {
	idx := rs.ColumnIndex(name)
	if idx < 0 || i < 0 || i >= len(rs.Rows) || idx >= len(rs.Rows[i]) {
		return NullCell()
	}
	return rs.Rows[i][idx]
}

// Response types

type ErrorResponse struct {
	Error string `json:"error"`
}
