// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the row types shared by ingest, lookup and rendering.

# Domain Types

  - Cell: one value, either text or NULL (displayed as "None")
  - Row: cells aligned with a column list
  - RowSet: ordered columns plus rows; a parsed CSV file or a lookup result

# Constants

Table and column names:

	TableName        = "csv_data_table"
	ColumnBarcode    = "BARCODE"
	ColumnJudgement  = "Judgement"
	ColumnSourceFile = "source_file"
*/
package models
