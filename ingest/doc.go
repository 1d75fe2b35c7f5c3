// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ingest merges CSV files into the data table.

An ingest pass ensures the table exists, then for each file: parses it,
tags rows with source_file, drops rows whose BARCODE is already stored,
adds any new columns and appends the rest in one transaction.

	in := ingest.New(table, nil)
	report, err := in.Run(ctx, files)

err joins the failure of every file that could not be ingested; the
report lists every file with its counts either way.
*/
package ingest
