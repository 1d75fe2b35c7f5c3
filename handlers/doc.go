// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers for the barcode lookup
page.

# Handler Types

TraceHandler serves both pages. It is created with the trace service and
the renderer:

	h := handlers.NewTraceHandler(svc, renderer)

# Lookup Flow

	GET  /         → Index (barcode form)
	POST /result/  → Result (ingest pass, lookup, render)

Result never hides a failure behind a blank page:

  - no CSV files: JSON {"error": "No CSV files found in the specified folder."}
  - no match: "No row found for BARCODE <value>."
  - failed files: rendered as warnings above the result
  - lookup error: "Error: ..." with status 500
*/
package handlers
