// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package trace runs the ingest-then-lookup workflow behind every barcode
// lookup: scan the CSV folder, merge new rows, then query by barcode.
package trace
