// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/barcode-trace/testutil"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func commonArgs(t *testing.T, dir string) []string {
	return []string{
		"-csv-dir", dir,
		"-d", filepath.Join(t.TempDir(), "trace.db"),
		"-env-file", "",
	}
}

func TestIngestCommand(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCSV(t, dir, "a.csv", "BARCODE,Judgement\n123,OK\n456,BB\n")

	out, err := execute(t, ingestCmd(), commonArgs(t, dir)...)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if !strings.Contains(out, "a.csv") || !strings.Contains(out, "2 inserted") {
		t.Errorf("Expected per-file summary, got: %s", out)
	}
	if !strings.Contains(out, "Loaded 2 new rows from 1 files") {
		t.Errorf("Expected pass summary, got: %s", out)
	}
}

func TestIngestCommand_NoCSVFiles(t *testing.T) {
	out, err := execute(t, ingestCmd(), commonArgs(t, t.TempDir())...)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if !strings.Contains(out, "No CSV files found in the specified folder.") {
		t.Errorf("Expected no files message, got: %s", out)
	}
}

func TestLookupCommand(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCSV(t, dir, "a.csv", "BARCODE,Judgement\n123,OK\n")

	tests := []struct {
		name     string
		barcode  string
		contains string
	}{
		{"found", "123", "source_file"},
		{"not found", "999", "No row found for BARCODE 999."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(commonArgs(t, dir), tt.barcode)
			out, err := execute(t, lookupCmd(), args...)
			if err != nil {
				t.Fatalf("lookup failed: %v", err)
			}
			if !strings.Contains(out, tt.contains) {
				t.Errorf("Expected output to contain %q, got: %s", tt.contains, out)
			}
		})
	}
}

func TestLookupCommand_RequiresBarcode(t *testing.T) {
	_, err := execute(t, lookupCmd(), commonArgs(t, t.TempDir())...)
	if err == nil {
		t.Fatal("Expected error without a barcode")
	}
}

func TestCommand_MissingCSVDir(t *testing.T) {
	t.Setenv("CSV_DIR", "")
	_, err := execute(t, ingestCmd(), "-env-file", "", "-d", filepath.Join(t.TempDir(), "trace.db"))
	if err == nil {
		t.Fatal("Expected error without a CSV directory")
	}
}
