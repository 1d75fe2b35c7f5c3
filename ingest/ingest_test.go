// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/barcode-trace/csvsource"
	"github.com/danielhkuo/barcode-trace/models"
	"github.com/danielhkuo/barcode-trace/testutil"
)

func TestRun_AppendsNewRows(t *testing.T) {
	table := testutil.SetupTestTable(t)
	dir := t.TempDir()
	a := testutil.WriteCSV(t, dir, "a.csv", "BARCODE,Judgement\n123,OK\n")
	b := testutil.WriteCSV(t, dir, "b.csv", "BARCODE,Judgement\n456,BB\n")

	report, err := New(table, nil).Run(context.Background(), []string{a, b})
	require.NoError(t, err)

	assert.NotEmpty(t, report.PassID)
	assert.Equal(t, 2, report.Inserted())
	require.Len(t, report.Files, 2)
	assert.Equal(t, "a.csv", report.Files[0].File)
	assert.Positive(t, report.Files[0].Size)

	rs, err := table.FindByBarcode(context.Background(), "123")
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())
	assert.Equal(t, "a", rs.Get(0, models.ColumnSourceFile).Text())
	assert.Equal(t, "OK", rs.Get(0, models.ColumnJudgement).Text())
}

func TestRun_Idempotent(t *testing.T) {
	table := testutil.SetupTestTable(t)
	dir := t.TempDir()
	files := []string{
		testutil.WriteCSV(t, dir, "a.csv", "BARCODE,Judgement\n1,OK\n2,BB\n"),
		testutil.WriteCSV(t, dir, "b.csv", "BARCODE,Judgement\n3,\n"),
	}
	in := New(table, nil)
	ctx := context.Background()

	_, err := in.Run(ctx, files)
	require.NoError(t, err)
	first, err := table.Count(ctx)
	require.NoError(t, err)

	report, err := in.Run(ctx, files)
	require.NoError(t, err)
	second, err := table.Count(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, first)
	assert.Equal(t, first, second)
	assert.Zero(t, report.Inserted())
	assert.Equal(t, 2, report.Files[0].Skipped)
}

func TestRun_NeverReinsertsExistingBarcodes(t *testing.T) {
	table := testutil.SetupTestTable(t)
	ctx := context.Background()
	dir := t.TempDir()

	old := testutil.WriteCSV(t, dir, "old.csv", "BARCODE,Judgement\n1,OK\n")
	_, err := New(table, nil).Run(ctx, []string{old})
	require.NoError(t, err)

	// Same barcode, different judgement: the stored row wins
	newer := testutil.WriteCSV(t, dir, "new.csv", "BARCODE,Judgement\n1,BB\n2,OK\n")
	report, err := New(table, nil).Run(ctx, []string{newer})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted())
	assert.Equal(t, 1, report.Files[0].Skipped)

	rs, err := table.FindByBarcode(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())
	assert.Equal(t, "OK", rs.Get(0, models.ColumnJudgement).Text())
	assert.Equal(t, "old", rs.Get(0, models.ColumnSourceFile).Text())
}

func TestRun_EarlierFileInSamePassWins(t *testing.T) {
	table := testutil.SetupTestTable(t)
	ctx := context.Background()
	dir := t.TempDir()
	a := testutil.WriteCSV(t, dir, "a.csv", "BARCODE,Judgement\n7,OK\n")
	b := testutil.WriteCSV(t, dir, "b.csv", "BARCODE,Judgement\n7,BB\n")

	report, err := New(table, nil).Run(ctx, []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted())
	assert.Equal(t, 1, report.Files[1].Skipped)

	rs, err := table.FindByBarcode(ctx, "7")
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())
	assert.Equal(t, "a", rs.Get(0, models.ColumnSourceFile).Text())
}

func TestRun_DuplicatesWithinOneFileKept(t *testing.T) {
	table := testutil.SetupTestTable(t)
	ctx := context.Background()
	a := testutil.WriteCSV(t, t.TempDir(), "a.csv", "BARCODE,Judgement\n7,OK\n7,BB\n")

	report, err := New(table, nil).Run(ctx, []string{a})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted())

	rs, err := table.FindByBarcode(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, 2, rs.Len())
}

func TestRun_RejectsEmptyBarcodes(t *testing.T) {
	table := testutil.SetupTestTable(t)
	ctx := context.Background()
	a := testutil.WriteCSV(t, t.TempDir(), "a.csv", "BARCODE,Judgement\n,OK\n5,OK\n")

	report, err := New(table, nil).Run(ctx, []string{a})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted())
	assert.Equal(t, 1, report.Files[0].Rejected)
}

func TestRun_ReconcilesNewColumns(t *testing.T) {
	table := testutil.SetupTestTable(t)
	ctx := context.Background()
	a := testutil.WriteCSV(t, t.TempDir(), "a.csv", "BARCODE,Station,Judgement\n1,S4,OK\n")

	report, err := New(table, nil).Run(ctx, []string{a})
	require.NoError(t, err)
	assert.Equal(t, []string{"Station"}, report.Files[0].AddedColumns)

	rs, err := table.FindByBarcode(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "S4", rs.Get(0, "Station").Text())
}

func TestRun_SourceFileHeaderInOtherCase(t *testing.T) {
	table := testutil.SetupTestTable(t)
	ctx := context.Background()
	a := testutil.WriteCSV(t, t.TempDir(), "a.csv", "BARCODE,Source_File,Judgement\n1,x,OK\n")

	report, err := New(table, nil).Run(ctx, []string{a})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted())
	assert.Empty(t, report.Files[0].AddedColumns)

	rs, err := table.FindByBarcode(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())
	assert.Equal(t, "a", rs.Get(0, models.ColumnSourceFile).Text())
}

func TestRun_FailingFileDoesNotStopPass(t *testing.T) {
	table := testutil.SetupTestTable(t)
	ctx := context.Background()
	dir := t.TempDir()
	bad := testutil.WriteCSV(t, dir, "bad.csv", "ID,Judgement\n1,OK\n")
	good := testutil.WriteCSV(t, dir, "good.csv", "BARCODE,Judgement\n2,OK\n")

	report, err := New(table, nil).Run(ctx, []string{bad, good})
	require.Error(t, err)
	assert.ErrorIs(t, err, csvsource.ErrMissingBarcode)
	assert.Contains(t, err.Error(), "bad.csv")

	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "bad.csv", report.Failed()[0].File)
	assert.Equal(t, 1, report.Inserted())
}

func TestRun_MissingFile(t *testing.T) {
	table := testutil.SetupTestTable(t)

	report, err := New(table, nil).Run(context.Background(), []string{filepath.Join(t.TempDir(), "gone.csv")})
	require.Error(t, err)
	assert.Len(t, report.Failed(), 1)
}

type failingStore struct {
	ensureErr error
	appendErr error
	appended  int
}

func (s *failingStore) EnsureTable(context.Context) error { return s.ensureErr }

func (s *failingStore) Barcodes(context.Context) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func (s *failingStore) AddMissingColumns(context.Context, []string) ([]string, error) {
	return nil, nil
}

func (s *failingStore) Append(_ context.Context, rs models.RowSet) (int, error) {
	if s.appendErr != nil {
		return 0, s.appendErr
	}
	s.appended += rs.Len()
	return rs.Len(), nil
}

func TestRun_EnsureTableFailureAborts(t *testing.T) {
	boom := errors.New("disk full")
	store := &failingStore{ensureErr: boom}
	a := testutil.WriteCSV(t, t.TempDir(), "a.csv", "BARCODE\n1\n")

	report, err := New(store, nil).Run(context.Background(), []string{a})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, report.Files)
	assert.Zero(t, store.appended)
}

func TestRun_AppendFailureReported(t *testing.T) {
	boom := errors.New("readonly database")
	store := &failingStore{appendErr: boom}
	a := testutil.WriteCSV(t, t.TempDir(), "a.csv", "BARCODE\n1\n")

	report, err := New(store, nil).Run(context.Background(), []string{a})
	assert.ErrorIs(t, err, boom)
	require.Len(t, report.Files, 1)
	assert.Equal(t, 1, report.Files[0].Parsed)
	assert.Zero(t, report.Files[0].Inserted)
}

func TestRun_CancelledContext(t *testing.T) {
	store := &failingStore{}
	a := testutil.WriteCSV(t, t.TempDir(), "a.csv", "BARCODE\n1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(store, nil).Run(ctx, []string{a})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.appended)
}
