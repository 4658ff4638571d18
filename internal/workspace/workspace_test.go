package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/tablescope/internal/actionlog"
	"github.com/KaramelBytes/tablescope/internal/config"
	"github.com/KaramelBytes/tablescope/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkspace(t *testing.T) (*Workspace, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Global{DBPath: filepath.Join(dir, "db", "app.db")}
	w, err := Open(cfg, actionlog.New())
	require.NoError(t, err)
	return w, dir
}

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func messages(w *Workspace) []string {
	var out []string
	for _, e := range w.Log().Entries() {
		out = append(out, e.Message)
	}
	return out
}

func TestImportFileNamesAndLogs(t *testing.T) {
	ctx := context.Background()
	w, dir := newWorkspace(t)
	_, err := os.Stat(filepath.Dir(w.DBPath()))
	require.NoError(t, err, "db directory should exist after Open")

	src := writeCSV(t, dir, "my sales-2024.csv", "a,b\n1,2\n3,4\n")
	name, tbl, err := w.ImportFile(ctx, src, "")
	require.NoError(t, err)
	assert.Equal(t, "my_sales_2024", name)
	assert.Equal(t, 2, tbl.Len())
	assert.True(t, w.cache.Contains(name))
	assert.Contains(t, messages(w), "CSV 'my sales-2024.csv' imported into table 'my_sales_2024'.")
}

func TestImportFailureLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	w, dir := newWorkspace(t)
	_, _, err := w.ImportFile(ctx, filepath.Join(dir, "missing.csv"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrIO)
	assert.False(t, w.cache.Contains("missing"))

	msgs := messages(w)
	require.Len(t, msgs, 1)
	assert.True(t, strings.HasPrefix(msgs[0], "CSV import failed: "), msgs[0])
}

func TestReimportRefreshesCache(t *testing.T) {
	ctx := context.Background()
	w, dir := newWorkspace(t)
	src := writeCSV(t, dir, "data.csv", "v\n1\n")
	_, _, err := w.ImportFile(ctx, src, "")
	require.NoError(t, err)
	first, err := w.Table(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Len())

	writeCSV(t, dir, "data.csv", "v\n1\n2\n3\n")
	_, _, err = w.ImportFile(ctx, src, "")
	require.NoError(t, err)
	second, err := w.Table(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, 3, second.Len())
}

func TestTablesLogsState(t *testing.T) {
	ctx := context.Background()
	w, dir := newWorkspace(t)

	names, err := w.Tables(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Contains(t, messages(w), "Database is empty (no tables).")

	_, _, err = w.ImportFile(ctx, writeCSV(t, dir, "b.csv", "x\n1\n"), "")
	require.NoError(t, err)
	_, _, err = w.ImportFile(ctx, writeCSV(t, dir, "a.csv", "x\n1\n"), "")
	require.NoError(t, err)

	names, err = w.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Contains(t, messages(w), "Found tables in database: ['a', 'b']")
}

func TestTableAndDrop(t *testing.T) {
	ctx := context.Background()
	w, dir := newWorkspace(t)
	_, _, err := w.ImportFile(ctx, writeCSV(t, dir, "t.csv", "x\n1\n"), "custom")
	require.NoError(t, err)

	_, err = w.Table(ctx, "custom")
	require.NoError(t, err)
	assert.Contains(t, messages(w), "Selected table: custom")

	require.NoError(t, w.Drop(ctx, "custom"))
	assert.False(t, w.cache.Contains("custom"))
	_, err = w.Table(ctx, "custom")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, w.Drop(ctx, "custom"), store.ErrNotFound)
}

func TestOpenRejectsBadConfig(t *testing.T) {
	cfg := &config.Global{DBPath: filepath.Join(t.TempDir(), "app.db"), Delimiter: "too long"}
	_, err := Open(cfg, nil)
	assert.Error(t, err)
}

func TestImportUnderOtherCaseRefreshesCache(t *testing.T) {
	ctx := context.Background()
	w, dir := newWorkspace(t)
	_, _, err := w.ImportFile(ctx, writeCSV(t, dir, "sales.csv", "v\n1\n"), "")
	require.NoError(t, err)
	_, err = w.Table(ctx, "sales")
	require.NoError(t, err)

	_, _, err = w.ImportFile(ctx, writeCSV(t, dir, "Sales.csv", "v\n1\n2\n3\n"), "")
	require.NoError(t, err)
	got, err := w.Table(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())
}

func TestTableLogsFirstLoadOnly(t *testing.T) {
	ctx := context.Background()
	w, dir := newWorkspace(t)
	_, _, err := w.ImportFile(ctx, writeCSV(t, dir, "t.csv", "x\n1\n"), "")
	require.NoError(t, err)
	w.cache.Invalidate("t")

	_, err = w.Table(ctx, "t")
	require.NoError(t, err)
	_, err = w.Table(ctx, "t")
	require.NoError(t, err)

	loads := 0
	for _, m := range messages(w) {
		if strings.HasPrefix(m, "Loaded table 't'") {
			loads++
		}
	}
	assert.Equal(t, 1, loads)
}
