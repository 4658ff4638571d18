package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/tablescope/internal/chart"
	"github.com/KaramelBytes/tablescope/internal/store"
)

// execCmd executes the root command with args and returns its stdout.
func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Reset bound variables; cobra keeps flag values across executions
	importTable, importDelimiter, importDecimal, importSheet = "", "", "", ""
	viewOutput = ""
	tablesJSON = false
	flagDBPath = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func isolate(t *testing.T) (home, db string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	return home, filepath.Join(home, "data", "db", "app.db")
}

func writeFile(t *testing.T, path, body string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestCLI_Import_Tables_Views_Drop(t *testing.T) {
	home, db := isolate(t)
	sales := writeFile(t, filepath.Join(home, "sales-2024.csv"),
		"day,units,price,region\n1,10,2.5,north\n2,12,2.25,south\n3,15,2.0,north\n")
	writeFile(t, filepath.Join(home, "notes.csv"), "note\nhello\n")

	out := runCmd(t, "--db", db, "import", sales)
	if !strings.Contains(out, "table 'sales_2024' (3 rows × 4 columns)") {
		t.Fatalf("import output: %q", out)
	}
	if _, err := os.Stat(db); err != nil {
		t.Fatalf("database not created: %v", err)
	}
	runCmd(t, "--db", db, "import", filepath.Join(home, "notes.csv"), "--table", "a_notes")

	out = runCmd(t, "--db", db, "tables")
	if out != "- a_notes\n- sales_2024\n" {
		t.Fatalf("tables output: %q", out)
	}
	out = runCmd(t, "--db", db, "tables", "--json")
	if !strings.Contains(out, `"a_notes"`) || !strings.HasPrefix(out, "[") {
		t.Fatalf("tables --json output: %q", out)
	}

	statsPath := filepath.Join(home, "out", "stats.txt")
	runCmd(t, "--db", db, "stats", "sales_2024", "-o", statsPath)
	stats := readFile(t, statsPath)
	for _, want := range []string{"Shape: 3 rows × 4 columns", "units (int64)", "price (float64)", "region (object)", "describe()"} {
		if !strings.Contains(stats, want) {
			t.Fatalf("stats missing %q:\n%s", want, stats)
		}
	}

	heatPath := filepath.Join(home, "out", "heat.txt")
	runCmd(t, "--db", db, "heatmap", "sales_2024", "-o", heatPath)
	heat := readFile(t, heatPath)
	if !strings.Contains(heat, "Correlation heatmap: sales_2024") || !strings.Contains(heat, "1.00") {
		t.Fatalf("heatmap output:\n%s", heat)
	}
	if strings.Contains(heat, "\x1b[") {
		t.Fatalf("file output kept terminal escapes")
	}

	pairPath := filepath.Join(home, "out", "pair.txt")
	runCmd(t, "--db", db, "pairplot", "a_notes", "-o", pairPath)
	if got := readFile(t, pairPath); !strings.Contains(got, chart.TitleNoPairplot) {
		t.Fatalf("pairplot placeholder missing:\n%s", got)
	}

	linePath := filepath.Join(home, "out", "line.txt")
	runCmd(t, "--db", db, "line", "sales_2024", "-o", linePath)
	if got := readFile(t, linePath); !strings.Contains(got, "Line chart: day") || !strings.Contains(got, "row index") {
		t.Fatalf("line output:\n%s", got)
	}

	if _, err := execCmd(t, "--db", db, "line", "sales_2024", "region"); !errors.Is(err, chart.ErrInvalidColumn) {
		t.Fatalf("expected invalid column error, got %v", err)
	}

	runCmd(t, "--db", db, "drop", "a_notes")
	if _, err := execCmd(t, "--db", db, "stats", "a_notes"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found after drop, got %v", err)
	}
}

func TestCLI_ImportReplacesTable(t *testing.T) {
	home, db := isolate(t)
	src := writeFile(t, filepath.Join(home, "data.csv"), "v\n1\n2\n")
	runCmd(t, "--db", db, "import", src)
	writeFile(t, src, "v,w\n1,a\n2,b\n3,c\n")
	out := runCmd(t, "--db", db, "import", src)
	if !strings.Contains(out, "(3 rows × 2 columns)") {
		t.Fatalf("reimport output: %q", out)
	}
	statsPath := filepath.Join(home, "stats.txt")
	runCmd(t, "--db", db, "stats", "data", "-o", statsPath)
	if got := readFile(t, statsPath); !strings.Contains(got, "w (object)") {
		t.Fatalf("table not replaced:\n%s", got)
	}
}

func TestCLI_ImportLocaleFlags(t *testing.T) {
	home, db := isolate(t)
	src := writeFile(t, filepath.Join(home, "eu.csv"), "a;b\n1,5;2\n2,5;4\n")
	runCmd(t, "--db", db, "import", src, "--delimiter", "semicolon", "--decimal", "comma")
	statsPath := filepath.Join(home, "stats.txt")
	runCmd(t, "--db", db, "stats", "eu", "-o", statsPath)
	got := readFile(t, statsPath)
	if !strings.Contains(got, "a (float64)") || !strings.Contains(got, "b (int64)") {
		t.Fatalf("locale import:\n%s", got)
	}
}

func TestCLI_ImportFailureReturnsError(t *testing.T) {
	home, db := isolate(t)
	if _, err := execCmd(t, "--db", db, "import", filepath.Join(home, "missing.csv")); !errors.Is(err, store.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	if _, err := execCmd(t, "--db", db, "import", writeFile(t, filepath.Join(home, "x.csv"), "a\n1\n"), "--delimiter", "toolong"); err == nil {
		t.Fatalf("expected delimiter validation error")
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home, _ := isolate(t)
	runCmd(t, "config", "set", "chart_width", "40")
	runCmd(t, "config", "set", "delimiter", "semicolon")
	if _, err := os.Stat(filepath.Join(home, ".tablescope", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	for _, want := range []string{"chart_width: 40", "delimiter: semicolon", "db_path: "} {
		if !strings.Contains(out, want) {
			t.Fatalf("config show missing %q:\n%s", want, out)
		}
	}
	if _, err := execCmd(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}
