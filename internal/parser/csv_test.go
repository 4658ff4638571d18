package parser_test

import (
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/tablescope/internal/parser"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
)

func TestReadFileCSV(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "sales.csv")
	content := "date,amount,region\n" +
		"2024-08-10,12.5,north\n" +
		"2024-08-12,11.8,south\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	recs, err := parser.ReadFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs.Header) != 3 || recs.Header[1] != "amount" {
		t.Fatalf("header = %#v", recs.Header)
	}
	if len(recs.Rows) != 2 || recs.Rows[1][2] != "south" {
		t.Fatalf("rows = %#v", recs.Rows)
	}
}

func TestReadFileTSVAndGzip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "m.tsv.gz")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte("a\tb\n1\t2\n3\t4\n")); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	recs, err := parser.ReadFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs.Header) != 2 || len(recs.Rows) != 2 || recs.Rows[1][0] != "3" {
		t.Fatalf("unexpected records: %#v", recs)
	}
}

// bzip2 stream of "a,b\n1,2\n3,4\n"; compress/bzip2 only decodes.
const bz2Sample = "425a6839314159265359030c1f1b0000055900001000043c0030002000221ea18843022734e3801e2ee48a70a12006183e36"

func TestReadFileCompressed(t *testing.T) {
	const body = "a,b\n1,2\n3,4\n"
	cases := []struct {
		name     string
		compress func(t *testing.T) []byte
	}{
		{"data.csv.gz", func(t *testing.T) []byte {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			writeAll(t, zw, body)
			return buf.Bytes()
		}},
		{"data.csv.bz2", func(t *testing.T) []byte {
			b, err := hex.DecodeString(bz2Sample)
			if err != nil {
				t.Fatalf("decode fixture: %v", err)
			}
			return b
		}},
		{"data.csv.xz", func(t *testing.T) []byte {
			var buf bytes.Buffer
			xw, err := xz.NewWriter(&buf)
			if err != nil {
				t.Fatalf("xz writer: %v", err)
			}
			writeAll(t, xw, body)
			return buf.Bytes()
		}},
		{"data.csv.zst", func(t *testing.T) []byte {
			var buf bytes.Buffer
			zw, err := zstd.NewWriter(&buf)
			if err != nil {
				t.Fatalf("zstd writer: %v", err)
			}
			writeAll(t, zw, body)
			return buf.Bytes()
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), tc.name)
			if err := os.WriteFile(p, tc.compress(t), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			recs, err := parser.ReadFile(p, parser.Options{})
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if len(recs.Header) != 2 || recs.Header[1] != "b" {
				t.Fatalf("header = %#v", recs.Header)
			}
			if len(recs.Rows) != 2 || recs.Rows[1][0] != "3" || recs.Rows[1][1] != "4" {
				t.Fatalf("rows = %#v", recs.Rows)
			}
		})
	}
}

func writeAll(t *testing.T, w io.WriteCloser, s string) {
	t.Helper()
	if _, err := io.WriteString(w, s); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		return p
	}

	if _, err := parser.ReadFile(write("empty.csv", ""), parser.Options{}); !errors.Is(err, parser.ErrEmpty) {
		t.Fatalf("empty: got %v", err)
	}
	if _, err := parser.ReadFile(write("dup.csv", "a,a\n1,2\n"), parser.Options{}); !errors.Is(err, parser.ErrHeader) {
		t.Fatalf("dup header: got %v", err)
	}
	if _, err := parser.ReadFile(write("ragged.csv", "a,b\n1,2,3\n"), parser.Options{}); err == nil {
		t.Fatalf("expected error for ragged row")
	}
	if _, err := parser.ReadFile(write("doc.pdf", "%PDF"), parser.Options{}); !errors.Is(err, parser.ErrUnsupported) {
		t.Fatalf("pdf: got %v", err)
	}
	if _, err := parser.ReadFile(filepath.Join(dir, "missing.csv"), parser.Options{}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestReadFileXLSX(t *testing.T) {
	x := excelize.NewFile()
	defer func() { _ = x.Close() }()
	if _, err := x.NewSheet("Data"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	cells := map[string]any{"A1": "name", "B1": "score", "A2": "alpha", "B2": 10, "A3": "beta", "B3": 12.5}
	for ref, v := range cells {
		if err := x.SetCellValue("Data", ref, v); err != nil {
			t.Fatalf("set %s: %v", ref, err)
		}
	}
	p := filepath.Join(t.TempDir(), "book.xlsx")
	if err := x.SaveAs(p); err != nil {
		t.Fatalf("save: %v", err)
	}

	recs, err := parser.ReadFile(p, parser.Options{Sheet: "data"})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs.Header) != 2 || recs.Header[1] != "score" {
		t.Fatalf("header = %#v", recs.Header)
	}
	if len(recs.Rows) != 2 || recs.Rows[1][1] != "12.5" {
		t.Fatalf("rows = %#v", recs.Rows)
	}

	if _, err := parser.ReadFile(p, parser.Options{Sheet: "nope"}); err == nil {
		t.Fatalf("expected error for unknown sheet")
	}
}

func TestTableNameFromPath(t *testing.T) {
	cases := map[string]string{
		"/data/sales.csv":         "sales",
		"my data-2024.csv":        "my_data_2024",
		"/x/metrics.tsv.gz":       "metrics",
		"report.v2.xlsx":          "report_v2",
		"plain":                   "plain",
		"/tmp/Ünïcode name.csv":   "Ünïcode_name",
	}
	for in, want := range cases {
		if got := parser.TableNameFromPath(in); got != want {
			t.Errorf("TableNameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
