package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsAndFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TABLESCOPE_DB_PATH", "")

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if filepath.Base(c.DBPath) != "app.db" || filepath.Base(filepath.Dir(c.DBPath)) != "db" {
		t.Fatalf("default db path = %q", c.DBPath)
	}
	if c.ChartWidth != 72 || c.ChartHeight != 12 {
		t.Fatalf("chart size = %dx%d", c.ChartWidth, c.ChartHeight)
	}

	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	c.DBPath = "/tmp/custom.db"
	if err := c.Set("delimiter", "semicolon"); err != nil {
		t.Fatalf("set delimiter: %v", err)
	}
	if err := c.Set("decimal_separator", "comma"); err != nil {
		t.Fatalf("set decimal: %v", err)
	}
	if err := Save(c, cfgPath); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.DBPath != "/tmp/custom.db" {
		t.Fatalf("db path = %q", got.DBPath)
	}
	if r, _ := got.DelimiterRune(); r != ';' {
		t.Fatalf("delimiter = %q", r)
	}
	if r, _ := got.DecimalRune(); r != ',' {
		t.Fatalf("decimal = %q", r)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".tablescope")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("db_path: /from/file.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TABLESCOPE_DB_PATH", "/from/env.db")
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DBPath != "/from/env.db" {
		t.Fatalf("db path = %q", c.DBPath)
	}
}

func TestSetRejectsBadValues(t *testing.T) {
	c := &Global{DecimalSeparator: "."}
	cases := map[string]string{
		"delimiter":         "ab",
		"decimal_separator": ";",
		"chart_width":       "-3",
		"nope":              "x",
	}
	for k, v := range cases {
		if err := c.Set(k, v); err == nil {
			t.Fatalf("Set(%q, %q) accepted", k, v)
		}
	}
	if c.DecimalSeparator != "." {
		t.Fatalf("failed set modified value: %q", c.DecimalSeparator)
	}
}

func TestParseDelimiter(t *testing.T) {
	cases := map[string]rune{"": 0, "tab": '\t', ",": ',', "|": '|', "semicolon": ';'}
	for in, want := range cases {
		got, err := ParseDelimiter(in)
		if err != nil || got != want {
			t.Fatalf("ParseDelimiter(%q) = %q, %v", in, got, err)
		}
	}
}

func TestGetCoversEveryKey(t *testing.T) {
	c := &Global{ChartWidth: 10}
	for _, k := range Keys {
		if _, err := c.Get(k); err != nil {
			t.Fatalf("Get(%q): %v", k, err)
		}
	}
	if v, _ := c.Get("chart_width"); v != "10" {
		t.Fatalf("chart_width = %q", v)
	}
}
