// Package store persists named tables in a single-file SQLite database.
// Every operation opens its own connection and closes it before returning.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/tablescope/internal/parser"
	"github.com/KaramelBytes/tablescope/internal/schema"
	"github.com/KaramelBytes/tablescope/internal/table"
	_ "modernc.org/sqlite"
)

var (
	// ErrIO marks failures reading or parsing the source file.
	ErrIO = errors.New("source read failed")
	// ErrStorage marks failures talking to the database.
	ErrStorage = errors.New("storage failed")
	// ErrNotFound is returned by Read for unknown table names.
	ErrNotFound = errors.New("table not found")
)

const insertBatch = 500

// ImportOptions tunes how source files are parsed on import.
type ImportOptions struct {
	Parser parser.Options
	Schema schema.Options
}

// Store is a handle on the database file. It holds no open connection.
type Store struct {
	path string
	opt  ImportOptions
}

// New ensures the directory holding dbPath exists and returns a Store.
func New(dbPath string, opt ImportOptions) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrStorage)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: mkdir db dir: %v", ErrStorage, err)
	}
	return &Store{path: dbPath, opt: opt}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite %s: %v", ErrStorage, s.path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: open sqlite %s: %v", ErrStorage, s.path, err)
	}
	return db, nil
}

// Import reads the source file at path and stores it as tableName,
// replacing any existing table of that name. It returns the loaded table.
func (s *Store) Import(ctx context.Context, path, tableName string) (*table.Table, error) {
	if strings.TrimSpace(tableName) == "" {
		return nil, fmt.Errorf("%w: empty table name", ErrStorage)
	}
	recs, err := parser.ReadFile(path, s.opt.Parser)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, filepath.Base(path), err)
	}
	cols := schema.Infer(recs.Header, recs.Rows, s.opt.Schema)
	t := table.New(tableName, cols, recs.Rows, s.opt.Schema)

	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := writeTable(ctx, db, t); err != nil {
		return nil, fmt.Errorf("%w: write %s: %v", ErrStorage, tableName, err)
	}
	return t, nil
}

func writeTable(ctx context.Context, db *sql.DB, t *table.Table) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	name := quoteIdent(t.Name)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	defs := make([]string, t.Width())
	for j, c := range t.Columns {
		defs[j] = quoteIdent(c.Name) + " " + c.Kind.DeclType()
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", t.Width()), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, t.Width())
	for i := 0; i < t.Len(); i++ {
		for j, c := range t.Columns {
			args[j] = cellValue(c, i)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
		if (i+1)%insertBatch == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// cellValue converts a cell to the driver value matching its column kind.
// Missing cells become NULL.
func cellValue(c *table.Column, i int) any {
	raw := c.Cells[i]
	if raw == "" {
		return nil
	}
	switch c.Kind {
	case schema.KindInteger:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	case schema.KindReal:
		if v := c.Values[i]; !math.IsNaN(v) {
			return v
		}
	}
	return raw
}

// ListTables returns the user tables in the database ordered by name.
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: list tables: %v", ErrStorage, err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scan table name: %v", ErrStorage, err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list tables: %v", ErrStorage, err)
	}
	return out, nil
}

// Read returns the full contents of tableName.
func (s *Store) Read(ctx context.Context, tableName string) (*table.Table, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	stored, ok, err := lookup(ctx, db, tableName)
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, tableName)
	}
	tableName = stored

	cols, err := declaredColumns(ctx, db, tableName)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectAll(tableName, cols))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, tableName, err)
	}
	defer rows.Close()

	var data [][]string
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrStorage, tableName, err)
		}
		rec := make([]string, len(cols))
		for j, v := range vals {
			rec[j] = formatValue(v)
		}
		data = append(data, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, tableName, err)
	}
	return table.New(tableName, cols, data, schema.Options{}), nil
}

// Drop removes tableName. Dropping an unknown table is ErrNotFound.
func (s *Store) Drop(ctx context.Context, tableName string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, ok, err := lookup(ctx, db, tableName); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, tableName)
	}
	if _, err := db.ExecContext(ctx, "DROP TABLE "+quoteIdent(tableName)); err != nil {
		return fmt.Errorf("%w: drop %s: %v", ErrStorage, tableName, err)
	}
	return nil
}

// lookup finds tableName the way SQLite resolves identifiers, ignoring
// ASCII case, and returns the name as stored.
func lookup(ctx context.Context, db *sql.DB, tableName string) (string, bool, error) {
	var stored string
	err := db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name = ? COLLATE NOCASE LIMIT 1`, tableName).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: lookup %s: %v", ErrStorage, tableName, err)
	}
	return stored, true, nil
}

// declaredColumns reads column names and declared types in table order.
func declaredColumns(ctx context.Context, db *sql.DB, tableName string) ([]schema.Column, error) {
	rows, err := db.QueryContext(ctx, "SELECT name, type FROM pragma_table_info(?) ORDER BY cid", tableName)
	if err != nil {
		return nil, fmt.Errorf("%w: table info %s: %v", ErrStorage, tableName, err)
	}
	defer rows.Close()
	var cols []schema.Column
	for rows.Next() {
		var name, decl string
		if err := rows.Scan(&name, &decl); err != nil {
			return nil, fmt.Errorf("%w: table info %s: %v", ErrStorage, tableName, err)
		}
		cols = append(cols, schema.Column{Name: name, Kind: schema.KindFromDeclType(decl)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: table info %s: %v", ErrStorage, tableName, err)
	}
	return cols, nil
}

// selectAll reads datetime columns back as their stored text so the driver
// does not reinterpret them as time.Time.
func selectAll(tableName string, cols []schema.Column) string {
	exprs := make([]string, len(cols))
	for i, c := range cols {
		q := quoteIdent(c.Name)
		if c.Kind == schema.KindDatetime {
			exprs[i] = "CAST(" + q + " AS TEXT) AS " + q
		} else {
			exprs[i] = q
		}
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), quoteIdent(tableName))
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
