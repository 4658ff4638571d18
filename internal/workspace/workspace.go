// Package workspace ties the store, the table cache and the action log
// together into the operations the shells expose.
package workspace

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/tablescope/internal/actionlog"
	"github.com/KaramelBytes/tablescope/internal/cache"
	"github.com/KaramelBytes/tablescope/internal/config"
	"github.com/KaramelBytes/tablescope/internal/parser"
	"github.com/KaramelBytes/tablescope/internal/schema"
	"github.com/KaramelBytes/tablescope/internal/store"
	"github.com/KaramelBytes/tablescope/internal/table"
)

// Workspace is the session state shared by the CLI and the terminal shell.
type Workspace struct {
	store *store.Store
	cache *cache.Cache
	log   *actionlog.Log
}

// Open creates the database directory and wires a store, cache and log.
func Open(cfg *config.Global, log *actionlog.Log) (*Workspace, error) {
	delim, err := cfg.DelimiterRune()
	if err != nil {
		return nil, err
	}
	dec, err := cfg.DecimalRune()
	if err != nil {
		return nil, err
	}
	s, err := store.New(cfg.DBPath, store.ImportOptions{
		Parser: parser.Options{Delimiter: delim, Sheet: cfg.Sheet},
		Schema: schema.Options{DecimalSeparator: dec},
	})
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = actionlog.New()
	}
	return &Workspace{store: s, cache: cache.New(s), log: log}, nil
}

// Log returns the action log.
func (w *Workspace) Log() *actionlog.Log { return w.log }

// DBPath returns the database file in use.
func (w *Workspace) DBPath() string { return w.store.Path() }

// ImportFile imports path into a table named after the file. An empty
// tableName derives the name from the file name.
func (w *Workspace) ImportFile(ctx context.Context, path, tableName string) (string, *table.Table, error) {
	if strings.TrimSpace(tableName) == "" {
		tableName = parser.TableNameFromPath(path)
	}
	t, err := w.store.Import(ctx, path, tableName)
	if err != nil {
		w.log.Logf("CSV import failed: %v", err)
		return "", nil, err
	}
	w.cache.Invalidate(tableName)
	w.cache.Put(tableName, t)
	w.log.Logf("CSV '%s' imported into table '%s'.", filepath.Base(path), tableName)
	return tableName, t, nil
}

// Tables lists stored tables sorted by name.
func (w *Workspace) Tables(ctx context.Context) ([]string, error) {
	names, err := w.store.ListTables(ctx)
	if err != nil {
		w.log.Logf("Failed to list tables: %v", err)
		return nil, err
	}
	if len(names) == 0 {
		w.log.Log("Database is empty (no tables).")
	} else {
		w.log.Logf("Found tables in database: %s", formatNames(names))
	}
	return names, nil
}

// Table returns a table through the cache.
func (w *Workspace) Table(ctx context.Context, name string) (*table.Table, error) {
	cached := w.cache.Contains(name)
	t, err := w.cache.Get(ctx, name)
	if err != nil {
		w.log.Logf("Failed to load table '%s': %v", name, err)
		return nil, err
	}
	if !cached {
		w.log.Logf("Loaded table '%s' from database (%d rows).", t.Name, t.Len())
	}
	w.log.Logf("Selected table: %s", name)
	return t, nil
}

// Drop removes a table from the database and the cache.
func (w *Workspace) Drop(ctx context.Context, name string) error {
	if err := w.store.Drop(ctx, name); err != nil {
		w.log.Logf("Failed to drop table '%s': %v", name, err)
		return err
	}
	w.cache.Invalidate(name)
	w.log.Logf("Dropped table '%s'.", name)
	return nil
}

func formatNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("'%s'", n)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
