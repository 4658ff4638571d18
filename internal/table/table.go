// Package table holds the in-memory tabular structure shared by the store,
// the cache and the view functions.
package table

import (
	"math"
	"strings"

	"github.com/KaramelBytes/tablescope/internal/schema"
)

// Column is one typed column. Cells keeps the textual form of every value
// ("" for missing); Values is populated for numeric kinds with NaN for
// missing cells.
type Column struct {
	schema.Column
	Cells  []string
	Values []float64
}

// Table is a named, fully materialized table. Rows are addressed by their
// implicit 0-based index.
type Table struct {
	Name    string
	Columns []*Column
}

// New builds a table from header/rows using the provided descriptors.
// Short rows are padded with missing cells.
func New(name string, cols []schema.Column, rows [][]string, opt schema.Options) *Table {
	t := &Table{Name: name, Columns: make([]*Column, len(cols))}
	for j, desc := range cols {
		c := &Column{Column: desc, Cells: make([]string, len(rows))}
		if desc.Kind.IsNumeric() {
			c.Values = make([]float64, len(rows))
		}
		for i, row := range rows {
			var v string
			if j < len(row) {
				v = strings.TrimSpace(row[j])
			}
			c.Cells[i] = v
			if c.Values != nil {
				x, ok := schema.ParseNumber(v, opt)
				if !ok {
					x = math.NaN()
				}
				c.Values[i] = x
			}
		}
		t.Columns[j] = c
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Row returns the textual cells of row i.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = c.Cells[i]
	}
	return out
}
