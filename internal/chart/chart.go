// Package chart draws heatmaps and line charts onto a Surface. Drawing
// functions only emit structured data; a Surface implementation decides how
// (or whether) it is displayed.
package chart

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/tablescope/internal/analysis"
	"github.com/KaramelBytes/tablescope/internal/table"
)

// ErrInvalidColumn is returned by DrawLine for absent or non-numeric columns.
var ErrInvalidColumn = errors.New("invalid column")

// Placeholder titles for degenerate inputs.
const (
	TitleNoHeatmap  = "Not enough numeric columns"
	TitleNoPairplot = "Not enough numeric columns for pairplot"
	TitleNoLine     = "No numeric columns for line chart"
	TitlePairplot   = "Correlations (simplified view instead of pairplot)"
)

// Grid is an annotated heatmap: Values[i][j] is row i, column j.
type Grid struct {
	Rows   []string
	Cols   []string
	Values [][]float64
	Labels [][]string
}

// Series is a single line: Y[i] is plotted at X[i]. NaN values are gaps.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

// Surface receives drawing calls.
type Surface interface {
	Clear()
	SetTitle(title string)
	SetLabels(x, y string)
	Heatmap(g Grid)
	Line(s Series)
}

// HeatmapTitle is the title used for the heatmap of a table.
func HeatmapTitle(tableName string) string {
	return "Correlation heatmap: " + tableName
}

// DrawHeatmap clears s and draws m with cells labelled to two decimals.
// An empty matrix only sets a placeholder title.
func DrawHeatmap(s Surface, m analysis.CorrMatrix, title string) {
	s.Clear()
	if m.IsEmpty() {
		s.SetTitle(TitleNoHeatmap)
		return
	}
	g := Grid{
		Rows:   append([]string(nil), m.Columns...),
		Cols:   append([]string(nil), m.Columns...),
		Values: make([][]float64, len(m.Values)),
		Labels: make([][]string, len(m.Values)),
	}
	for i, row := range m.Values {
		g.Values[i] = append([]float64(nil), row...)
		g.Labels[i] = make([]string, len(row))
		for j, v := range row {
			g.Labels[i][j] = fmt.Sprintf("%.2f", v)
		}
	}
	s.Heatmap(g)
	s.SetTitle(title)
}

// DrawPairplot draws the simplified pairplot: the correlation heatmap of t's
// numeric columns, or a placeholder when fewer than two exist.
func DrawPairplot(s Surface, t *table.Table) {
	m := analysis.CorrelationMatrix(t)
	if m.IsEmpty() {
		s.Clear()
		s.SetTitle(TitleNoPairplot)
		return
	}
	DrawHeatmap(s, m, TitlePairplot)
}

// DrawLine clears s and plots column values against the 0-based row index.
func DrawLine(s Surface, t *table.Table, column string) error {
	c, ok := t.Column(column)
	if !ok {
		return fmt.Errorf("%w: %q not in %s", ErrInvalidColumn, column, t.Name)
	}
	if !c.Kind.IsNumeric() {
		return fmt.Errorf("%w: %q is %s, not numeric", ErrInvalidColumn, column, c.Kind)
	}
	s.Clear()
	xs := make([]float64, len(c.Values))
	for i := range xs {
		xs[i] = float64(i)
	}
	s.Line(Series{Name: column, X: xs, Y: append([]float64(nil), c.Values...)})
	s.SetTitle("Line chart: " + column)
	s.SetLabels("row index", column)
	return nil
}

// DrawEmptyLine shows the placeholder used when a table has no numeric columns.
func DrawEmptyLine(s Surface) {
	s.Clear()
	s.SetTitle(TitleNoLine)
}
