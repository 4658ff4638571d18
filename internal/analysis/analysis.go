// Package analysis derives numeric views from an in-memory table: the
// numeric sub-table, Pearson correlations and describe-style statistics.
// Every function is pure and leaves its input untouched.
package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/tablescope/internal/table"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
// The zero value is the empty matrix returned when fewer than two numeric
// columns exist.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// IsEmpty reports whether the matrix is the degenerate empty result.
func (m CorrMatrix) IsEmpty() bool { return len(m.Columns) < 2 }

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// TopPairs lists off-diagonal pairs ordered by |r| descending, skipping
// undefined coefficients. limit <= 0 means all.
func (m CorrMatrix) TopPairs(limit int) []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

// NumericColumns returns the sub-table of numeric columns in original order.
// Column data is shared with t, not copied.
func NumericColumns(t *table.Table) *table.Table {
	out := &table.Table{Name: t.Name}
	for _, c := range t.Columns {
		if c.Kind.IsNumeric() {
			out.Columns = append(out.Columns, c)
		}
	}
	return out
}

// NumericColumnNames is a convenience for populating column selectors.
func NumericColumnNames(t *table.Table) []string {
	return NumericColumns(t).ColumnNames()
}

// pearson returns the correlation of paired samples, or NaN when it is
// undefined (fewer than two pairs or a constant side). Sums are taken over
// deviations from the mean so large offsets do not cancel out.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}
	constX, constY := true, true
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
		constX = constX && xs[i] == xs[0]
		constY = constY && ys[i] == ys[0]
	}
	if constX || constY {
		return math.NaN()
	}
	mx /= float64(n)
	my /= float64(n)

	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	denom := math.Sqrt(sxx) * math.Sqrt(syy)
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return math.NaN()
	}
	return math.Max(-1, math.Min(1, sxy/denom))
}

// CorrelationMatrix computes pairwise Pearson correlation between every pair
// of numeric columns, using rows where both values are present. It returns
// the empty matrix when fewer than two numeric columns exist.
func CorrelationMatrix(t *table.Table) CorrMatrix {
	num := NumericColumns(t)
	n := num.Width()
	if n < 2 {
		return CorrMatrix{}
	}
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for a := 0; a < n; a++ {
		xs := num.Columns[a].Values
		for b := a + 1; b < n; b++ {
			ys := num.Columns[b].Values
			px, py := make([]float64, 0, len(xs)), make([]float64, 0, len(xs))
			for i := range xs {
				if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
					continue
				}
				px = append(px, xs[i])
				py = append(py, ys[i])
			}
			r := pearson(px, py)
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return CorrMatrix{Columns: num.ColumnNames(), Values: mat}
}
