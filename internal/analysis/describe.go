package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/KaramelBytes/tablescope/internal/table"
)

// ColumnStats mirrors the rows of a describe() table for one numeric column.
type ColumnStats struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Describe computes count, mean, sample std, min, quartiles and max for every
// numeric column, skipping missing values. Stats of a column with no values
// are NaN with Count 0.
func Describe(t *table.Table) []ColumnStats {
	num := NumericColumns(t)
	out := make([]ColumnStats, 0, num.Width())
	for _, c := range num.Columns {
		s := ColumnStats{Name: c.Name}
		vals := make([]float64, 0, len(c.Values))
		var mean, m2 float64
		for _, x := range c.Values {
			if math.IsNaN(x) {
				continue
			}
			vals = append(vals, x)
			// Welford update
			delta := x - mean
			mean += delta / float64(len(vals))
			m2 += delta * (x - mean)
		}
		s.Count = len(vals)
		if s.Count == 0 {
			nan := math.NaN()
			s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
			out = append(out, s)
			continue
		}
		sort.Float64s(vals)
		s.Mean = mean
		s.Std = math.NaN()
		if s.Count > 1 {
			s.Std = math.Sqrt(m2 / float64(s.Count-1))
		}
		s.Min = vals[0]
		s.Max = vals[len(vals)-1]
		s.Q25 = quantile(vals, 0.25)
		s.Q50 = quantile(vals, 0.5)
		s.Q75 = quantile(vals, 0.75)
		out = append(out, s)
	}
	return out
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Summary renders the statistics pane: shape, column dtypes, describe()
// over numeric columns and the strongest correlations.
func Summary(t *table.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Table: %s\n", t.Name)
	fmt.Fprintf(&b, "Shape: %d rows × %d columns\n\n", t.Len(), t.Width())
	b.WriteString("Columns:\n")
	for _, c := range t.Columns {
		fmt.Fprintf(&b, " - %s (%s)\n", c.Name, c.Kind)
	}
	b.WriteString("\n")

	stats := Describe(t)
	if len(stats) == 0 {
		b.WriteString("No numeric columns.\n")
		return b.String()
	}
	b.WriteString("describe() of numeric columns:\n")
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	row := func(label string, f func(ColumnStats) string) {
		fmt.Fprintf(tw, "%s\t", label)
		for _, s := range stats {
			fmt.Fprintf(tw, "%s\t", f(s))
		}
		fmt.Fprintln(tw)
	}
	row("", func(s ColumnStats) string { return s.Name })
	row("count", func(s ColumnStats) string { return fmt.Sprintf("%d", s.Count) })
	row("mean", func(s ColumnStats) string { return formatStat(s.Mean) })
	row("std", func(s ColumnStats) string { return formatStat(s.Std) })
	row("min", func(s ColumnStats) string { return formatStat(s.Min) })
	row("25%", func(s ColumnStats) string { return formatStat(s.Q25) })
	row("50%", func(s ColumnStats) string { return formatStat(s.Q50) })
	row("75%", func(s ColumnStats) string { return formatStat(s.Q75) })
	row("max", func(s ColumnStats) string { return formatStat(s.Max) })
	_ = tw.Flush()

	if pairs := CorrelationMatrix(t).TopPairs(5); len(pairs) > 0 {
		b.WriteString("\nStrongest correlations:\n")
		for _, p := range pairs {
			fmt.Fprintf(&b, " - %s ~ %s: r=%.3f\n", p.A, p.B, p.R)
		}
	}
	return b.String()
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6g", v)
}
