package chart

// Figure is a Surface that records what was drawn.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Grid   *Grid
	Series []Series
}

var _ Surface = (*Figure)(nil)

func (f *Figure) Clear() { *f = Figure{} }

func (f *Figure) SetTitle(title string) { f.Title = title }

func (f *Figure) SetLabels(x, y string) {
	f.XLabel = x
	f.YLabel = y
}

func (f *Figure) Heatmap(g Grid) { f.Grid = &g }

func (f *Figure) Line(s Series) { f.Series = append(f.Series, s) }

// Empty reports whether nothing but a title was drawn.
func (f *Figure) Empty() bool { return f.Grid == nil && len(f.Series) == 0 }
