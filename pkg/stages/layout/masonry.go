package layout

import (
	"math"

	"github.com/user/jgallery/pkg/pipeline"
)

// Masonry places items on a fixed column grid. Each item gets a row span
// derived from its height at column width; no width solving is involved.
type Masonry struct{}

// Mode implements Strategy.
func (Masonry) Mode() pipeline.Mode {
	return pipeline.ModeMasonry
}

// Layout implements Strategy.
func (Masonry) Layout(input pipeline.LayoutInput) pipeline.LayoutResult {
	g := input.Gallery.Normalize()
	inner := g.InnerWidth()
	result := pipeline.LayoutResult{
		Mode:       pipeline.ModeMasonry,
		InnerWidth: inner,
		Placements: []pipeline.Placement{},
	}
	if inner <= 0 || len(input.Items) == 0 {
		return result
	}

	opts := normalizeMasonry(input.Masonry, g)
	cols, colWidth := masonryColumns(opts, g, inner)
	unit := opts.RowUnit + opts.RowGap
	maxSpan := MaxSpan(opts)

	// next holds the first free grid line of every column.
	next := make([]int, cols)
	for _, it := range input.Items {
		if !it.Valid() {
			result.Dropped = append(result.Dropped, it.Index)
			continue
		}

		width := math.Max(it.MinBound(), math.Min(colWidth, it.MaxBound()))
		span := Span(width/it.Ratio, opts, maxSpan)

		col := shortestColumn(next)
		result.Placements = append(result.Placements, pipeline.Placement{
			Index:  it.Index,
			Ref:    it.Ref,
			X:      g.PaddingLeft + float64(col)*(colWidth+g.Gap),
			Y:      float64(next[col]) * unit,
			Width:  width,
			Height: float64(span)*opts.RowUnit + float64(span-1)*opts.RowGap,
			Row:    next[col],
			Column: col,
			Span:   span,
		})
		next[col] += span
	}

	lines := 0
	for _, n := range next {
		lines = max(lines, n)
	}
	if lines > 0 {
		result.Height = float64(lines)*unit - opts.RowGap
	}
	result.Columns = cols
	return result
}

// Span converts an item height into a grid row span:
// round((height + rowGap) / (rowUnit + rowGap)), at least 1 and at most maxSpan.
func Span(height float64, opts pipeline.MasonryOptions, maxSpan int) int {
	span := int(math.Round((height + opts.RowGap) / (opts.RowUnit + opts.RowGap)))
	if span < 1 {
		span = 1
	}
	if maxSpan > 0 && span > maxSpan {
		span = maxSpan
	}
	return span
}

// MaxSpan returns the span limit implied by MaxItemHeight, or 0 when unlimited.
func MaxSpan(opts pipeline.MasonryOptions) int {
	if opts.MaxItemHeight <= 0 {
		return 0
	}
	return max(1, int(math.Round((opts.MaxItemHeight+opts.RowGap)/(opts.RowUnit+opts.RowGap))))
}

func normalizeMasonry(opts pipeline.MasonryOptions, g pipeline.Gallery) pipeline.MasonryOptions {
	defaults := pipeline.DefaultMasonryOptions()
	if opts.RowUnit <= 0 {
		opts.RowUnit = defaults.RowUnit
	}
	if opts.RowGap < 0 {
		opts.RowGap = g.Gap
	}
	if opts.MinColumnWidth <= 0 {
		opts.MinColumnWidth = defaults.MinColumnWidth
	}
	return opts
}

func masonryColumns(opts pipeline.MasonryOptions, g pipeline.Gallery, inner float64) (int, float64) {
	cols := opts.Columns
	if cols <= 0 {
		cols = int(math.Floor((inner + g.Gap) / (opts.MinColumnWidth + g.Gap)))
	}
	if cols < 1 {
		cols = 1
	}
	colWidth := (inner - g.Gap*float64(cols-1)) / float64(cols)
	if colWidth <= 0 {
		return 1, inner
	}
	return cols, colWidth
}

// shortestColumn returns the column with the lowest free line, leftmost on ties.
func shortestColumn(next []int) int {
	best := 0
	for i, n := range next {
		if n < next[best] {
			best = i
		}
	}
	return best
}
