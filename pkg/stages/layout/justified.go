package layout

import (
	"math"

	"github.com/user/jgallery/pkg/pipeline"
)

// Justified packs items into rows that fill the inner width by scaling each
// row's height uniformly.
type Justified struct{}

// Mode implements Strategy.
func (Justified) Mode() pipeline.Mode {
	return pipeline.ModeJustified
}

// Layout implements Strategy.
//
// Placements are relative to the container: x starts at the left padding,
// y starts at the top of the content box. Rows are separated by the gap.
func (Justified) Layout(input pipeline.LayoutInput) pipeline.LayoutResult {
	g := input.Gallery.Normalize()
	inner := g.InnerWidth()
	result := pipeline.LayoutResult{
		Mode:       pipeline.ModeJustified,
		InnerWidth: inner,
		Placements: []pipeline.Placement{},
	}
	if inner <= 0 || len(input.Items) == 0 {
		return result
	}

	rows, dropped := Partition(input.Items, g, tolerance(input))
	result.Dropped = dropped

	y := 0.0
	for i, row := range rows {
		res := ResolveScale(row.Items, g, inner-gapTotal(g, len(row.Items)), row.Last, input.Iterations)
		height := res.Height(g)

		x := g.PaddingLeft
		indexes := make([]int, len(row.Items))
		for j, it := range row.Items {
			w := ItemWidth(it, g, res.Scale)
			result.Placements = append(result.Placements, pipeline.Placement{
				Index:  it.Index,
				Ref:    it.Ref,
				X:      x,
				Y:      y,
				Width:  w,
				Height: height,
				Row:    i,
			})
			indexes[j] = it.Index
			x += w + g.Gap
		}

		result.Rows = append(result.Rows, pipeline.RowLayout{
			Index:     i,
			Items:     indexes,
			Scale:     res.Scale,
			MinScale:  res.MinScale,
			MaxScale:  res.MaxScale,
			Height:    height,
			Width:     x - g.Gap - g.PaddingLeft,
			Last:      row.Last,
			Saturated: res.Saturated,
		})

		y += height
		if i < len(rows)-1 {
			y += g.Gap
		}
	}
	result.Height = y
	return result
}

func tolerance(input pipeline.LayoutInput) float64 {
	if input.DeferTolerance < 0 || math.IsNaN(input.DeferTolerance) {
		return pipeline.DefaultDeferTolerance
	}
	return input.DeferTolerance
}
