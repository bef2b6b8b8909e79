package layout

import (
	"math"

	"github.com/user/jgallery/pkg/pipeline"
)

// Resolution is the outcome of solving one row's scale.
type Resolution struct {
	Scale     float64
	MinScale  float64
	MaxScale  float64
	Saturated bool // Scale sits on a bound and the row does not match the available width
}

// Height returns the rendered row height for the resolved scale.
func (r Resolution) Height(g pipeline.Gallery) float64 {
	return math.Max(1, r.Scale*g.TargetRowHeight)
}

// ItemWidth returns the item's width at scale s, clamped to its own bounds.
// The minimum wins when an item's bounds are inverted.
func ItemWidth(it pipeline.Item, g pipeline.Gallery, s float64) float64 {
	w := s * it.Ratio * g.TargetRowHeight
	return math.Max(it.MinBound(), math.Min(w, it.MaxBound()))
}

// RowWidth returns the summed item widths at scale s, without gaps.
// It is monotonically non-decreasing in s.
func RowWidth(row []pipeline.Item, g pipeline.Gallery, s float64) float64 {
	total := 0.0
	for _, it := range row {
		total += ItemWidth(it, g, s)
	}
	return total
}

// Bounds returns the feasible scale interval for a row.
//
// minScale is the largest scale forced by any item's minimum width, floored at 0.
// maxScale is the smallest scale allowed by any item's maximum width, capped at
// maxRowHeight/targetRowHeight, and at 1 for the last row. An inverted interval
// is collapsed onto minScale.
func Bounds(row []pipeline.Item, g pipeline.Gallery, last bool) (minScale, maxScale float64) {
	maxScale = g.MaxRowHeight / g.TargetRowHeight
	for _, it := range row {
		natural := it.Ratio * g.TargetRowHeight
		if natural <= 0 {
			continue
		}
		if s := it.MinBound() / natural; s > minScale {
			minScale = s
		}
		if mw := it.MaxBound(); !math.IsInf(mw, 1) {
			if s := mw / natural; s < maxScale {
				maxScale = s
			}
		}
	}
	if last && maxScale > 1 {
		maxScale = 1
	}
	if maxScale < minScale {
		maxScale = minScale
	}
	return minScale, maxScale
}

// ResolveScale finds the scale at which the row's width matches available,
// honoring the row's bounds. Between the bounds the width function is solved by
// bisection for a fixed number of iterations.
func ResolveScale(row []pipeline.Item, g pipeline.Gallery, available float64, last bool, iterations int) Resolution {
	minScale, maxScale := Bounds(row, g, last)
	res := Resolution{MinScale: minScale, MaxScale: maxScale}

	if w := RowWidth(row, g, minScale); available <= w {
		res.Scale = minScale
		res.Saturated = available < w
		return res
	}
	if w := RowWidth(row, g, maxScale); available >= w {
		res.Scale = maxScale
		res.Saturated = available > w
		return res
	}

	if iterations <= 0 {
		iterations = pipeline.DefaultIterations
	}
	lo, hi := minScale, maxScale
	for i := 0; i < iterations; i++ {
		mid := (lo + hi) / 2
		if RowWidth(row, g, mid) < available {
			lo = mid
		} else {
			hi = mid
		}
	}
	res.Scale = (lo + hi) / 2
	return res
}
