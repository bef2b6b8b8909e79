package layout

import (
	"github.com/user/jgallery/pkg/pipeline"
)

// Row is a group of items assigned to the same visual line.
type Row struct {
	Items []pipeline.Item
	Last  bool // Trailing row that never reached the container width
}

// Partition greedily splits items into rows.
//
// A row closes once its width at the target height reaches the inner width.
// If closing would force a scale further than tolerance pixels outside the
// row's feasible bounds, the item that overflowed the row is moved to the next
// row instead. Items with unusable ratios are returned in dropped.
func Partition(items []pipeline.Item, g pipeline.Gallery, tolerance float64) (rows []Row, dropped []int) {
	inner := g.InnerWidth()
	var current []pipeline.Item

	for _, it := range items {
		if !it.Valid() {
			dropped = append(dropped, it.Index)
			continue
		}

		current = append(current, it)
		if !fills(current, g, inner) {
			continue
		}

		if len(current) > 1 && misfits(current, g, inner, tolerance) {
			deferred := current[len(current)-1]
			rows = append(rows, Row{Items: current[:len(current)-1]})
			current = []pipeline.Item{deferred}
			if !fills(current, g, inner) {
				continue
			}
		}

		rows = append(rows, Row{Items: current})
		current = nil
	}

	if len(current) > 0 {
		rows = append(rows, Row{Items: current, Last: true})
	}
	return rows, dropped
}

// fills reports whether the row is at least as wide as inner at the target height.
func fills(row []pipeline.Item, g pipeline.Gallery, inner float64) bool {
	return RowWidth(row, g, 1)+gapTotal(g, len(row)) >= inner
}

// misfits reports whether fitting the row to inner needs a scale outside its bounds.
func misfits(row []pipeline.Item, g pipeline.Gallery, inner, tolerance float64) bool {
	available := inner - gapTotal(g, len(row))
	minScale, maxScale := Bounds(row, g, false)
	return available > RowWidth(row, g, maxScale)+tolerance ||
		available < RowWidth(row, g, minScale)-tolerance
}

func gapTotal(g pipeline.Gallery, n int) float64 {
	if n < 2 {
		return 0
	}
	return g.Gap * float64(n-1)
}
