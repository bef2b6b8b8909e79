package jgallery

import (
	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/stages/layout"
)

// Layout computes placements for items without touching any host.
func (c Config) Layout(items []pipeline.Item) (pipeline.LayoutResult, error) {
	return layout.ComputeLayout(c.LayoutInput(items))
}

// ItemsFromRatios builds items in order from aspect ratios.
func ItemsFromRatios(ratios ...float64) []pipeline.Item {
	items := make([]pipeline.Item, len(ratios))
	for i, r := range ratios {
		items[i] = pipeline.Item{Index: i, Ratio: r}
	}
	return items
}
