// Package summarizer provides summary generation for layout runs.
package summarizer

import (
	"time"

	"github.com/user/jgallery/pkg/pipeline"
)

// Summary contains all data collected during a layout run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Screenshot source
	Source SourceInfo

	// Layout settings
	Settings Settings

	// Computed layout
	Layout LayoutInfo

	// Written files
	Output OutputInfo
}

// SourceInfo describes the probed screenshot directory.
type SourceInfo struct {
	Dir        string
	ItemCount  int
	Unreadable []string // Refs that fell back to a square ratio
}

// Settings contains the layout configuration.
type Settings struct {
	Mode            string
	Preset          string
	ContainerWidth  float64
	Gap             float64
	TargetRowHeight float64
	MaxRowHeight    float64
}

// RowInfo summarizes one justified row.
type RowInfo struct {
	Items     int
	Height    float64
	Scale     float64
	Last      bool
	Saturated bool
}

// LayoutInfo contains the computed layout.
type LayoutInfo struct {
	Placements int
	Height     float64
	Columns    int // Masonry only
	Rows       []RowInfo
	Dropped    []string
}

// OutputInfo contains information about the written files.
type OutputInfo struct {
	LayoutPath   string
	LayoutSize   int64
	PreviewPath  string
	Placeholders int
	DurationMs   int64
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets the screenshot source.
func (b *Builder) WithSource(dir string, itemCount int, unreadable []string) *Builder {
	b.summary.Source = SourceInfo{
		Dir:        dir,
		ItemCount:  itemCount,
		Unreadable: unreadable,
	}
	return b
}

// WithSettings sets layout settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithLayout records a computed layout and the refs it dropped.
func (b *Builder) WithLayout(result pipeline.LayoutResult, dropped []string) *Builder {
	info := LayoutInfo{
		Placements: len(result.Placements),
		Height:     result.Height,
		Columns:    result.Columns,
		Dropped:    dropped,
	}
	for _, row := range result.Rows {
		info.Rows = append(info.Rows, RowInfo{
			Items:     len(row.Items),
			Height:    row.Height,
			Scale:     row.Scale,
			Last:      row.Last,
			Saturated: row.Saturated,
		})
	}
	b.summary.Layout = info
	return b
}

// WithOutput sets output file information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
