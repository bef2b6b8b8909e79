package pipeline

import (
	"image"
	"image/color"
	"math"
)

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Mode selects the gallery layout strategy.
type Mode string

const (
	// ModeJustified packs items into full-width rows of equal height.
	ModeJustified Mode = "justified"
	// ModeMasonry places items on a column grid with height-driven row spans.
	ModeMasonry Mode = "masonry"
)

// Default gallery constants, matching the stylesheet fallbacks of the site.
const (
	DefaultTargetRowHeight = 160.0
	DefaultMaxRowFactor    = 1.2
	DefaultDeferTolerance  = 0.5
	DefaultIterations      = 20
)

// =============================================================================
// Layout Stage Types
// =============================================================================

// Item is one visual element to be laid out.
type Item struct {
	Index    int       `json:"index"`              // Position in the host's ordered item list
	Ref      string    `json:"ref,omitempty"`      // Stable identity of the underlying element (file name, selector index)
	Ratio    float64   `json:"ratio"`              // Width / height of the intrinsic content
	MinWidth float64   `json:"minWidth,omitempty"` // Lower width clamp (0 = none)
	MaxWidth float64   `json:"maxWidth,omitempty"` // Upper width clamp (0 = unbounded)
	Natural  Dimension `json:"natural"`            // Intrinsic pixel size when known
}

// MaxBound returns the effective upper width clamp.
func (it Item) MaxBound() float64 {
	if it.MaxWidth <= 0 {
		return math.Inf(1)
	}
	return it.MaxWidth
}

// MinBound returns the effective lower width clamp.
func (it Item) MinBound() float64 {
	if it.MinWidth < 0 {
		return 0
	}
	return it.MinWidth
}

// Valid reports whether the item's ratio can take part in a layout.
func (it Item) Valid() bool {
	return !math.IsNaN(it.Ratio) && !math.IsInf(it.Ratio, 0) && it.Ratio > 0
}

// RatioOf derives an aspect ratio from natural dimensions, falling back to
// rendered dimensions and finally to a square.
func RatioOf(naturalW, naturalH, renderedW, renderedH float64) float64 {
	if naturalW > 0 && naturalH > 0 {
		return naturalW / naturalH
	}
	if renderedW > 0 && renderedH > 0 {
		return renderedW / renderedH
	}
	return 1
}

// Gallery describes the container the items are laid out in.
type Gallery struct {
	ContainerWidth  float64 `json:"containerWidth"`
	PaddingLeft     float64 `json:"paddingLeft"`
	PaddingRight    float64 `json:"paddingRight"`
	Gap             float64 `json:"gap"`
	TargetRowHeight float64 `json:"targetRowHeight"`
	MaxRowHeight    float64 `json:"maxRowHeight"`
}

// InnerWidth returns the content width available to items.
func (g Gallery) InnerWidth() float64 {
	return g.ContainerWidth - g.PaddingLeft - g.PaddingRight
}

// Normalize fills unset row heights with their defaults.
func (g Gallery) Normalize() Gallery {
	if g.TargetRowHeight <= 0 {
		g.TargetRowHeight = DefaultTargetRowHeight
	}
	if g.MaxRowHeight <= 0 {
		g.MaxRowHeight = g.TargetRowHeight * DefaultMaxRowFactor
	}
	if g.Gap < 0 {
		g.Gap = 0
	}
	return g
}

// MasonryOptions configures the masonry grid strategy.
type MasonryOptions struct {
	Columns        int     `json:"columns"`        // Fixed column count (0 = derive from MinColumnWidth)
	MinColumnWidth float64 `json:"minColumnWidth"` // Smallest column width when deriving the count
	RowUnit        float64 `json:"rowUnit"`        // Height of one implicit grid row
	RowGap         float64 `json:"rowGap"`         // Gap between grid rows (negative = use gallery gap)
	MaxItemHeight  float64 `json:"maxItemHeight"`  // Tallest allowed item in pixels
}

// DefaultMasonryOptions returns MasonryOptions with default values.
func DefaultMasonryOptions() MasonryOptions {
	return MasonryOptions{
		Columns:        0,
		MinColumnWidth: 240,
		RowUnit:        8,
		RowGap:         -1,
		MaxItemHeight:  640,
	}
}

// LayoutInput contains everything one layout pass reads.
//
// DeferTolerance is measured in pixels of row width, not in scale units: a
// closing row keeps its last item while the inner width lies within
// DeferTolerance px of the widths reachable between its scale bounds.
type LayoutInput struct {
	Mode           Mode
	Gallery        Gallery
	Items          []Item
	DeferTolerance float64 // px of row width (default: 0.5)
	Iterations     int     // Bisection steps (default: 20)
	Masonry        MasonryOptions
}

// DefaultLayoutInput returns LayoutInput with default values.
func DefaultLayoutInput() LayoutInput {
	return LayoutInput{
		Mode: ModeJustified,
		Gallery: Gallery{
			Gap:             8,
			TargetRowHeight: DefaultTargetRowHeight,
			MaxRowHeight:    DefaultTargetRowHeight * DefaultMaxRowFactor,
		},
		DeferTolerance: DefaultDeferTolerance,
		Iterations:     DefaultIterations,
		Masonry:        DefaultMasonryOptions(),
	}
}

// RowLayout records how one justified row was resolved.
type RowLayout struct {
	Index     int     `json:"index"`
	Items     []int   `json:"items"` // Item indexes in row order
	Scale     float64 `json:"scale"`
	MinScale  float64 `json:"minScale"`
	MaxScale  float64 `json:"maxScale"`
	Height    float64 `json:"height"`
	Width     float64 `json:"width"` // Item widths plus interior gaps
	Last      bool    `json:"last"`
	Saturated bool    `json:"saturated"` // Scale pinned at a bound
}

// Placement is the size and position assigned to one item.
type Placement struct {
	Index  int     `json:"index"`
	Ref    string  `json:"ref,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Row    int     `json:"row"`
	Column int     `json:"column,omitempty"`
	Span   int     `json:"span,omitempty"`
}

// LayoutResult contains the computed gallery layout.
type LayoutResult struct {
	Mode       Mode        `json:"mode"`
	InnerWidth float64     `json:"innerWidth"`
	Height     float64     `json:"height"`            // Total content height
	Columns    int         `json:"columns,omitempty"` // Masonry column count
	Rows       []RowLayout `json:"rows,omitempty"`
	Placements []Placement `json:"placements"`
	Dropped    []int       `json:"dropped,omitempty"` // Items excluded for invalid ratios
}

// Empty reports whether nothing was laid out.
func (r LayoutResult) Empty() bool {
	return len(r.Placements) == 0
}

// =============================================================================
// Probe Stage Types
// =============================================================================

// WidthBounds overrides the width clamps of a single item.
type WidthBounds struct {
	MinWidth float64 `yaml:"min_width" json:"minWidth"`
	MaxWidth float64 `yaml:"max_width" json:"maxWidth"`
}

// ProbeInput contains parameters for reading item ratios from image files.
type ProbeInput struct {
	Dir       string
	Patterns  []string // doublestar patterns relative to Dir (default: common image types)
	Refs      []string // Explicit file list; overrides Patterns when set
	MinWidth  float64  // Default lower clamp for every item
	MaxWidth  float64  // Default upper clamp for every item (0 = unbounded)
	Overrides map[string]WidthBounds
}

// DefaultImagePatterns are the file patterns scanned for screenshots.
var DefaultImagePatterns = []string{"*.{png,jpg,jpeg,gif,webp,bmp,tiff}"}

// ProbeResult contains the discovered items.
type ProbeResult struct {
	Items  []Item
	Failed []string // Refs whose header could not be decoded (ratio fell back to 1)
}

// =============================================================================
// Render Stage Types
// =============================================================================

// RenderInput contains parameters for drawing a preview of a layout.
type RenderInput struct {
	Layout  LayoutResult
	Dir     string  // Directory item refs are relative to
	Width   int     // Canvas width (container width)
	Padding int     // Vertical padding above and below the content
	Theme   RenderTheme
}

// RenderTheme defines preview styling.
type RenderTheme struct {
	BackgroundColor  color.Color
	PlaceholderColor color.Color
	BorderColor      color.Color
	TextColor        color.Color
}

// DefaultRenderTheme returns a default preview theme.
func DefaultRenderTheme() RenderTheme {
	return RenderTheme{
		BackgroundColor:  color.RGBA{R: 245, G: 245, B: 245, A: 255},
		PlaceholderColor: color.RGBA{R: 200, G: 200, B: 200, A: 255},
		BorderColor:      color.RGBA{R: 180, G: 180, B: 180, A: 255},
		TextColor:        color.RGBA{R: 60, G: 60, B: 60, A: 255},
	}
}

// RenderResult contains the rendered preview.
type RenderResult struct {
	Image   image.Image
	Missing []string // Refs drawn as placeholders
}

// =============================================================================
// Output Document
// =============================================================================

// LayoutDocument is the JSON form of a computed layout written next to a
// screenshot directory or handed to a page that applies it.
type LayoutDocument struct {
	Mode       Mode        `json:"mode"`
	Gallery    Gallery     `json:"gallery"`
	Height     float64     `json:"height"`
	Columns    int         `json:"columns,omitempty"`
	Placements []Placement `json:"placements"`
	Rows       []RowLayout `json:"rows,omitempty"`
	Dropped    []string    `json:"dropped,omitempty"` // Refs of items excluded from the layout
}

// NewLayoutDocument builds the output document for a layout of items.
func NewLayoutDocument(g Gallery, items []Item, result LayoutResult) LayoutDocument {
	doc := LayoutDocument{
		Mode:       result.Mode,
		Gallery:    g,
		Height:     result.Height,
		Columns:    result.Columns,
		Placements: result.Placements,
		Rows:       result.Rows,
	}
	if doc.Placements == nil {
		doc.Placements = []Placement{}
	}
	if len(result.Dropped) == 0 {
		return doc
	}
	refs := make(map[int]string, len(items))
	for _, it := range items {
		refs[it.Index] = it.Ref
	}
	for _, idx := range result.Dropped {
		doc.Dropped = append(doc.Dropped, refs[idx])
	}
	return doc
}
