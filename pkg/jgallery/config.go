// Package jgallery provides a high-level API for laying out screenshot galleries.
package jgallery

import (
	"image/color"

	"github.com/user/jgallery/pkg/orchestrator"
	"github.com/user/jgallery/pkg/pipeline"
)

// DensityPreset represents a row density preset name.
type DensityPreset string

const (
	DensityCompact     DensityPreset = "compact"
	DensityComfortable DensityPreset = "comfortable"
	DensitySpacious    DensityPreset = "spacious"
)

// DensitySettings contains the row geometry of a density preset.
type DensitySettings struct {
	TargetRowHeight float64
	Gap             float64
}

// GetDensitySettings returns density settings for the given preset.
func GetDensitySettings(preset DensityPreset) DensitySettings {
	switch preset {
	case DensityCompact:
		return DensitySettings{
			TargetRowHeight: 120,
			Gap:             4,
		}
	case DensitySpacious:
		return DensitySettings{
			TargetRowHeight: 220,
			Gap:             16,
		}
	default: // comfortable
		return DensitySettings{
			TargetRowHeight: pipeline.DefaultTargetRowHeight,
			Gap:             8,
		}
	}
}

// Config represents the configuration for a gallery layout.
type Config struct {
	Mode pipeline.Mode // justified or masonry

	// Container
	ContainerWidth  float64 // Container width in CSS pixels
	PaddingLeft     float64
	PaddingRight    float64
	Gap             float64 // Gap between items and rows
	TargetRowHeight float64 // Height rows are sized around
	MaxRowHeight    float64 // Tallest allowed row (0 = 1.2 x target)

	// Items
	MinWidth float64 // Default lower width clamp
	MaxWidth float64 // Default upper width clamp (0 = unbounded)

	// Masonry
	Columns        int     // Fixed column count (0 = derive from MinColumnWidth)
	MinColumnWidth float64 // Smallest column when deriving the count
	RowUnit        float64 // Grid row height
	MaxItemHeight  float64 // Tallest masonry item

	// Solver
	DeferTolerance float64 // Row width in px (not scale) a closing row may miss its bounds by
	Iterations     int     // Bisection steps

	// Preview style
	BackgroundColor  color.Color
	PlaceholderColor color.Color
	Padding          int // Preview padding above and below the content
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new ConfigBuilder with desktop preset defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: desktopDefaults(),
	}
}

// NewMobileConfigBuilder creates a new ConfigBuilder with mobile preset defaults.
func NewMobileConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: mobileDefaults(),
	}
}

// desktopDefaults returns the desktop preset configuration.
func desktopDefaults() Config {
	return Config{
		Mode: pipeline.ModeJustified,

		// Container
		ContainerWidth:  1200,
		Gap:             8,
		TargetRowHeight: pipeline.DefaultTargetRowHeight,

		// Masonry
		MinColumnWidth: 240,
		RowUnit:        8,
		MaxItemHeight:  640,

		// Solver
		DeferTolerance: pipeline.DefaultDeferTolerance,
		Iterations:     pipeline.DefaultIterations,

		// Style
		BackgroundColor:  color.RGBA{R: 245, G: 245, B: 245, A: 255}, // #f5f5f5
		PlaceholderColor: color.RGBA{R: 200, G: 200, B: 200, A: 255}, // #c8c8c8
	}
}

// mobileDefaults returns the mobile preset configuration.
func mobileDefaults() Config {
	return Config{
		Mode: pipeline.ModeJustified,

		// Container
		ContainerWidth:  390,
		PaddingLeft:     12,
		PaddingRight:    12,
		Gap:             4,
		TargetRowHeight: 120,

		// Masonry
		MinColumnWidth: 160,
		RowUnit:        4,
		MaxItemHeight:  480,

		// Solver
		DeferTolerance: pipeline.DefaultDeferTolerance,
		Iterations:     pipeline.DefaultIterations,

		// Style
		BackgroundColor:  color.RGBA{R: 245, G: 245, B: 245, A: 255}, // #f5f5f5
		PlaceholderColor: color.RGBA{R: 200, G: 200, B: 200, A: 255}, // #c8c8c8
	}
}

// Build returns the final Config, applying validation and constraints.
func (b *ConfigBuilder) Build() Config {
	cfg := b.config

	if cfg.Mode == "" {
		cfg.Mode = pipeline.ModeJustified
	}

	// Enforce a positive target row height
	if cfg.TargetRowHeight <= 0 {
		cfg.TargetRowHeight = pipeline.DefaultTargetRowHeight
	}

	// The max row height falls back to 1.2 x target and never undercuts it
	if cfg.MaxRowHeight <= 0 {
		cfg.MaxRowHeight = cfg.TargetRowHeight * pipeline.DefaultMaxRowFactor
	}
	if cfg.MaxRowHeight < cfg.TargetRowHeight {
		cfg.MaxRowHeight = cfg.TargetRowHeight
	}

	if cfg.Gap < 0 {
		cfg.Gap = 0
	}
	if cfg.Columns < 0 {
		cfg.Columns = 0
	}
	if cfg.Iterations < 1 {
		cfg.Iterations = 1
	}
	if cfg.DeferTolerance < 0 {
		cfg.DeferTolerance = 0
	}

	return cfg
}

// WithMode sets the layout strategy.
func (b *ConfigBuilder) WithMode(mode pipeline.Mode) *ConfigBuilder {
	b.config.Mode = mode
	return b
}

// WithContainerWidth sets the container width.
func (b *ConfigBuilder) WithContainerWidth(width float64) *ConfigBuilder {
	b.config.ContainerWidth = width
	return b
}

// WithPadding sets the left and right container padding.
func (b *ConfigBuilder) WithPadding(left, right float64) *ConfigBuilder {
	b.config.PaddingLeft = left
	b.config.PaddingRight = right
	return b
}

// WithGap sets the gap between items and rows.
// Negative values will be forced to 0.
func (b *ConfigBuilder) WithGap(gap float64) *ConfigBuilder {
	b.config.Gap = gap
	return b
}

// WithTargetRowHeight sets the height rows are sized around.
func (b *ConfigBuilder) WithTargetRowHeight(height float64) *ConfigBuilder {
	b.config.TargetRowHeight = height
	return b
}

// WithMaxRowHeight sets the tallest allowed row.
// Values below the target row height will be raised to it.
func (b *ConfigBuilder) WithMaxRowHeight(height float64) *ConfigBuilder {
	b.config.MaxRowHeight = height
	return b
}

// WithDensityPreset applies a density preset (compact, comfortable, spacious).
func (b *ConfigBuilder) WithDensityPreset(preset DensityPreset) *ConfigBuilder {
	settings := GetDensitySettings(preset)
	b.config.TargetRowHeight = settings.TargetRowHeight
	b.config.Gap = settings.Gap
	b.config.MaxRowHeight = 0
	return b
}

// WithItemWidth sets the default item width clamps. Use 0 for no upper bound.
func (b *ConfigBuilder) WithItemWidth(minWidth, maxWidth float64) *ConfigBuilder {
	b.config.MinWidth = minWidth
	b.config.MaxWidth = maxWidth
	return b
}

// WithColumns sets a fixed masonry column count.
// Use 0 to derive the count from the minimum column width.
func (b *ConfigBuilder) WithColumns(columns int) *ConfigBuilder {
	b.config.Columns = columns
	return b
}

// WithMinColumnWidth sets the smallest masonry column width.
func (b *ConfigBuilder) WithMinColumnWidth(width float64) *ConfigBuilder {
	b.config.MinColumnWidth = width
	return b
}

// WithRowUnit sets the masonry grid row height.
func (b *ConfigBuilder) WithRowUnit(unit float64) *ConfigBuilder {
	b.config.RowUnit = unit
	return b
}

// WithMaxItemHeight sets the tallest masonry item.
func (b *ConfigBuilder) WithMaxItemHeight(height float64) *ConfigBuilder {
	b.config.MaxItemHeight = height
	return b
}

// WithDeferTolerance sets how many pixels a closing row may miss its scale bounds by.
func (b *ConfigBuilder) WithDeferTolerance(px float64) *ConfigBuilder {
	b.config.DeferTolerance = px
	return b
}

// WithIterations sets the number of bisection steps per row.
func (b *ConfigBuilder) WithIterations(n int) *ConfigBuilder {
	b.config.Iterations = n
	return b
}

// WithBackgroundColor sets the preview background color.
func (b *ConfigBuilder) WithBackgroundColor(c color.Color) *ConfigBuilder {
	b.config.BackgroundColor = c
	return b
}

// WithPlaceholderColor sets the preview placeholder color.
func (b *ConfigBuilder) WithPlaceholderColor(c color.Color) *ConfigBuilder {
	b.config.PlaceholderColor = c
	return b
}

// WithPreviewPadding sets the preview padding above and below the content.
func (b *ConfigBuilder) WithPreviewPadding(padding int) *ConfigBuilder {
	b.config.Padding = padding
	return b
}

// Gallery returns the container geometry of the config.
func (c Config) Gallery() pipeline.Gallery {
	return pipeline.Gallery{
		ContainerWidth:  c.ContainerWidth,
		PaddingLeft:     c.PaddingLeft,
		PaddingRight:    c.PaddingRight,
		Gap:             c.Gap,
		TargetRowHeight: c.TargetRowHeight,
		MaxRowHeight:    c.MaxRowHeight,
	}.Normalize()
}

// LayoutInput returns a layout input for items using this config.
func (c Config) LayoutInput(items []pipeline.Item) pipeline.LayoutInput {
	return pipeline.LayoutInput{
		Mode:           c.Mode,
		Gallery:        c.Gallery(),
		Items:          items,
		DeferTolerance: c.DeferTolerance,
		Iterations:     c.Iterations,
		Masonry:        c.masonry(),
	}
}

func (c Config) masonry() pipeline.MasonryOptions {
	return pipeline.MasonryOptions{
		Columns:        c.Columns,
		MinColumnWidth: c.MinColumnWidth,
		RowUnit:        c.RowUnit,
		RowGap:         -1,
		MaxItemHeight:  c.MaxItemHeight,
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig(dir, outputPath string) orchestrator.Config {
	g := c.Gallery()
	return orchestrator.Config{
		Dir:        dir,
		Patterns:   pipeline.DefaultImagePatterns,
		OutputPath: outputPath,

		// Layout
		Mode:            c.Mode,
		ContainerWidth:  g.ContainerWidth,
		PaddingLeft:     g.PaddingLeft,
		PaddingRight:    g.PaddingRight,
		Gap:             g.Gap,
		TargetRowHeight: g.TargetRowHeight,
		MaxRowHeight:    g.MaxRowHeight,
		DeferTolerance:  c.DeferTolerance,
		Iterations:      c.Iterations,
		Masonry:         c.masonry(),

		// Items
		MinWidth: c.MinWidth,
		MaxWidth: c.MaxWidth,

		// Style
		PreviewPadding:   c.Padding,
		BackgroundColor:  colorToArray(c.BackgroundColor),
		PlaceholderColor: colorToArray(c.PlaceholderColor),
	}
}

// colorToArray converts color.Color to [4]uint8 array. Nil stays zero.
func colorToArray(c color.Color) [4]uint8 {
	if c == nil {
		return [4]uint8{}
	}
	r, g, b, a := c.RGBA()
	return [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}
