// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/user/jgallery/pkg/orchestrator"
	"github.com/user/jgallery/pkg/pipeline"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for jgallery.
type Config struct {
	// Input/Output
	Dir         string   `yaml:"dir"`
	Patterns    []string `yaml:"patterns"`
	OutputPath  string   `yaml:"output"`
	PreviewPath string   `yaml:"preview"`

	// Layout
	Mode    string        `yaml:"mode"`
	Gallery GalleryConfig `yaml:"gallery"`
	Solver  SolverConfig  `yaml:"solver"`
	Masonry MasonryConfig `yaml:"masonry"`

	// Items
	Items ItemsConfig `yaml:"items"`

	// Preview
	PreviewPadding int         `yaml:"preview_padding"`
	Theme          ThemeConfig `yaml:"theme"`

	// Live hosts
	Watch  WatchConfig  `yaml:"watch"`
	Chrome ChromeConfig `yaml:"chrome"`

	// Manifest
	Manifest ManifestConfig `yaml:"manifest"`

	Workers int `yaml:"workers"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// GalleryConfig represents the container geometry.
type GalleryConfig struct {
	Width           float64 `yaml:"width"`
	PaddingLeft     float64 `yaml:"padding_left"`
	PaddingRight    float64 `yaml:"padding_right"`
	Gap             float64 `yaml:"gap"`
	TargetRowHeight float64 `yaml:"target_row_height"`
	MaxRowHeight    float64 `yaml:"max_row_height"` // 0 = 1.2 x target
}

// SolverConfig represents the justified row solver settings.
type SolverConfig struct {
	DeferTolerance float64 `yaml:"defer_tolerance"` // px of row width, not a scale
	Iterations     int     `yaml:"iterations"`
}

// MasonryConfig represents the masonry grid settings.
type MasonryConfig struct {
	Columns        int     `yaml:"columns"`
	MinColumnWidth float64 `yaml:"min_column_width"`
	RowUnit        float64 `yaml:"row_unit"`
	RowGap         float64 `yaml:"row_gap"` // Negative = gallery gap
	MaxItemHeight  float64 `yaml:"max_item_height"`
}

// ItemsConfig represents per-item width clamps.
type ItemsConfig struct {
	MinWidth  float64                         `yaml:"min_width"`
	MaxWidth  float64                         `yaml:"max_width"`
	Overrides map[string]pipeline.WidthBounds `yaml:"overrides"` // Keyed by file name or doublestar pattern
}

// ThemeConfig represents preview colors.
type ThemeConfig struct {
	BackgroundColor  string `yaml:"background_color"`
	PlaceholderColor string `yaml:"placeholder_color"`
	BorderColor      string `yaml:"border_color"`
	TextColor        string `yaml:"text_color"`
}

// WatchConfig represents the directory watch settings.
type WatchConfig struct {
	FrameIntervalMs int `yaml:"frame_interval_ms"`
}

// ChromeConfig represents the live page host settings.
type ChromeConfig struct {
	URL           string `yaml:"url"`
	Selector      string `yaml:"selector"`
	ItemSelector  string `yaml:"item_selector"`
	ChromePath    string `yaml:"chrome_path"`
	Headless      bool   `yaml:"headless"`
	ViewportWidth int    `yaml:"viewport_width"`
	TimeoutMs     int    `yaml:"timeout_ms"`
}

// ManifestConfig represents the screenshot manifest settings.
type ManifestConfig struct {
	Output   string   `yaml:"output"`
	Captions string   `yaml:"captions"`
	Patterns []string `yaml:"patterns"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Patterns: pipeline.DefaultImagePatterns,

		// Layout
		Mode: string(pipeline.ModeJustified),
		Gallery: GalleryConfig{
			Width:           1200,
			Gap:             8,
			TargetRowHeight: pipeline.DefaultTargetRowHeight,
		},
		Solver: SolverConfig{
			DeferTolerance: pipeline.DefaultDeferTolerance,
			Iterations:     pipeline.DefaultIterations,
		},
		Masonry: MasonryConfig{
			MinColumnWidth: 240,
			RowUnit:        8,
			RowGap:         -1,
			MaxItemHeight:  640,
		},

		// Preview
		Theme: ThemeConfig{
			BackgroundColor:  "#f5f5f5",
			PlaceholderColor: "#c8c8c8",
			BorderColor:      "#b4b4b4",
			TextColor:        "#3c3c3c",
		},

		// Live hosts
		Watch: WatchConfig{
			FrameIntervalMs: 16,
		},
		Chrome: ChromeConfig{
			Selector:      ".jg-gallery",
			ItemSelector:  ".jg-item",
			Headless:      true,
			ViewportWidth: 1280,
			TimeoutMs:     30000,
		},

		Workers: 4,

		// Debug
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate reports configuration values no layout can be computed with.
func (c Config) Validate() error {
	var errs []error
	switch pipeline.Mode(c.Mode) {
	case pipeline.ModeJustified, pipeline.ModeMasonry, "":
	default:
		errs = append(errs, fmt.Errorf("mode: unknown value %q", c.Mode))
	}
	if c.Gallery.Width < 0 {
		errs = append(errs, fmt.Errorf("gallery.width: must not be negative, got %v", c.Gallery.Width))
	}
	if c.Gallery.Gap < 0 {
		errs = append(errs, fmt.Errorf("gallery.gap: must not be negative, got %v", c.Gallery.Gap))
	}
	if c.Gallery.MaxRowHeight > 0 && c.Gallery.TargetRowHeight > 0 && c.Gallery.MaxRowHeight < c.Gallery.TargetRowHeight {
		errs = append(errs, fmt.Errorf("gallery.max_row_height: %v is below target_row_height %v",
			c.Gallery.MaxRowHeight, c.Gallery.TargetRowHeight))
	}
	if c.Items.MaxWidth > 0 && c.Items.MaxWidth < c.Items.MinWidth {
		errs = append(errs, fmt.Errorf("items.max_width: %v is below min_width %v", c.Items.MaxWidth, c.Items.MinWidth))
	}
	if c.Masonry.Columns < 0 {
		errs = append(errs, fmt.Errorf("masonry.columns: must not be negative, got %d", c.Masonry.Columns))
	}
	for _, s := range []string{c.Theme.BackgroundColor, c.Theme.PlaceholderColor, c.Theme.BorderColor, c.Theme.TextColor} {
		if s != "" && !ValidColor(s) {
			errs = append(errs, fmt.Errorf("theme: invalid color %q", s))
		}
	}
	return errors.Join(errs...)
}

// ValidColor reports whether s is a #rrggbb hex color.
func ValidColor(hex string) bool {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return false
	}
	for i := 0; i < len(hex); i++ {
		if _, ok := hexValue(hex[i]); !ok {
			return false
		}
	}
	return true
}

// ParseColor parses a hex color string to color.Color.
// Malformed values yield black.
func ParseColor(hex string) color.Color {
	if !ValidColor(hex) {
		return color.Black
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var rgb [3]uint8
	for i := range rgb {
		hi, _ := hexValue(hex[2*i])
		lo, _ := hexValue(hex[2*i+1])
		rgb[i] = hi<<4 | lo
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// FrameInterval returns the watch frame interval.
func (c Config) FrameInterval() time.Duration {
	if c.Watch.FrameIntervalMs <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(c.Watch.FrameIntervalMs) * time.Millisecond
}

// ToLayoutInput converts the layout settings to a pipeline.LayoutInput without items.
func (c Config) ToLayoutInput() pipeline.LayoutInput {
	return pipeline.LayoutInput{
		Mode: pipeline.Mode(c.Mode),
		Gallery: pipeline.Gallery{
			ContainerWidth:  c.Gallery.Width,
			PaddingLeft:     c.Gallery.PaddingLeft,
			PaddingRight:    c.Gallery.PaddingRight,
			Gap:             c.Gallery.Gap,
			TargetRowHeight: c.Gallery.TargetRowHeight,
			MaxRowHeight:    c.Gallery.MaxRowHeight,
		}.Normalize(),
		DeferTolerance: c.Solver.DeferTolerance,
		Iterations:     c.Solver.Iterations,
		Masonry: pipeline.MasonryOptions{
			Columns:        c.Masonry.Columns,
			MinColumnWidth: c.Masonry.MinColumnWidth,
			RowUnit:        c.Masonry.RowUnit,
			RowGap:         c.Masonry.RowGap,
			MaxItemHeight:  c.Masonry.MaxItemHeight,
		},
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	in := c.ToLayoutInput()
	return orchestrator.Config{
		Dir:         c.Dir,
		Patterns:    c.Patterns,
		OutputPath:  c.OutputPath,
		PreviewPath: c.PreviewPath,

		Mode:            in.Mode,
		ContainerWidth:  in.Gallery.ContainerWidth,
		PaddingLeft:     in.Gallery.PaddingLeft,
		PaddingRight:    in.Gallery.PaddingRight,
		Gap:             in.Gallery.Gap,
		TargetRowHeight: in.Gallery.TargetRowHeight,
		MaxRowHeight:    in.Gallery.MaxRowHeight,
		DeferTolerance:  in.DeferTolerance,
		Iterations:      in.Iterations,
		Masonry:         in.Masonry,

		MinWidth:  c.Items.MinWidth,
		MaxWidth:  c.Items.MaxWidth,
		Overrides: c.Items.Overrides,

		PreviewPadding:   c.PreviewPadding,
		BackgroundColor:  colorToArray(c.Theme.BackgroundColor),
		PlaceholderColor: colorToArray(c.Theme.PlaceholderColor),
		BorderColor:      colorToArray(c.Theme.BorderColor),
		TextColor:        colorToArray(c.Theme.TextColor),
	}
}

// colorToArray converts a hex color to an RGBA array. Empty stays zero so the
// default theme color applies.
func colorToArray(hex string) [4]uint8 {
	if hex == "" {
		return [4]uint8{}
	}
	r, g, b, a := ParseColor(hex).RGBA()
	return [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}
