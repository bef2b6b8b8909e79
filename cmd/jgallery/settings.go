package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/user/jgallery/pkg/config"
	"github.com/user/jgallery/pkg/jgallery"
	"github.com/user/jgallery/pkg/pipeline"
)

// loadSettings resolves the run configuration: the config file (or the
// defaults), then the device and density presets, then individual flags.
func loadSettings(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if c.IsSet("preset") || c.IsSet("density") {
		if err := applyPreset(&cfg, c.String("preset"), c.String("density")); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("mode") {
		cfg.Mode = c.String("mode")
	}
	if c.IsSet("width") {
		cfg.Gallery.Width = c.Float64("width")
	}
	if c.IsSet("gap") {
		cfg.Gallery.Gap = c.Float64("gap")
	}
	if c.IsSet("target-row-height") {
		cfg.Gallery.TargetRowHeight = c.Float64("target-row-height")
	}
	if c.IsSet("max-row-height") {
		cfg.Gallery.MaxRowHeight = c.Float64("max-row-height")
	}
	if c.IsSet("columns") {
		cfg.Masonry.Columns = c.Int("columns")
	}
	if c.IsSet("background-color") {
		cfg.Theme.BackgroundColor = c.String("background-color")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyPreset replaces the container and masonry geometry with a device
// preset, optionally adjusted by a density preset.
func applyPreset(cfg *config.Config, preset, density string) error {
	var builder *jgallery.ConfigBuilder
	switch preset {
	case "", "desktop":
		builder = jgallery.NewConfigBuilder()
	case "mobile":
		builder = jgallery.NewMobileConfigBuilder()
	default:
		return fmt.Errorf("unknown preset %q", preset)
	}

	switch jgallery.DensityPreset(density) {
	case "":
	case jgallery.DensityCompact, jgallery.DensityComfortable, jgallery.DensitySpacious:
		builder.WithDensityPreset(jgallery.DensityPreset(density))
	default:
		return fmt.Errorf("unknown density %q", density)
	}

	p := builder.Build()
	cfg.Gallery = config.GalleryConfig{
		Width:           p.ContainerWidth,
		PaddingLeft:     p.PaddingLeft,
		PaddingRight:    p.PaddingRight,
		Gap:             p.Gap,
		TargetRowHeight: p.TargetRowHeight,
		MaxRowHeight:    p.MaxRowHeight,
	}
	cfg.Masonry.MinColumnWidth = p.MinColumnWidth
	cfg.Masonry.RowUnit = p.RowUnit
	cfg.Masonry.MaxItemHeight = p.MaxItemHeight
	return nil
}

// presetName describes the presets in effect for the summary.
func presetName(c *cli.Context) string {
	name := c.String("preset")
	if name == "" && !c.IsSet("density") {
		return ""
	}
	if name == "" {
		name = "desktop"
	}
	if d := c.String("density"); d != "" {
		name += " / " + d
	}
	return name
}

// modeOf returns the effective layout mode.
func modeOf(cfg config.Config) pipeline.Mode {
	if cfg.Mode == "" {
		return pipeline.ModeJustified
	}
	return pipeline.Mode(cfg.Mode)
}
