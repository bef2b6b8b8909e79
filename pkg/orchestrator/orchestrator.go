// Package orchestrator coordinates the batch pipeline: probe a screenshot
// directory, lay the items out, write the layout document and optionally a
// preview image.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
	"github.com/user/jgallery/pkg/stages/layout"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input/Output
	Dir         string
	Patterns    []string
	OutputPath  string
	PreviewPath string // Empty disables the preview

	// Layout
	Mode            pipeline.Mode
	ContainerWidth  float64
	PaddingLeft     float64
	PaddingRight    float64
	Gap             float64
	TargetRowHeight float64
	MaxRowHeight    float64
	DeferTolerance  float64
	Iterations      int
	Masonry         pipeline.MasonryOptions

	// Items
	MinWidth  float64
	MaxWidth  float64
	Overrides map[string]pipeline.WidthBounds

	// Preview style
	PreviewPadding   int
	BackgroundColor  [4]uint8 // RGBA
	PlaceholderColor [4]uint8 // RGBA
	BorderColor      [4]uint8 // RGBA
	TextColor        [4]uint8 // RGBA
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Patterns: pipeline.DefaultImagePatterns,

		Mode:            pipeline.ModeJustified,
		ContainerWidth:  1200,
		Gap:             8,
		TargetRowHeight: pipeline.DefaultTargetRowHeight,
		MaxRowHeight:    pipeline.DefaultTargetRowHeight * pipeline.DefaultMaxRowFactor,
		DeferTolerance:  pipeline.DefaultDeferTolerance,
		Iterations:      pipeline.DefaultIterations,
		Masonry:         pipeline.DefaultMasonryOptions(),
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	probeStage  pipeline.ProbeStage
	layoutStage pipeline.LayoutStage
	renderStage pipeline.RenderStage
	renderer    ports.Renderer
	fs          ports.FileSystem
	sink        ports.DebugSink
	logger      ports.Logger
}

// New creates a new Orchestrator.
func New(
	probeStage pipeline.ProbeStage,
	layoutStage pipeline.LayoutStage,
	renderStage pipeline.RenderStage,
	renderer ports.Renderer,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		probeStage:  probeStage,
		layoutStage: layoutStage,
		renderStage: renderStage,
		renderer:    renderer,
		fs:          fs,
		sink:        sink,
		logger:      logger,
	}
}

// Run executes the complete pipeline.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	start := time.Now()
	o.logger.Info(l10n.T("Starting pipeline"))

	// 1. Discover items
	o.logger.Info(l10n.F("Probing images in %s", config.Dir))
	probe, err := o.probeStage.Execute(ctx, config.ProbeInput())
	if err != nil {
		o.logger.Error(l10n.F("Failed to probe images: %s", err))
		return RunResult{}, fmt.Errorf("probe stage: %w", err)
	}
	if len(probe.Items) == 0 {
		o.logger.Warn(l10n.F("No images found in %s", config.Dir))
	} else {
		o.logger.Info(l10n.F("Found %d images", len(probe.Items)))
	}
	for _, ref := range probe.Failed {
		o.logger.Warn(l10n.F("Could not read %s, treated as square", ref))
	}

	// 2. Layout calculation
	o.logger.Info(l10n.T("Calculating layout"))
	layoutInput := config.LayoutInput(probe.Items)
	result, err := o.layoutStage.Execute(ctx, layoutInput)
	if err != nil {
		o.logger.Error(l10n.F("Failed to calculate layout: %s", err))
		return RunResult{}, fmt.Errorf("layout stage: %w", err)
	}
	o.logger.Info(l10n.F("Layout calculated: %d placements, %.0fpx tall", len(result.Placements), result.Height))

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(result, "", "  "); err == nil {
			o.sink.SaveLayoutJSON(data)
		}
		o.sink.SaveLayoutSVG(layout.RenderSVG(result, layoutInput.Gallery.ContainerWidth))
	}

	// 3. Write layout document
	doc := pipeline.NewLayoutDocument(layoutInput.Gallery, probe.Items, result)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return RunResult{}, fmt.Errorf("encode layout: %w", err)
	}
	if config.OutputPath != "" {
		if err := o.fs.WriteFile(config.OutputPath, data); err != nil {
			o.logger.Error(l10n.F("Failed to write output: %s", err))
			return RunResult{}, fmt.Errorf("write output: %w", err)
		}
		o.logger.Info(l10n.F("Layout written to %s", config.OutputPath))
	}

	runResult := RunResult{
		Dir:        config.Dir,
		Gallery:    layoutInput.Gallery,
		Items:      probe.Items,
		Failed:     probe.Failed,
		Layout:     result,
		Dropped:    doc.Dropped,
		OutputPath: config.OutputPath,
		OutputSize: int64(len(data)),
	}

	// 4. Preview (optional)
	if config.PreviewPath != "" {
		o.logger.Info(l10n.T("Rendering preview"))
		rendered, err := o.renderStage.Execute(ctx, pipeline.RenderInput{
			Layout:  result,
			Dir:     config.Dir,
			Width:   int(layoutInput.Gallery.ContainerWidth),
			Padding: config.PreviewPadding,
			Theme:   config.RenderTheme(),
		})
		if err != nil {
			o.logger.Error(l10n.F("Failed to render preview: %s", err))
			return RunResult{}, fmt.Errorf("render stage: %w", err)
		}
		png, err := o.renderer.EncodeImage(rendered.Image, ports.FormatPNG, 0)
		if err != nil {
			return RunResult{}, fmt.Errorf("encode preview: %w", err)
		}
		if err := o.fs.WriteFile(config.PreviewPath, png); err != nil {
			o.logger.Error(l10n.F("Failed to write preview: %s", err))
			return RunResult{}, fmt.Errorf("write preview: %w", err)
		}
		runResult.PreviewPath = config.PreviewPath
		runResult.Placeholders = rendered.Missing
		o.logger.Info(l10n.F("Preview written to %s", config.PreviewPath))
	}

	runResult.DurationMs = time.Since(start).Milliseconds()
	o.logger.Info(l10n.T("Pipeline completed successfully"))
	return runResult, nil
}

// ProbeInput returns the probe settings of the config.
func (c Config) ProbeInput() pipeline.ProbeInput {
	return pipeline.ProbeInput{
		Dir:       c.Dir,
		Patterns:  c.Patterns,
		MinWidth:  c.MinWidth,
		MaxWidth:  c.MaxWidth,
		Overrides: c.Overrides,
	}
}

// LayoutInput returns the layout input for items.
func (c Config) LayoutInput(items []pipeline.Item) pipeline.LayoutInput {
	return pipeline.LayoutInput{
		Mode: c.Mode,
		Gallery: pipeline.Gallery{
			ContainerWidth:  c.ContainerWidth,
			PaddingLeft:     c.PaddingLeft,
			PaddingRight:    c.PaddingRight,
			Gap:             c.Gap,
			TargetRowHeight: c.TargetRowHeight,
			MaxRowHeight:    c.MaxRowHeight,
		}.Normalize(),
		Items:          items,
		DeferTolerance: c.DeferTolerance,
		Iterations:     c.Iterations,
		Masonry:        c.Masonry,
	}
}

// RenderTheme returns the default preview theme with the configured colors
// applied. Unset colors keep their defaults.
func (c Config) RenderTheme() pipeline.RenderTheme {
	theme := pipeline.DefaultRenderTheme()
	if c.BackgroundColor != [4]uint8{} {
		theme.BackgroundColor = rgbaFromArray(c.BackgroundColor)
	}
	if c.PlaceholderColor != [4]uint8{} {
		theme.PlaceholderColor = rgbaFromArray(c.PlaceholderColor)
	}
	if c.BorderColor != [4]uint8{} {
		theme.BorderColor = rgbaFromArray(c.BorderColor)
	}
	if c.TextColor != [4]uint8{} {
		theme.TextColor = rgbaFromArray(c.TextColor)
	}
	return theme
}

func rgbaFromArray(c [4]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	// Input
	Dir     string
	Gallery pipeline.Gallery
	Items   []pipeline.Item
	Failed  []string // Refs whose header could not be read

	// Layout
	Layout  pipeline.LayoutResult
	Dropped []string // Refs excluded for unusable ratios

	// Output
	OutputPath   string
	OutputSize   int64
	PreviewPath  string
	Placeholders []string // Refs drawn as placeholders in the preview

	DurationMs int64
}
