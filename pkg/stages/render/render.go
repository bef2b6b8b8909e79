// Package render implements the preview stage: a PNG contact sheet showing
// every placement of a layout at its computed position and size.
package render

import (
	"context"
	"fmt"
	"image"
	"math"
	"path"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
)

// Stage draws layouts.
type Stage struct {
	fs         ports.FileSystem
	renderer   ports.Renderer
	sink       ports.DebugSink
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a new render stage.
func NewStage(fs ports.FileSystem, renderer ports.Renderer, sink ports.DebugSink, logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		fs:         fs,
		renderer:   renderer,
		sink:       sink,
		logger:     logger.WithComponent("render"),
		numWorkers: numWorkers,
	}
}

// tile is one placement snapped to the pixel grid.
type tile struct {
	placement  pipeline.Placement
	x, y, w, h int
	img        image.Image
}

// Execute decodes and scales item images in parallel, then draws them in
// placement order. Items that cannot be read become labelled placeholders.
func (s *Stage) Execute(ctx context.Context, input pipeline.RenderInput) (pipeline.RenderResult, error) {
	width, height := CanvasSize(input)
	s.logger.Debug("Rendering %d placements on a %dx%d canvas", len(input.Layout.Placements), width, height)

	tiles := make([]tile, len(input.Layout.Placements))
	for i, p := range input.Layout.Placements {
		tiles[i] = snap(p, input.Padding)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.numWorkers)
	for i := range tiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tiles[i].img = s.load(input.Dir, tiles[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return pipeline.RenderResult{}, fmt.Errorf("render preview: %w", err)
	}

	canvas := s.renderer.CreateCanvas(width, height, input.Theme.BackgroundColor)
	var missing []string
	for _, t := range tiles {
		if t.w <= 0 || t.h <= 0 {
			continue
		}
		if t.img != nil {
			canvas.DrawImage(t.img, t.x, t.y)
			continue
		}
		missing = append(missing, t.placement.Ref)
		drawPlaceholder(canvas, t, input.Theme)
	}

	img := canvas.ToImage()
	if s.sink.Enabled() {
		if err := s.sink.SavePreview(img); err != nil {
			s.logger.Warn("Failed to save debug preview: %s", err)
		}
	}

	s.logger.Debug("Preview rendered (%d placeholders)", len(missing))
	return pipeline.RenderResult{Image: img, Missing: missing}, nil
}

func (s *Stage) load(dir string, t tile) image.Image {
	if t.w <= 0 || t.h <= 0 || t.placement.Ref == "" {
		return nil
	}
	data, err := s.fs.ReadFile(filepath.Join(dir, filepath.FromSlash(t.placement.Ref)))
	if err != nil {
		s.logger.Warn("Could not read %s, drawing a placeholder: %s", t.placement.Ref, err)
		return nil
	}
	img, err := s.renderer.DecodeImage(data, ports.FormatAuto)
	if err != nil {
		s.logger.Warn("Could not read %s, drawing a placeholder: %s", t.placement.Ref, err)
		return nil
	}
	return s.renderer.ResizeImage(img, t.w, t.h)
}

// CanvasSize returns the preview dimensions: the requested width, or the
// right edge of the widest placement, by the content height plus padding.
func CanvasSize(input pipeline.RenderInput) (int, int) {
	width := input.Width
	if width <= 0 {
		right := input.Layout.InnerWidth
		for _, p := range input.Layout.Placements {
			right = math.Max(right, p.X+p.Width)
		}
		width = int(math.Ceil(right))
	}
	height := int(math.Ceil(input.Layout.Height)) + 2*input.Padding
	return max(width, 1), max(height, 1)
}

// snap rounds edges rather than sizes so adjacent tiles keep their gaps.
func snap(p pipeline.Placement, padding int) tile {
	x0 := int(math.Round(p.X))
	y0 := int(math.Round(p.Y)) + padding
	x1 := int(math.Round(p.X + p.Width))
	y1 := int(math.Round(p.Y+p.Height)) + padding
	return tile{placement: p, x: x0, y: y0, w: x1 - x0, h: y1 - y0}
}

func drawPlaceholder(canvas ports.Canvas, t tile, theme pipeline.RenderTheme) {
	canvas.DrawRect(t.x, t.y, t.w, t.h, theme.PlaceholderColor)
	canvas.DrawRectStroke(t.x, t.y, t.w, t.h, theme.BorderColor, 1)

	label := path.Base(t.placement.Ref)
	if t.placement.Ref == "" {
		label = fmt.Sprintf("#%d", t.placement.Index)
	}
	style := ports.TextStyle{
		FontSize: math.Min(14, float64(t.h)/4),
		Color:    theme.TextColor,
		Align:    ports.AlignCenter,
	}
	if w, _ := canvas.MeasureText(label, style); w > float64(t.w) {
		return
	}
	canvas.DrawText(label, t.x+t.w/2, t.y+t.h/2, style)
}

// Ensure Stage implements pipeline.RenderStage
var _ pipeline.RenderStage = (*Stage)(nil)
