// Package probe implements the item discovery stage.
//
// It turns a directory of screenshots into layout items by reading each
// image header. Reading a header is the batch analogue of an image load
// event: success and failure both settle the item, and a failed item keeps
// a square ratio so it still occupies a slot.
package probe

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
)

// Stage reads item ratios from image files.
type Stage struct {
	fs         ports.FileSystem
	renderer   ports.Renderer
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a new probe stage.
func NewStage(fs ports.FileSystem, renderer ports.Renderer, logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		fs:         fs,
		renderer:   renderer,
		logger:     logger.WithComponent("probe"),
		numWorkers: numWorkers,
	}
}

// Execute lists the images of input.Dir and decodes their headers in parallel.
// Items keep the listing order.
func (s *Stage) Execute(ctx context.Context, input pipeline.ProbeInput) (pipeline.ProbeResult, error) {
	refs, err := s.listRefs(input)
	if err != nil {
		return pipeline.ProbeResult{}, err
	}
	s.logger.Debug("Probing %d images with %d workers", len(refs), s.numWorkers)

	items := make([]pipeline.Item, len(refs))
	failed := make([]bool, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.numWorkers)
	for i, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item, ok := s.probe(input, ref)
			item.Index = i
			items[i] = item
			failed[i] = !ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return pipeline.ProbeResult{}, fmt.Errorf("probe images: %w", err)
	}

	result := pipeline.ProbeResult{Items: items}
	for i, f := range failed {
		if f {
			result.Failed = append(result.Failed, refs[i])
		}
	}
	s.logger.Debug("Probed %d images (%d unreadable)", len(items), len(result.Failed))
	return result, nil
}

func (s *Stage) listRefs(input pipeline.ProbeInput) ([]string, error) {
	if len(input.Refs) > 0 {
		return input.Refs, nil
	}
	patterns := input.Patterns
	if len(patterns) == 0 {
		patterns = pipeline.DefaultImagePatterns
	}
	refs, err := s.fs.Glob(input.Dir, patterns...)
	if err != nil {
		return nil, fmt.Errorf("list images in %s: %w", input.Dir, err)
	}
	return refs, nil
}

// probe builds the item for one file. It reports false when the header could
// not be read and the ratio fell back to a square.
func (s *Stage) probe(input pipeline.ProbeInput, ref string) (pipeline.Item, bool) {
	bounds := BoundsFor(ref, input)
	item := pipeline.Item{
		Ref:      ref,
		Ratio:    1,
		MinWidth: bounds.MinWidth,
		MaxWidth: bounds.MaxWidth,
	}

	data, err := s.fs.ReadFile(filepath.Join(input.Dir, filepath.FromSlash(ref)))
	if err != nil {
		s.logger.Warn("Could not read %s, using a square placeholder: %s", ref, err)
		return item, false
	}
	cfg, _, err := s.renderer.DecodeConfig(data)
	if err != nil {
		s.logger.Warn("Could not read %s, using a square placeholder: %s", ref, err)
		return item, false
	}

	item.Natural = pipeline.Dimension{Width: cfg.Width, Height: cfg.Height}
	item.Ratio = pipeline.RatioOf(float64(cfg.Width), float64(cfg.Height), 0, 0)
	return item, true
}

// BoundsFor resolves the width clamps of ref. An override keyed by the exact
// ref wins; otherwise override keys are tried as doublestar patterns in
// sorted order. Without a match the input defaults apply.
func BoundsFor(ref string, input pipeline.ProbeInput) pipeline.WidthBounds {
	if b, ok := input.Overrides[ref]; ok {
		return b
	}
	keys := make([]string, 0, len(input.Overrides))
	for k := range input.Overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if ok, _ := doublestar.Match(k, ref); ok {
			return input.Overrides[k]
		}
	}
	return pipeline.WidthBounds{MinWidth: input.MinWidth, MaxWidth: input.MaxWidth}
}

// Ensure Stage implements pipeline.ProbeStage
var _ pipeline.ProbeStage = (*Stage)(nil)
