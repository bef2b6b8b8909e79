// Package layout implements the gallery layout stage.
//
// Two strategies share the same input: Justified fills rows to the container
// width by solving each row's scale, Masonry assigns integer row spans on a
// column grid. The configured mode selects one of them per pass.
package layout

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
)

// ErrUnknownMode is returned when the configured mode names no strategy.
var ErrUnknownMode = errors.New("unknown layout mode")

// Strategy computes placements for a gallery.
type Strategy interface {
	// Mode returns the configuration name of the strategy.
	Mode() pipeline.Mode

	// Layout is a pure function of its input; calling it twice with the same
	// input yields identical results.
	Layout(input pipeline.LayoutInput) pipeline.LayoutResult
}

// ForMode returns the strategy selected by mode. An empty mode selects Justified.
func ForMode(mode pipeline.Mode) (Strategy, error) {
	switch mode {
	case pipeline.ModeJustified, "":
		return Justified{}, nil
	case pipeline.ModeMasonry:
		return Masonry{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// Stage runs the configured strategy.
// This is a pure computation with no external dependencies besides logging.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new layout stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("layout"),
	}
}

// Execute computes the layout for the input.
func (s *Stage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	result, err := ComputeLayout(input)
	if err != nil {
		return pipeline.LayoutResult{}, err
	}

	if len(result.Dropped) > 0 {
		s.logger.Debug("Dropped %d items with unusable aspect ratios", len(result.Dropped))
	}
	s.logger.Debug("Laid out %d items (%s, %.0fpx wide, %.0fpx tall)",
		len(result.Placements), result.Mode, result.InnerWidth, result.Height)
	return result, nil
}

// ComputeLayout performs the layout calculation.
// This is exposed as a standalone function for testing and reuse.
func ComputeLayout(input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	strategy, err := ForMode(input.Mode)
	if err != nil {
		return pipeline.LayoutResult{}, err
	}
	return strategy.Layout(input), nil
}

// Ensure Stage implements pipeline.LayoutStage
var _ pipeline.LayoutStage = (*Stage)(nil)
