// Package pipeline provides the stage infrastructure and shared types for jgallery.
package pipeline

import (
	"context"
)

// Stage represents a processing stage in the pipeline.
// Each stage takes an input and produces an output.
type Stage[In, Out any] interface {
	// Execute runs the stage with the given input and returns the output.
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc is a function adapter for Stage interface.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute implements Stage interface.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}

// LayoutStage is the stage type the driver and orchestrator run per pass.
type LayoutStage = Stage[LayoutInput, LayoutResult]

// ProbeStage discovers items and their ratios.
type ProbeStage = Stage[ProbeInput, ProbeResult]

// RenderStage draws a preview of a layout.
type RenderStage = Stage[RenderInput, RenderResult]
