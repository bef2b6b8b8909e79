package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/user/jgallery/pkg/adapters/logger"
	"github.com/user/jgallery/pkg/mocks"
	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
	"github.com/user/jgallery/pkg/stages/layout"
)

// mockProbeStage is a mock for the probe stage.
type mockProbeStage struct {
	result pipeline.ProbeResult
	err    error
	input  pipeline.ProbeInput
}

func (m *mockProbeStage) Execute(ctx context.Context, input pipeline.ProbeInput) (pipeline.ProbeResult, error) {
	m.input = input
	if m.err != nil {
		return pipeline.ProbeResult{}, m.err
	}
	return m.result, nil
}

// mockRenderStage is a mock for the render stage.
type mockRenderStage struct {
	result pipeline.RenderResult
	err    error
	calls  int
	input  pipeline.RenderInput
}

func (m *mockRenderStage) Execute(ctx context.Context, input pipeline.RenderInput) (pipeline.RenderResult, error) {
	m.calls++
	m.input = input
	if m.err != nil {
		return pipeline.RenderResult{}, m.err
	}
	return m.result, nil
}

func probed(ratios ...float64) pipeline.ProbeResult {
	items := make([]pipeline.Item, len(ratios))
	for i, r := range ratios {
		items[i] = pipeline.Item{Index: i, Ref: string(rune('a'+i)) + ".png", Ratio: r}
	}
	return pipeline.ProbeResult{Items: items}
}

func newOrchestrator(probe pipeline.ProbeStage, render pipeline.RenderStage, fs *mocks.FileSystem, sink ports.DebugSink) *Orchestrator {
	noop := logger.NewNoop()
	return New(probe, layout.NewStage(noop), render, &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return []byte{0x89, 'P', 'N', 'G'}, nil
		},
	}, fs, sink, noop)
}

func TestOrchestrator_Run(t *testing.T) {
	probeStage := &mockProbeStage{result: probed(1.5, 1.0, 1.78, 1.0, 1.5)}
	renderStage := &mockRenderStage{}
	mockFS := mocks.NewFileSystem()

	orch := newOrchestrator(probeStage, renderStage, mockFS, mocks.NewDebugSink(false))

	config := DefaultConfig()
	config.Dir = "shots"
	config.OutputPath = "layout.json"
	config.ContainerWidth = 1000
	config.Gap = 10
	config.TargetRowHeight = 200
	config.MaxRowHeight = 240

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if probeStage.input.Dir != "shots" {
		t.Errorf("expected probe dir shots, got %q", probeStage.input.Dir)
	}
	if renderStage.calls != 0 {
		t.Error("expected render stage to be skipped without a preview path")
	}

	data, ok := mockFS.GetFile("layout.json")
	if !ok {
		t.Fatal("expected layout file to be written")
	}
	var doc pipeline.LayoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("failed to decode layout document: %v", err)
	}
	if len(doc.Placements) != 5 {
		t.Errorf("expected 5 placements, got %d", len(doc.Placements))
	}
	if doc.Placements[0].Ref != "a.png" {
		t.Errorf("expected first ref a.png, got %q", doc.Placements[0].Ref)
	}
	if doc.Gallery.ContainerWidth != 1000 {
		t.Errorf("expected container width 1000, got %v", doc.Gallery.ContainerWidth)
	}

	if len(result.Layout.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(result.Layout.Rows))
	}
	if result.OutputSize != int64(len(data)) {
		t.Errorf("expected output size %d, got %d", len(data), result.OutputSize)
	}
}

func TestOrchestrator_Run_WithPreview(t *testing.T) {
	probeStage := &mockProbeStage{result: probed(1, 2)}
	renderStage := &mockRenderStage{
		result: pipeline.RenderResult{
			Image:   image.NewRGBA(image.Rect(0, 0, 800, 200)),
			Missing: []string{"b.png"},
		},
	}
	mockFS := mocks.NewFileSystem()

	orch := newOrchestrator(probeStage, renderStage, mockFS, mocks.NewDebugSink(false))

	config := DefaultConfig()
	config.Dir = "shots"
	config.OutputPath = "layout.json"
	config.PreviewPath = "preview.png"
	config.ContainerWidth = 800
	config.BackgroundColor = [4]uint8{1, 2, 3, 255}

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if renderStage.calls != 1 {
		t.Fatalf("expected render stage to be called once, got %d", renderStage.calls)
	}
	if renderStage.input.Width != 800 || renderStage.input.Dir != "shots" {
		t.Errorf("unexpected render input: width=%d dir=%q", renderStage.input.Width, renderStage.input.Dir)
	}
	if got := renderStage.input.Theme.BackgroundColor; got != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("expected background override, got %v", got)
	}
	if exists, _ := mockFS.Exists("preview.png"); !exists {
		t.Error("expected preview file to be written")
	}
	if len(result.Placeholders) != 1 || result.Placeholders[0] != "b.png" {
		t.Errorf("expected placeholder b.png, got %v", result.Placeholders)
	}
}

func TestOrchestrator_Run_WithDebugSink(t *testing.T) {
	probeStage := &mockProbeStage{result: probed(1, 1)}
	mockSink := mocks.NewDebugSink(true)

	orch := newOrchestrator(probeStage, &mockRenderStage{}, mocks.NewFileSystem(), mockSink)

	config := DefaultConfig()
	config.OutputPath = "layout.json"

	if _, err := orch.Run(context.Background(), config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mockSink.LayoutJSON) == 0 {
		t.Error("expected layout JSON to be saved")
	}
	if len(mockSink.LayoutSVG) == 0 {
		t.Error("expected layout SVG to be saved")
	}
}

func TestOrchestrator_Run_DroppedRefs(t *testing.T) {
	probeStage := &mockProbeStage{result: pipeline.ProbeResult{Items: []pipeline.Item{
		{Index: 0, Ref: "ok.png", Ratio: 1},
		{Index: 1, Ref: "broken.png", Ratio: 0},
	}}}

	orch := newOrchestrator(probeStage, &mockRenderStage{}, mocks.NewFileSystem(), mocks.NewDebugSink(false))

	result, err := orch.Run(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Dropped) != 1 || result.Dropped[0] != "broken.png" {
		t.Errorf("expected dropped [broken.png], got %v", result.Dropped)
	}
}

func TestOrchestrator_Run_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		probe  *mockProbeStage
		render *mockRenderStage
		fs     func() *mocks.FileSystem
		mode   pipeline.Mode
	}{
		{
			name:   "probe failure",
			probe:  &mockProbeStage{err: boom},
			render: &mockRenderStage{},
			fs:     mocks.NewFileSystem,
		},
		{
			name:   "unknown mode",
			probe:  &mockProbeStage{result: probed(1)},
			render: &mockRenderStage{},
			fs:     mocks.NewFileSystem,
			mode:   "mosaic",
		},
		{
			name:   "render failure",
			probe:  &mockProbeStage{result: probed(1)},
			render: &mockRenderStage{err: boom},
			fs:     mocks.NewFileSystem,
		},
		{
			name:   "write failure",
			probe:  &mockProbeStage{result: probed(1)},
			render: &mockRenderStage{},
			fs: func() *mocks.FileSystem {
				fs := mocks.NewFileSystem()
				fs.WriteFileFunc = func(path string, data []byte) error { return boom }
				return fs
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch := newOrchestrator(tt.probe, tt.render, tt.fs(), mocks.NewDebugSink(false))

			config := DefaultConfig()
			config.OutputPath = "layout.json"
			config.PreviewPath = "preview.png"
			if tt.mode != "" {
				config.Mode = tt.mode
			}

			if _, err := orch.Run(context.Background(), config); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestOrchestrator_Run_UnknownModeIsWrapped(t *testing.T) {
	orch := newOrchestrator(&mockProbeStage{result: probed(1)}, &mockRenderStage{}, mocks.NewFileSystem(), mocks.NewDebugSink(false))

	config := DefaultConfig()
	config.Mode = "mosaic"

	_, err := orch.Run(context.Background(), config)
	if !errors.Is(err, layout.ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}
