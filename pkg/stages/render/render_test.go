package render

import (
	"context"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/user/jgallery/pkg/adapters/logger"
	"github.com/user/jgallery/pkg/mocks"
	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
)

var testDir = filepath.Join("shots")

func testLayout() pipeline.LayoutResult {
	return pipeline.LayoutResult{
		InnerWidth: 610,
		Height:     150,
		Placements: []pipeline.Placement{
			{Index: 0, Ref: "a.png", X: 0, Y: 0, Width: 200, Height: 150},
			{Index: 1, Ref: "b.png", X: 210, Y: 0, Width: 200, Height: 150},
			{Index: 2, Ref: "c.png", X: 420, Y: 0, Width: 190, Height: 150},
		},
	}
}

func TestStage_Execute(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddFile(testDir, "a.png", []byte("a"))
	fs.AddFile(testDir, "b.png", []byte("b"))

	canvas := mocks.NewCanvas(610, 170)
	var resized [][2]int
	renderer := &mocks.Renderer{
		CreateCanvasFunc: func(width, height int, bg color.Color) ports.Canvas {
			if width != 610 || height != 170 {
				t.Errorf("expected 610x170 canvas, got %dx%d", width, height)
			}
			return canvas
		},
		ResizeImageFunc: func(img image.Image, width, height int) image.Image {
			resized = append(resized, [2]int{width, height})
			return image.NewRGBA(image.Rect(0, 0, width, height))
		},
	}
	sink := mocks.NewDebugSink(true)

	stage := NewStage(fs, renderer, sink, logger.NewNoop(), 1)
	result, err := stage.Execute(context.Background(), pipeline.RenderInput{
		Layout:  testLayout(),
		Dir:     testDir,
		Width:   610,
		Padding: 10,
		Theme:   pipeline.DefaultRenderTheme(),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if diff := cmp.Diff([]image.Point{{0, 10}, {210, 10}}, canvas.Images); diff != "" {
		t.Errorf("drawn images mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][2]int{{200, 150}, {200, 150}}, resized); diff != "" {
		t.Errorf("resize mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c.png"}, result.Missing); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]image.Rectangle{image.Rect(420, 10, 610, 160)}, canvas.Rects); diff != "" {
		t.Errorf("placeholder mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c.png"}, canvas.Texts); diff != "" {
		t.Errorf("label mismatch (-want +got):\n%s", diff)
	}
	if sink.Preview == nil {
		t.Error("expected preview to be saved to the debug sink")
	}
}

func TestStage_Cancelled(t *testing.T) {
	stage := NewStage(mocks.NewFileSystem(), &mocks.Renderer{}, &mocks.NullSink{}, logger.NewNoop(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := stage.Execute(ctx, pipeline.RenderInput{Layout: testLayout()}); err == nil {
		t.Error("expected error for a cancelled context")
	}
}

func TestCanvasSize(t *testing.T) {
	tests := []struct {
		name          string
		input         pipeline.RenderInput
		width, height int
	}{
		{"explicit width", pipeline.RenderInput{Layout: testLayout(), Width: 800, Padding: 5}, 800, 160},
		{"derived width", pipeline.RenderInput{Layout: pipeline.LayoutResult{
			InnerWidth: 300,
			Height:     99.2,
			Placements: []pipeline.Placement{{X: 16, Width: 300.4, Height: 99.2}},
		}}, 317, 100},
		{"empty layout", pipeline.RenderInput{}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := CanvasSize(tt.input)
			if w != tt.width || h != tt.height {
				t.Errorf("expected %dx%d, got %dx%d", tt.width, tt.height, w, h)
			}
		})
	}
}

func TestSnap_KeepsEdges(t *testing.T) {
	left := snap(pipeline.Placement{X: 0.4, Width: 100.2, Y: 0, Height: 50.5}, 0)
	right := snap(pipeline.Placement{X: 108.6, Width: 90, Y: 0, Height: 50.5}, 0)

	if left.x != 0 || left.w != 101 {
		t.Errorf("expected left tile at 0 width 101, got x=%d w=%d", left.x, left.w)
	}
	if gap := right.x - (left.x + left.w); gap != 8 {
		t.Errorf("expected 8px gap between tiles, got %d", gap)
	}
	if left.h != 51 {
		t.Errorf("expected height 51, got %d", left.h)
	}
}
