package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/user/jgallery/pkg/pipeline"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Mode != "justified" {
		t.Errorf("expected mode justified, got %q", cfg.Mode)
	}
	if cfg.Gallery.TargetRowHeight != 160 {
		t.Errorf("expected target row height 160, got %v", cfg.Gallery.TargetRowHeight)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jgallery.yaml")
	yaml := `
dir: docs/screenshots
output: docs/layout.json
mode: masonry
gallery:
  width: 960
  gap: 12
  target_row_height: 200
masonry:
  columns: 3
items:
  min_width: 80
  overrides:
    "hero-*.png":
      min_width: 400
theme:
  background_color: "#101010"
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Dir != "docs/screenshots" || cfg.OutputPath != "docs/layout.json" {
		t.Errorf("unexpected paths: dir=%q output=%q", cfg.Dir, cfg.OutputPath)
	}
	if cfg.Mode != "masonry" {
		t.Errorf("expected mode masonry, got %q", cfg.Mode)
	}
	if cfg.Gallery.Width != 960 || cfg.Gallery.Gap != 12 || cfg.Gallery.TargetRowHeight != 200 {
		t.Errorf("unexpected gallery: %+v", cfg.Gallery)
	}
	if cfg.Masonry.Columns != 3 {
		t.Errorf("expected 3 columns, got %d", cfg.Masonry.Columns)
	}
	// Unset keys keep their defaults
	if cfg.Masonry.RowUnit != 8 {
		t.Errorf("expected default row unit 8, got %v", cfg.Masonry.RowUnit)
	}
	if cfg.Theme.TextColor != "#3c3c3c" {
		t.Errorf("expected default text color, got %q", cfg.Theme.TextColor)
	}
	want := map[string]pipeline.WidthBounds{"hero-*.png": {MinWidth: 400}}
	if diff := cmp.Diff(want, cfg.Items.Overrides); diff != "" {
		t.Errorf("overrides mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("gallery: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"unknown mode", func(c *Config) { c.Mode = "mosaic" }, "mode"},
		{"negative width", func(c *Config) { c.Gallery.Width = -1 }, "gallery.width"},
		{"negative gap", func(c *Config) { c.Gallery.Gap = -4 }, "gallery.gap"},
		{"max below target", func(c *Config) { c.Gallery.MaxRowHeight = 100 }, "max_row_height"},
		{"max width below min width", func(c *Config) { c.Items.MinWidth = 200; c.Items.MaxWidth = 100 }, "items.max_width"},
		{"negative columns", func(c *Config) { c.Masonry.Columns = -2 }, "masonry.columns"},
		{"bad color", func(c *Config) { c.Theme.BorderColor = "#12345" }, "invalid color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  color.Color
	}{
		{"#ff0000", color.RGBA{R: 255, A: 255}},
		{"00FF7f", color.RGBA{G: 255, B: 127, A: 255}},
		{"#abc", color.Black},
		{"", color.Black},
		{"#gg0000", color.Black},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseColor(tt.input); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestToLayoutInput(t *testing.T) {
	cfg := Defaults()
	cfg.Gallery.TargetRowHeight = 200

	in := cfg.ToLayoutInput()

	if in.Mode != pipeline.ModeJustified {
		t.Errorf("expected justified mode, got %q", in.Mode)
	}
	// An unset max row height falls back to 1.2 x target
	if in.Gallery.MaxRowHeight != 240 {
		t.Errorf("expected max row height 240, got %v", in.Gallery.MaxRowHeight)
	}
	if in.Masonry.RowGap != -1 {
		t.Errorf("expected masonry row gap -1, got %v", in.Masonry.RowGap)
	}
	if in.Iterations != 20 || in.DeferTolerance != 0.5 {
		t.Errorf("unexpected solver settings: %d / %v", in.Iterations, in.DeferTolerance)
	}
}

func TestToOrchestratorConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Dir = "shots"
	cfg.PreviewPath = "preview.png"
	cfg.Theme.PlaceholderColor = ""

	oc := cfg.ToOrchestratorConfig()

	if oc.Dir != "shots" || oc.PreviewPath != "preview.png" {
		t.Errorf("unexpected paths: %q / %q", oc.Dir, oc.PreviewPath)
	}
	if oc.ContainerWidth != 1200 {
		t.Errorf("expected container width 1200, got %v", oc.ContainerWidth)
	}
	if oc.BackgroundColor != [4]uint8{245, 245, 245, 255} {
		t.Errorf("unexpected background color %v", oc.BackgroundColor)
	}
	if oc.PlaceholderColor != [4]uint8{} {
		t.Errorf("expected empty color to stay unset, got %v", oc.PlaceholderColor)
	}
}

func TestFrameInterval(t *testing.T) {
	cfg := Defaults()
	if got := cfg.FrameInterval(); got != 16*time.Millisecond {
		t.Errorf("expected 16ms, got %v", got)
	}
	cfg.Watch.FrameIntervalMs = 0
	if got := cfg.FrameInterval(); got != 16*time.Millisecond {
		t.Errorf("expected fallback 16ms, got %v", got)
	}
	cfg.Watch.FrameIntervalMs = 50
	if got := cfg.FrameInterval(); got != 50*time.Millisecond {
		t.Errorf("expected 50ms, got %v", got)
	}
}
