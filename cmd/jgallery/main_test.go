package main

import (
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/jgallery/pkg/config"
	"github.com/user/jgallery/pkg/pipeline"
)

// writePNG writes a blank w x h PNG to dir/name.
func writePNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

func screenshotDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "screenshots")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, dir, "01-home.png", 160, 90)
	writePNG(t, dir, "02-settings_page.png", 100, 100)
	writePNG(t, dir, "03-API-keys.png", 90, 160)
	return dir
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	return newApp().Run(append([]string{"jgallery"}, args...))
}

func TestLayoutCommand(t *testing.T) {
	dir := screenshotDir(t)
	out := filepath.Join(t.TempDir(), "layout.json")
	summary := filepath.Join(t.TempDir(), "report", "summary.md")

	err := run(t, "layout", "--quiet", "-o", out, "--summary", summary, "--width", "600", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected layout file: %v", err)
	}
	var doc pipeline.LayoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("failed to decode layout: %v", err)
	}
	if len(doc.Placements) != 3 {
		t.Errorf("expected 3 placements, got %d", len(doc.Placements))
	}
	if doc.Gallery.ContainerWidth != 600 {
		t.Errorf("expected container width 600, got %v", doc.Gallery.ContainerWidth)
	}
	if doc.Placements[0].Ref != "01-home.png" {
		t.Errorf("expected first ref 01-home.png, got %q", doc.Placements[0].Ref)
	}

	report, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("expected summary file: %v", err)
	}
	if !strings.Contains(string(report), "600 px") {
		t.Errorf("expected summary to mention the container width, got:\n%s", report)
	}
}

func TestLayoutCommand_DefaultOutput(t *testing.T) {
	dir := screenshotDir(t)

	if err := run(t, "layout", "--quiet", "--mode", "masonry", "--columns", "2", dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "layout.json"))
	if err != nil {
		t.Fatalf("expected layout.json next to the screenshots: %v", err)
	}
	var doc pipeline.LayoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Mode != pipeline.ModeMasonry || doc.Columns != 2 {
		t.Errorf("expected masonry with 2 columns, got %s / %d", doc.Mode, doc.Columns)
	}
}

func TestLayoutCommand_Preview(t *testing.T) {
	dir := screenshotDir(t)
	preview := filepath.Join(t.TempDir(), "preview.png")

	if err := run(t, "layout", "--quiet", "--preview", preview, "--preset", "mobile", dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(preview)
	if err != nil {
		t.Fatalf("expected preview file: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("expected a PNG preview: %v", err)
	}
	if cfg.Width != 390 {
		t.Errorf("expected mobile preview width 390, got %d", cfg.Width)
	}
}

func TestLayoutCommand_Errors(t *testing.T) {
	dir := screenshotDir(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing directory argument", []string{"layout", "--quiet"}},
		{"unknown mode", []string{"layout", "--quiet", "--mode", "mosaic", dir}},
		{"unknown preset", []string{"layout", "--quiet", "--preset", "tablet", dir}},
		{"unknown density", []string{"layout", "--quiet", "--density", "airy", dir}},
		{"missing config", []string{"layout", "--quiet", "--config", filepath.Join(dir, "nope.yaml"), dir}},
		{"missing screenshots", []string{"layout", "--quiet", filepath.Join(dir, "nope")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, tt.args...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestManifestCommand(t *testing.T) {
	dir := screenshotDir(t)
	parent := filepath.Dir(dir)
	captions := `{"02-settings_page.png": "  Settings  "}`
	if err := os.WriteFile(filepath.Join(parent, "screenshot_captions.json"), []byte(captions), 0644); err != nil {
		t.Fatal(err)
	}

	if err := run(t, "manifest", "--quiet", dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(parent, "screenshot_data.js"))
	if err != nil {
		t.Fatalf("expected data file next to the directory: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		"window.screenshotData = [",
		`"caption": "01 Home"`,
		`"caption": "Settings"`,
		`"caption": "03 Api Keys"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected data file to contain %s, got:\n%s", want, text)
		}
	}
}

func TestManifestCommand_MissingDir(t *testing.T) {
	if err := run(t, "manifest", "--quiet", filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for a missing directory")
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := config.Defaults()

	if err := applyPreset(&cfg, "mobile", "spacious"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Gallery.Width != 390 {
		t.Errorf("expected mobile width 390, got %v", cfg.Gallery.Width)
	}
	if cfg.Gallery.TargetRowHeight != 220 || cfg.Gallery.Gap != 16 {
		t.Errorf("expected spacious rows, got target=%v gap=%v", cfg.Gallery.TargetRowHeight, cfg.Gallery.Gap)
	}
	if cfg.Gallery.MaxRowHeight != 264 {
		t.Errorf("expected max row height 264, got %v", cfg.Gallery.MaxRowHeight)
	}
	if cfg.Masonry.MinColumnWidth != 160 {
		t.Errorf("expected mobile column width 160, got %v", cfg.Masonry.MinColumnWidth)
	}
}
