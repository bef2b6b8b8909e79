package summarizer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/user/jgallery/pkg/mocks"
	"github.com/user/jgallery/pkg/pipeline"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithSource(t *testing.T) {
	summary := NewBuilder().
		WithSource("docs/screenshots", 12, []string{"broken.png"}).
		Build()

	if summary.Source.Dir != "docs/screenshots" {
		t.Errorf("expected dir 'docs/screenshots', got '%s'", summary.Source.Dir)
	}
	if summary.Source.ItemCount != 12 {
		t.Errorf("expected 12 items, got %d", summary.Source.ItemCount)
	}
	if len(summary.Source.Unreadable) != 1 {
		t.Errorf("expected 1 unreadable ref, got %d", len(summary.Source.Unreadable))
	}
}

func TestBuilder_WithLayout(t *testing.T) {
	result := pipeline.LayoutResult{
		Mode:   pipeline.ModeJustified,
		Height: 438.97,
		Rows: []pipeline.RowLayout{
			{Index: 0, Items: []int{0, 1, 2}, Scale: 1.1449, Height: 228.97},
			{Index: 1, Items: []int{3}, Scale: 1, Height: 200, Last: true, Saturated: true},
		},
		Placements: make([]pipeline.Placement, 4),
	}

	summary := NewBuilder().WithLayout(result, []string{"zero.png"}).Build()

	if summary.Layout.Placements != 4 {
		t.Errorf("expected 4 placements, got %d", summary.Layout.Placements)
	}
	if len(summary.Layout.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(summary.Layout.Rows))
	}
	if summary.Layout.Rows[0].Items != 3 {
		t.Errorf("expected 3 items in first row, got %d", summary.Layout.Rows[0].Items)
	}
	if !summary.Layout.Rows[1].Last || !summary.Layout.Rows[1].Saturated {
		t.Errorf("expected last saturated row, got %+v", summary.Layout.Rows[1])
	}
	if summary.Layout.Dropped[0] != "zero.png" {
		t.Errorf("expected dropped zero.png, got %v", summary.Layout.Dropped)
	}
}

func TestBuilder_FullChain(t *testing.T) {
	summary := NewBuilder().
		WithSource("shots", 3, nil).
		WithSettings(Settings{Mode: "masonry", ContainerWidth: 800}).
		WithLayout(pipeline.LayoutResult{Columns: 3, Placements: make([]pipeline.Placement, 3)}, nil).
		WithOutput(OutputInfo{LayoutPath: "layout.json", LayoutSize: 2048}).
		Build()

	if summary.Settings.Mode != "masonry" {
		t.Errorf("expected mode masonry, got %q", summary.Settings.Mode)
	}
	if summary.Layout.Columns != 3 {
		t.Errorf("expected 3 columns, got %d", summary.Layout.Columns)
	}
	if summary.Output.LayoutSize != 2048 {
		t.Errorf("expected layout size 2048, got %d", summary.Output.LayoutSize)
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	writer := NewWriter(FormatFunc(func(s *Summary) string {
		return "summary of " + s.Source.Dir
	}), fs)

	summary := NewBuilder().WithSource("shots", 0, nil).Build()
	if err := writer.Write("reports/summary.md", summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, ok := fs.GetFile("reports/summary.md")
	if !ok {
		t.Fatal("expected summary file to be written")
	}
	if string(data) != "summary of shots" {
		t.Errorf("unexpected content %q", data)
	}
	if exists, _ := fs.Exists("reports"); !exists {
		t.Error("expected parent directory to be created")
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error { return errors.New("disk full") }
	writer := NewWriter(NewMarkdownFormatter(), fs)

	err := writer.Write("summary.md", NewSummary())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected wrapped write error, got %v", err)
	}
}
