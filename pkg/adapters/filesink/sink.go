// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/jgallery/pkg/ports"
)

// File names written below the sink directory. Every pass overwrites them.
const (
	LayoutJSONFile = "layout.json"
	LayoutSVGFile  = "layout.svg"
	PreviewFile    = "preview.png"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveLayoutJSON saves the layout calculation result as JSON.
func (s *Sink) SaveLayoutJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, LayoutJSONFile), data)
}

// SaveLayoutSVG saves the layout visualization as SVG.
func (s *Sink) SaveLayoutSVG(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, LayoutSVGFile), data)
}

// SavePreview saves the rendered preview as PNG.
func (s *Sink) SavePreview(img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return s.fs.WriteFile(filepath.Join(s.baseDir, PreviewFile), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
