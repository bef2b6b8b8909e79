package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving the latest layout pass for inspection.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveLayoutJSON saves the layout calculation result as JSON.
	SaveLayoutJSON(data []byte) error

	// SaveLayoutSVG saves the layout visualization as SVG.
	SaveLayoutSVG(data []byte) error

	// SavePreview saves the rendered preview image.
	SavePreview(img image.Image) error
}
