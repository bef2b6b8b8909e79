package layout

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/user/jgallery/pkg/pipeline"
)

// RenderSVG draws the placements of a layout as an SVG document for debugging.
func RenderSVG(result pipeline.LayoutResult, containerWidth float64) []byte {
	width := math.Ceil(math.Max(containerWidth, result.InnerWidth))
	height := math.Ceil(result.Height)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect width="%.0f" height="%.0f" fill="#f5f5f5"/>`+"\n", width, height)

	for _, p := range result.Placements {
		label := p.Ref
		if label == "" {
			label = fmt.Sprintf("#%d", p.Index)
		}
		fmt.Fprintf(&buf,
			`  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#c8c8c8" stroke="#707070"><title>%s (%.0fx%.0f)</title></rect>`+"\n",
			p.X, p.Y, p.Width, p.Height, html.EscapeString(label), p.Width, p.Height)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
