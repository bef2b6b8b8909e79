package layout

import (
	"strings"
	"testing"

	"github.com/user/jgallery/pkg/pipeline"
)

func TestRenderSVG(t *testing.T) {
	result := pipeline.LayoutResult{
		InnerWidth: 400,
		Height:     120.4,
		Placements: []pipeline.Placement{
			{Index: 0, Ref: "a<b>.png", X: 0, Y: 0, Width: 200, Height: 120.4},
			{Index: 1, X: 208, Y: 0, Width: 192, Height: 120.4},
		},
	}

	svg := string(RenderSVG(result, 420))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" width="420" height="121"`) {
		t.Errorf("unexpected header: %s", strings.SplitN(svg, "\n", 2)[0])
	}
	if n := strings.Count(svg, "<title>"); n != 2 {
		t.Errorf("expected 2 titled rects, got %d", n)
	}
	if !strings.Contains(svg, "a&lt;b&gt;.png") {
		t.Error("expected ref to be escaped")
	}
	if !strings.Contains(svg, "#1 (192x120)") {
		t.Error("expected index label for item without ref")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("expected closing tag")
	}
}
