package layout

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/user/jgallery/pkg/pipeline"
)

func justifiedInput(g pipeline.Gallery, its []pipeline.Item) pipeline.LayoutInput {
	return pipeline.LayoutInput{
		Mode:           pipeline.ModeJustified,
		Gallery:        g,
		Items:          its,
		DeferTolerance: pipeline.DefaultDeferTolerance,
		Iterations:     pipeline.DefaultIterations,
	}
}

func widthsOf(placements []pipeline.Placement) []float64 {
	out := make([]float64, len(placements))
	for i, p := range placements {
		out[i] = p.Width
	}
	return out
}

// TestJustified_TrailingRowKeepsNaturalSize lays out three items that do not
// fill a 1000px container. They form the trailing row, which is never enlarged.
func TestJustified_TrailingRowKeepsNaturalSize(t *testing.T) {
	g := pipeline.Gallery{ContainerWidth: 1000, Gap: 10, TargetRowHeight: 200, MaxRowHeight: 240}

	result := Justified{}.Layout(justifiedInput(g, items(1.5, 1.0, 1.78)))

	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	row := result.Rows[0]
	if !row.Last {
		t.Error("expected row to be flagged last")
	}
	if row.Scale != 1 {
		t.Errorf("expected scale 1, got %v", row.Scale)
	}
	if row.Height != 200 {
		t.Errorf("expected height 200, got %v", row.Height)
	}
	want := []float64{300, 200, 356}
	if diff := cmp.Diff(want, widthsOf(result.Placements), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("widths mismatch (-want +got):\n%s", diff)
	}
}

func TestJustified_SingleWideItem(t *testing.T) {
	g := pipeline.Gallery{ContainerWidth: 300, TargetRowHeight: 200}

	result := Justified{}.Layout(justifiedInput(g, items(3.0)))

	if len(result.Placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(result.Placements))
	}
	p := result.Placements[0]
	if math.Abs(result.Rows[0].Scale-0.5) > 1e-4 {
		t.Errorf("expected scale 0.5, got %v", result.Rows[0].Scale)
	}
	if math.Abs(p.Height-100) > 0.05 {
		t.Errorf("expected height 100, got %v", p.Height)
	}
	if math.Abs(p.Width-300) > 0.05 {
		t.Errorf("expected width 300, got %v", p.Width)
	}
}

func TestJustified_MinWidthOverflowsContainer(t *testing.T) {
	g := pipeline.Gallery{ContainerWidth: 400, TargetRowHeight: 100}

	result := Justified{}.Layout(justifiedInput(g, []pipeline.Item{{Index: 0, Ratio: 1, MinWidth: 500}}))

	row := result.Rows[0]
	if row.Scale != 5 || row.MinScale != 5 {
		t.Errorf("expected scale pinned at minScale 5, got scale=%v min=%v", row.Scale, row.MinScale)
	}
	if !row.Saturated {
		t.Error("expected row to be saturated")
	}
	if w := result.Placements[0].Width; w != 500 {
		t.Errorf("expected width 500, got %v", w)
	}
}

func TestJustified_Positions(t *testing.T) {
	g := pipeline.Gallery{ContainerWidth: 1020, PaddingLeft: 10, PaddingRight: 10, Gap: 10, TargetRowHeight: 200, MaxRowHeight: 240}

	result := Justified{}.Layout(justifiedInput(g, items(1.5, 1.0, 1.78, 1.0, 1.5)))

	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	first := result.Rows[0]
	x := 10.0
	for _, p := range result.Placements[:4] {
		if math.Abs(p.X-x) > 1e-9 {
			t.Errorf("item %d: expected x %.3f, got %.3f", p.Index, x, p.X)
		}
		if p.Y != 0 || p.Height != first.Height {
			t.Errorf("item %d: expected y 0 height %.3f, got y %.3f height %.3f", p.Index, first.Height, p.Y, p.Height)
		}
		x += p.Width + 10
	}

	last := result.Placements[4]
	if last.X != 10 {
		t.Errorf("expected second row to start at padding, got %v", last.X)
	}
	if math.Abs(last.Y-(first.Height+10)) > 1e-9 {
		t.Errorf("expected second row at %.3f, got %.3f", first.Height+10, last.Y)
	}
	if want := first.Height + 10 + 200*1.0; math.Abs(result.Height-want) > 1e-9 {
		t.Errorf("expected total height %.3f, got %.3f", want, result.Height)
	}
	if result.InnerWidth != 1000 {
		t.Errorf("expected inner width 1000, got %v", result.InnerWidth)
	}
}

func TestJustified_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name  string
		g     pipeline.Gallery
		items []pipeline.Item
	}{
		{"zero items", pipeline.Gallery{ContainerWidth: 800}, nil},
		{"zero width", pipeline.Gallery{ContainerWidth: 0}, items(1, 2)},
		{"padding exceeds width", pipeline.Gallery{ContainerWidth: 100, PaddingLeft: 60, PaddingRight: 60}, items(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Justified{}.Layout(justifiedInput(tt.g, tt.items))
			if len(result.Rows) != 0 || len(result.Placements) != 0 {
				t.Errorf("expected empty layout, got %d rows / %d placements", len(result.Rows), len(result.Placements))
			}
		})
	}
}

func TestJustified_AllItemsDropped(t *testing.T) {
	g := pipeline.Gallery{ContainerWidth: 800}

	result := Justified{}.Layout(justifiedInput(g, items(0, math.NaN())))

	if !result.Empty() {
		t.Errorf("expected no placements, got %d", len(result.Placements))
	}
	if diff := cmp.Diff([]int{0, 1}, result.Dropped); diff != "" {
		t.Errorf("dropped mismatch (-want +got):\n%s", diff)
	}
	if result.Height != 0 {
		t.Errorf("expected zero height, got %v", result.Height)
	}
}

// TestJustified_Properties checks the layout invariants over generated galleries.
func TestJustified_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(30)
		its := make([]pipeline.Item, n)
		for i := range its {
			it := pipeline.Item{Index: i, Ratio: 0.3 + rng.Float64()*2.7}
			if rng.Intn(4) == 0 {
				it.MinWidth = rng.Float64() * 150
			}
			if rng.Intn(4) == 0 {
				it.MaxWidth = 150 + rng.Float64()*450
			}
			its[i] = it
		}
		g := pipeline.Gallery{
			ContainerWidth:  320 + rng.Float64()*1280,
			Gap:             float64(rng.Intn(16)),
			TargetRowHeight: 160,
			MaxRowHeight:    200,
		}

		result := Justified{}.Layout(justifiedInput(g, its))

		if len(result.Placements) != n {
			t.Fatalf("round %d: expected %d placements, got %d", round, n, len(result.Placements))
		}
		for _, p := range result.Placements {
			it := its[p.Index]
			if p.Width < it.MinBound()-1e-9 || p.Width > it.MaxBound()+1e-9 {
				t.Errorf("round %d: item %d width %.3f outside [%.3f, %.3f]", round, p.Index, p.Width, it.MinBound(), it.MaxBound())
			}
		}
		for _, row := range result.Rows {
			if row.Last && row.Scale > math.Max(1, row.MinScale) {
				t.Errorf("round %d: last row enlarged to scale %.4f", round, row.Scale)
			}
			if !row.Last && !row.Saturated && math.Abs(row.Width-result.InnerWidth) >= 1 {
				t.Errorf("round %d: row %d spans %.3f, expected %.3f", round, row.Index, row.Width, result.InnerWidth)
			}
		}
	}
}

func TestJustified_Idempotent(t *testing.T) {
	g := pipeline.Gallery{ContainerWidth: 1180, Gap: 12, TargetRowHeight: 180, MaxRowHeight: 220}
	its := []pipeline.Item{
		{Index: 0, Ratio: 1.6},
		{Index: 1, Ratio: 0.75, MinWidth: 140},
		{Index: 2, Ratio: 1.33},
		{Index: 3, Ratio: 2.4, MaxWidth: 380},
		{Index: 4, Ratio: 1.0},
		{Index: 5, Ratio: 1.78},
	}
	input := justifiedInput(g, its)

	first := Justified{}.Layout(input)
	second := Justified{}.Layout(input)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("layout changed between passes (-first +second):\n%s", diff)
	}
}
