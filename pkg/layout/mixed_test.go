package layout

import (
	"testing"

	"github.com/boxtree-io/boxtree/pkg/model"
)

func equalSizes(n int) []Size {
	out := make([]Size, n)
	for i := range out {
		out[i] = Size{W: model.DefaultLeafWidth, H: model.DefaultLeafHeight}
	}
	return out
}

func TestMixedGenerateCandidateKinds(t *testing.T) {
	a := NewMixedFlow()
	in := Input{Margins: model.DefaultMargins()}

	tests := []struct {
		name  string
		n     int
		kinds map[string]bool
	}{
		{
			name:  "TwoChildren",
			n:     2,
			kinds: map[string]bool{candRow: true, candColumn: true},
		},
		{
			name: "ThreeChildrenAddSplits",
			n:    3,
			kinds: map[string]bool{
				candRow: true, candColumn: true,
				candTwoColumn: true, candTwoRow: true,
			},
		},
		{
			name: "FourChildrenAddMatrix",
			n:    4,
			kinds: map[string]bool{
				candRow: true, candColumn: true,
				candTwoColumn: true, candTwoRow: true,
				candMatrix: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[string]bool{}
			for _, c := range a.generate(in, equalSizes(tt.n)) {
				got[c.kind] = true
			}
			for kind := range tt.kinds {
				if !got[kind] {
					t.Errorf("missing candidate kind %q for n=%d", kind, tt.n)
				}
			}
			for kind := range got {
				if !tt.kinds[kind] {
					t.Errorf("unexpected candidate kind %q for n=%d", kind, tt.n)
				}
			}
		})
	}
}

func TestMatrixShapes(t *testing.T) {
	tests := []struct {
		n    int
		want []gridShape
	}{
		{n: 4, want: []gridShape{{2, 2}}},
		{n: 6, want: []gridShape{{2, 3}, {3, 2}}},
		{n: 8, want: []gridShape{{2, 4}, {4, 2}}},
		{n: 9, want: []gridShape{{3, 3}}},
	}
	for _, tt := range tests {
		got := matrixShapes(tt.n)
		if len(got) != len(tt.want) {
			t.Errorf("matrixShapes(%d) = %v, want %v", tt.n, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("matrixShapes(%d)[%d] = %v, want %v", tt.n, i, got[i], tt.want[i])
			}
		}
	}

	// Generic counts produce only near-full grids.
	for _, shape := range matrixShapes(7) {
		cells := shape.cols * shape.rows
		if cells < 7 || cells-7 > 2 {
			t.Errorf("matrixShapes(7) produced %d×%d with %d cells", shape.cols, shape.rows, cells)
		}
	}
}

func TestMixedBestCandidateFourChildren(t *testing.T) {
	a := NewMixedFlow()
	in := Input{Margins: model.DefaultMargins()}

	best := a.bestCandidate(in, equalSizes(4))
	if best.kind != candMatrix || best.cols != 2 || best.rows != 2 {
		t.Errorf("best = %s %d×%d, want matrix 2×2", best.kind, best.cols, best.rows)
	}
}

func TestMixedBestCandidateThreeChildren(t *testing.T) {
	a := NewMixedFlow()
	in := Input{Margins: model.DefaultMargins()}

	best := a.bestCandidate(in, equalSizes(3))
	if best.kind != candTwoRow {
		t.Errorf("best kind = %s, want %s", best.kind, candTwoRow)
	}
}

func TestMixedBestCandidateDeterministic(t *testing.T) {
	a := NewMixedFlow()
	in := Input{Margins: model.DefaultMargins()}

	first := a.bestCandidate(in, equalSizes(5))
	for i := 0; i < 10; i++ {
		again := a.bestCandidate(in, equalSizes(5))
		if again.kind != first.kind || again.cols != first.cols || again.rows != first.rows {
			t.Fatalf("run %d picked %s %d×%d, first run picked %s %d×%d",
				i, again.kind, again.cols, again.rows, first.kind, first.cols, first.rows)
		}
	}
}

func TestMixedMinimumParentSize(t *testing.T) {
	a := NewMixedFlow()

	got := a.MinimumParentSize(Input{
		Parent:   model.Rectangle{ID: "p", Type: model.TypeParent},
		Children: leaves(3),
		Margins:  model.DefaultMargins(),
	})
	// Two-row split: 6+1+6 wide, 4+1+4 tall, plus margins.
	want := Size{W: 15, H: 13}
	if got != want {
		t.Errorf("MinimumParentSize() = %+v, want %+v", got, want)
	}
}

func TestMixedMinimumParentSizeEmpty(t *testing.T) {
	a := NewMixedFlow()

	got := a.MinimumParentSize(Input{
		Parent:  model.Rectangle{ID: "p", Type: model.TypeParent},
		Margins: model.DefaultMargins(),
	})
	want := Size{W: model.MinWidth, H: model.MinHeight}
	if got != want {
		t.Errorf("MinimumParentSize(no children) = %+v, want %+v", got, want)
	}
}

func TestMixedLayoutChildrenInsideParent(t *testing.T) {
	a := NewMixedFlow()
	m := model.DefaultMargins()
	parent := model.Rectangle{ID: "p", Type: model.TypeParent, W: 15, H: 13}

	res := a.CalculateLayout(Input{Parent: parent, Children: leaves(3), Margins: m})

	interior := model.Rectangle{
		X: parent.X + m.Margin,
		Y: parent.Y + m.LabelMargin,
		W: parent.W - 2*m.Margin,
		H: parent.H - m.LabelMargin - m.Margin,
	}
	for i, r := range res.Rectangles {
		if !interior.ContainsRect(r) {
			t.Errorf("child %d at (%v,%v,%v,%v) escapes the parent interior", i, r.X, r.Y, r.W, r.H)
		}
	}
	for i := 0; i < len(res.Rectangles); i++ {
		for j := i + 1; j < len(res.Rectangles); j++ {
			if res.Rectangles[i].Intersects(res.Rectangles[j]) {
				t.Errorf("children %d and %d overlap", i, j)
			}
		}
	}
}

func TestMixedScorePrefersCompactArrangements(t *testing.T) {
	a := NewMixedFlow()

	sizes := equalSizes(4)
	row := rowCandidate(sizes, 1)
	matrix := matrixCandidate(sizes, 1, 2, 2)

	if a.score(matrix, sizes) <= a.score(row, sizes) {
		t.Errorf("score(matrix 2×2) = %v not above score(row) = %v",
			a.score(matrix, sizes), a.score(row, sizes))
	}
}
