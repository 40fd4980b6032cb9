package layout

import (
	"testing"

	"github.com/boxtree-io/boxtree/pkg/model"
)

func TestApplyGateManual(t *testing.T) {
	g := NewGrid()

	in := Input{
		Parent: model.Rectangle{
			ID: "p", Type: model.TypeParent, W: 30, H: 30,
			IsManualPositioningEnabled: true,
		},
		Children: []model.Rectangle{
			{ID: "a", ParentID: "p", Type: model.TypeLeaf, X: 12, Y: 9, W: 6, H: 4},
		},
		Margins: model.DefaultMargins(),
	}

	res := applyGate(g, in)
	got := res.Rectangles[0]
	if got.X != 12 || got.Y != 9 {
		t.Errorf("manual child moved to (%v, %v), want (12, 9)", got.X, got.Y)
	}
	// The minimum size is still live so a manual parent can grow.
	if res.MinParentSize == nil {
		t.Fatal("MinParentSize = nil, want live size")
	}
	if res.MinParentSize.W <= 0 || res.MinParentSize.H <= 0 {
		t.Errorf("MinParentSize = %+v, want positive", res.MinParentSize)
	}
}

func TestApplyGatePreserve(t *testing.T) {
	g := NewGrid()

	tests := []struct {
		name string
		meta *model.Metadata
	}{
		{name: "Imported", meta: &model.Metadata{IsImported: true}},
		{name: "PreserveExact", meta: &model.Metadata{PreserveExactLayout: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{
				Parent: model.Rectangle{ID: "p", Type: model.TypeParent, W: 30, H: 30},
				Children: []model.Rectangle{
					{ID: "a", ParentID: "p", Type: model.TypeLeaf, X: 3.7, Y: 5.1, W: 6, H: 4},
				},
				Margins:  model.DefaultMargins(),
				Metadata: tt.meta,
			}

			res := applyGate(g, in)
			got := res.Rectangles[0]
			if got.X != 3.7 || got.Y != 5.1 {
				t.Errorf("preserved child moved to (%v, %v), want (3.7, 5.1)", got.X, got.Y)
			}
			if res.MinParentSize == nil {
				t.Error("MinParentSize = nil, want live size")
			}
		})
	}
}

func TestApplyGateDelegates(t *testing.T) {
	g := NewGrid()

	in := Input{
		Parent: model.Rectangle{ID: "p", Type: model.TypeParent, W: 15, H: 12},
		Children: []model.Rectangle{
			{ID: "a", ParentID: "p", Type: model.TypeLeaf, X: 99, Y: 99},
		},
		Margins: model.DefaultMargins(),
	}

	res := applyGate(g, in)
	if res.Rectangles[0].X == 99 {
		t.Error("automatic layout left the child at its stale position")
	}
}

func TestCanApply(t *testing.T) {
	tests := []struct {
		name string
		meta *model.Metadata
		want bool
	}{
		{name: "Nil", meta: nil, want: true},
		{name: "Empty", meta: &model.Metadata{}, want: true},
		{name: "Imported", meta: &model.Metadata{IsImported: true}, want: false},
		{name: "Preserve", meta: &model.Metadata{PreserveExactLayout: true}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canApply(tt.meta); got != tt.want {
				t.Errorf("canApply(%+v) = %v, want %v", tt.meta, got, tt.want)
			}
		})
	}
}

func TestCloneRectsNoAliasing(t *testing.T) {
	src := []model.Rectangle{{ID: "a", X: 1}}
	dst := cloneRects(src)
	dst[0].X = 99
	if src[0].X != 1 {
		t.Error("cloneRects aliases the source slice")
	}
}

func TestEnsureWithinBounds(t *testing.T) {
	parent := model.Rectangle{X: 0, Y: 0, W: 20, H: 15}
	m := model.DefaultMargins()

	tests := []struct {
		name  string
		rect  model.Rectangle
		wantX float64
		wantY float64
	}{
		{
			name:  "InsideUnchanged",
			rect:  model.Rectangle{ID: "a", X: 5, Y: 5, W: 6, H: 4},
			wantX: 5, wantY: 5,
		},
		{
			name:  "ClampedLeftAndTop",
			rect:  model.Rectangle{ID: "a", X: -3, Y: 0, W: 6, H: 4},
			wantX: 1, wantY: 2,
		},
		{
			name:  "ClampedRight",
			rect:  model.Rectangle{ID: "a", X: 18, Y: 5, W: 6, H: 4},
			wantX: 13, wantY: 5,
		},
		{
			name:  "ClampedBottom",
			rect:  model.Rectangle{ID: "a", X: 5, Y: 13, W: 6, H: 4},
			wantX: 5, wantY: 10,
		},
		{
			name:  "OversizedPinnedToOrigin",
			rect:  model.Rectangle{ID: "a", X: 5, Y: 5, W: 30, H: 30},
			wantX: 1, wantY: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ensureWithinBounds([]model.Rectangle{tt.rect}, parent, m)[0]
			if got.X != tt.wantX || got.Y != tt.wantY {
				t.Errorf("clamped to (%v, %v), want (%v, %v)", got.X, got.Y, tt.wantX, tt.wantY)
			}
		})
	}
}
