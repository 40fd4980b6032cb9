package layout

import (
	"testing"

	"github.com/boxtree-io/boxtree/pkg/errors"
	"github.com/boxtree-io/boxtree/pkg/model"
)

func TestNewManagerDefaults(t *testing.T) {
	m, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	if got := m.AlgorithmName(); got != DefaultAlgorithm {
		t.Errorf("AlgorithmName() = %q, want %q", got, DefaultAlgorithm)
	}
}

func TestNewManagerUnknown(t *testing.T) {
	_, err := NewManager("bogus")
	if err == nil {
		t.Fatal("NewManager(bogus) = nil error, want error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidAlgorithm) {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidAlgorithm)
	}
}

func TestManagerSetAlgorithm(t *testing.T) {
	m, err := NewManager("")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetAlgorithm(AlgorithmGrid); err != nil {
		t.Fatalf("SetAlgorithm(grid) error: %v", err)
	}
	if got := m.AlgorithmName(); got != AlgorithmGrid {
		t.Errorf("AlgorithmName() = %q, want grid", got)
	}
	if err := m.SetAlgorithm("bogus"); err == nil {
		t.Error("SetAlgorithm(bogus) = nil error, want error")
	}
	// A failed switch leaves the previous selection in place.
	if got := m.AlgorithmName(); got != AlgorithmGrid {
		t.Errorf("AlgorithmName() after failed switch = %q, want grid", got)
	}
}

func TestManagerChildLayoutManualIdentity(t *testing.T) {
	m, _ := NewManager(AlgorithmGrid)

	parent := model.Rectangle{
		ID: "p", Type: model.TypeParent, W: 30, H: 30,
		IsManualPositioningEnabled: true,
	}
	children := []model.Rectangle{
		{ID: "a", ParentID: "p", Type: model.TypeLeaf, X: 17, Y: 23, W: 6, H: 4},
	}

	res := m.CalculateChildLayout(parent, children, model.DefaultMargins(), nil, nil, nil)
	got := res.Rectangles[0]
	if got.X != 17 || got.Y != 23 {
		t.Errorf("manual child moved to (%v, %v), want (17, 23)", got.X, got.Y)
	}
}

func TestManagerMinimumParentSizeManual(t *testing.T) {
	m, _ := NewManager("")

	rects := []model.Rectangle{
		{ID: "p", Type: model.TypeParent, W: 10, H: 10, IsManualPositioningEnabled: true},
		{ID: "a", ParentID: "p", Type: model.TypeLeaf, X: 2, Y: 2, W: 6, H: 4},
		{ID: "b", ParentID: "p", Type: model.TypeLeaf, X: 4, Y: 3, W: 6, H: 4},
	}

	got := m.CalculateMinimumParentSize("p", rects, model.DefaultMargins(), nil)
	// Bounding box of the children plus one margin, even though they overlap.
	want := Size{W: 11, H: 8}
	if got != want {
		t.Errorf("CalculateMinimumParentSize(manual) = %+v, want %+v", got, want)
	}
}

func TestManagerMinimumParentSizeUnknownParent(t *testing.T) {
	m, _ := NewManager("")

	got := m.CalculateMinimumParentSize("ghost", nil, model.DefaultMargins(), nil)
	want := Size{W: model.MinWidth, H: model.MinHeight}
	if got != want {
		t.Errorf("CalculateMinimumParentSize(unknown) = %+v, want %+v", got, want)
	}
}

func TestManagerFillStrategyForcesGrid(t *testing.T) {
	m, _ := NewManager(AlgorithmFlow)

	parent := model.Rectangle{
		ID: "p", Type: model.TypeParent,
		LayoutPreferences: &model.LayoutPreferences{FillStrategy: model.FillRowsFirst},
	}
	if got := m.algorithmFor(parent); got.Name() != AlgorithmGrid {
		t.Errorf("algorithmFor(fill strategy) = %q, want grid", got.Name())
	}
	if got := m.algorithmFor(model.Rectangle{ID: "q"}); got.Name() != AlgorithmFlow {
		t.Errorf("algorithmFor(plain) = %q, want flow", got.Name())
	}
}

func TestNewRectanglePlacement(t *testing.T) {
	mgr, _ := NewManager("")
	margins := model.DefaultMargins()
	defSize := Size{W: model.DefaultLeafWidth, H: model.DefaultLeafHeight}

	tests := []struct {
		name     string
		parentID string
		rects    []model.Rectangle
		want     Point
	}{
		{
			name:     "EmptyDiagramAtOrigin",
			parentID: "",
			want:     Point{X: 0, Y: 0},
		},
		{
			name:     "NewRootRightOfLast",
			parentID: "",
			rects: []model.Rectangle{
				{ID: "r", Type: model.TypeRoot, W: 10, H: 8},
			},
			want: Point{X: 11, Y: 0},
		},
		{
			name:     "AutoParentNextGridCell",
			parentID: "p",
			rects: []model.Rectangle{
				{ID: "p", Type: model.TypeParent, W: 15, H: 12},
				{ID: "a", ParentID: "p", Type: model.TypeLeaf, X: 1, Y: 2, W: 6, H: 4},
				{ID: "b", ParentID: "p", Type: model.TypeLeaf, X: 8, Y: 2, W: 6, H: 4},
				{ID: "c", ParentID: "p", Type: model.TypeLeaf, X: 1, Y: 7, W: 6, H: 4},
			},
			want: Point{X: 8, Y: 7},
		},
		{
			name:     "ManualParentContinuesRow",
			parentID: "p",
			rects: []model.Rectangle{
				{ID: "p", Type: model.TypeParent, W: 20, H: 10, IsManualPositioningEnabled: true},
				{ID: "a", ParentID: "p", Type: model.TypeLeaf, X: 1, Y: 3, W: 6, H: 4},
			},
			want: Point{X: 8, Y: 3},
		},
		{
			name:     "ManualParentFirstChild",
			parentID: "p",
			rects: []model.Rectangle{
				{ID: "p", Type: model.TypeParent, W: 20, H: 10, IsManualPositioningEnabled: true},
			},
			want: Point{X: 1, Y: 3},
		},
		{
			name:     "UnknownParentFallsBackToRoot",
			parentID: "ghost",
			rects: []model.Rectangle{
				{ID: "r", Type: model.TypeRoot, W: 10, H: 8},
			},
			want: Point{X: 11, Y: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, size := mgr.CalculateNewRectangleLayout(tt.parentID, tt.rects, defSize, margins)
			if pos != tt.want {
				t.Errorf("position = %+v, want %+v", pos, tt.want)
			}
			if size != defSize {
				t.Errorf("size = %+v, want %+v", size, defSize)
			}
		})
	}
}

func TestNewRectangleSizeFloor(t *testing.T) {
	mgr, _ := NewManager("")

	_, size := mgr.CalculateNewRectangleLayout("", nil, Size{W: 1, H: 1}, model.DefaultMargins())
	want := Size{W: model.MinWidth, H: model.MinHeight}
	if size != want {
		t.Errorf("size = %+v, want floored to %+v", size, want)
	}
}

func TestManagerAvailableAlgorithms(t *testing.T) {
	m, _ := NewManager("")
	got := m.AvailableAlgorithms()

	want := map[string]bool{AlgorithmGrid: true, AlgorithmFlow: true, AlgorithmMixedFlow: true}
	for _, name := range got {
		delete(want, name)
	}
	if len(want) != 0 {
		t.Errorf("AvailableAlgorithms() = %v, missing %v", got, want)
	}
}
