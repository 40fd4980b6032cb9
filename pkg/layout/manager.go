package layout

import (
	"math"
	"sync"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// =============================================================================
// Layout Manager - Engine Facade
// =============================================================================

// Manager is the facade the rest of the application talks to. It selects
// the active algorithm (globally, or per-parent via layout preferences),
// computes hierarchy depth, and exposes the three engine operations:
// child layout, minimum parent size, and placement for newly inserted
// rectangles.
//
// The only mutable state is the selected algorithm; a mutex guards it so
// a Manager can be shared across goroutines (e.g. HTTP handlers). Each
// diagram open in-process should get its own Manager.
type Manager struct {
	mu   sync.RWMutex
	name string
	alg  Algorithm

	// grid handles per-parent fill-strategy overrides regardless of the
	// globally selected algorithm.
	grid *GridAlgorithm
}

// NewManager creates a manager with the named algorithm active.
// An empty name selects DefaultAlgorithm.
func NewManager(name string) (*Manager, error) {
	if name == "" {
		name = DefaultAlgorithm
	}
	alg, err := New(name)
	if err != nil {
		return nil, err
	}
	return &Manager{name: name, alg: alg, grid: NewGrid()}, nil
}

// SetAlgorithm switches the active algorithm. Re-instantiation happens
// only when the name actually changes.
func (m *Manager) SetAlgorithm(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == m.name {
		return nil
	}
	alg, err := New(name)
	if err != nil {
		return err
	}
	m.name, m.alg = name, alg
	return nil
}

// AlgorithmName returns the name of the active algorithm.
func (m *Manager) AlgorithmName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name
}

// AvailableAlgorithms returns the registered algorithm names.
func (m *Manager) AvailableAlgorithms() []string { return Available() }

// algorithmFor resolves the algorithm for one parent: a fill-strategy
// preference forces the grid algorithm regardless of the global selection.
func (m *Manager) algorithmFor(parent model.Rectangle) Algorithm {
	if p := parent.LayoutPreferences; p != nil && p.FillStrategy != "" {
		return m.grid
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.alg
}

// =============================================================================
// Facade Operations
// =============================================================================

// CalculateChildLayout computes new geometries for the parent's direct
// children. Manually positioned parents short-circuit to an identity
// result. The optional all set enables depth-correct flow orientation and
// recursive sizing of parent-type children.
func (m *Manager) CalculateChildLayout(
	parent model.Rectangle,
	children []model.Rectangle,
	margins model.Margins,
	fixed *model.FixedDimensions,
	all []model.Rectangle,
	meta *model.Metadata,
) Result {
	if parent.IsManualPositioningEnabled {
		return Result{Rectangles: cloneRects(children)}
	}

	in := Input{
		Parent:          parent,
		Children:        children,
		Margins:         margins,
		FixedDimensions: fixed,
		All:             all,
		Depth:           depthOf(parent, all),
		Metadata:        meta,
	}
	return m.algorithmFor(parent).CalculateLayout(in)
}

// CalculateMinimumParentSize computes the minimum enclosing size for the
// identified parent. Manually positioned parents bypass all algorithms:
// the result is a plain bounding box of current child positions plus one
// margin of padding.
func (m *Manager) CalculateMinimumParentSize(
	parentID string,
	rects []model.Rectangle,
	margins model.Margins,
	fixed *model.FixedDimensions,
) Size {
	idx := model.NewIndex(rects)
	parent, ok := idx.Get(parentID)
	if !ok {
		return Size{W: model.MinWidth, H: model.MinHeight}
	}
	children := idx.Children(parentID)

	if parent.IsManualPositioningEnabled {
		return manualBoundsSize(parent, children, margins)
	}

	in := Input{
		Parent:          parent,
		Children:        children,
		Margins:         margins,
		FixedDimensions: fixed,
		All:             rects,
		Depth:           idx.Depth(parentID),
	}
	return m.algorithmFor(parent).MinimumParentSize(in)
}

// manualBoundsSize returns the bounding box of current child positions
// relative to the parent origin, padded by one margin. Even overlapping,
// manually placed children are covered.
func manualBoundsSize(parent model.Rectangle, children []model.Rectangle, margins model.Margins) Size {
	if len(children) == 0 {
		return Size{
			W: math.Max(model.MinWidth, parent.W),
			H: math.Max(model.MinHeight, parent.H),
		}
	}
	bbox := model.BoundingBox(children)
	return Size{
		W: math.Max(model.MinWidth, bbox.Right()-parent.X+margins.Margin),
		H: math.Max(model.MinHeight, bbox.Bottom()-parent.Y+margins.Margin),
	}
}

// CalculateNewRectangleLayout computes position and size for a rectangle
// about to be inserted under parentID. An empty parentID places a new root
// to the right of the last existing root.
//
// For manually positioned parents the placement mirrors flow semantics:
// continue the bottom row left-to-right and wrap below the bottommost
// sibling when the row is full. For automatic parents the placement is the
// next cell of the would-be grid after adding one more child.
func (m *Manager) CalculateNewRectangleLayout(
	parentID string,
	rects []model.Rectangle,
	defaultSize Size,
	margins model.Margins,
) (Point, Size) {
	size := Size{
		W: math.Max(model.MinWidth, defaultSize.W),
		H: math.Max(model.MinHeight, defaultSize.H),
	}
	idx := model.NewIndex(rects)

	if parentID == "" {
		return newRootPlacement(idx, margins), size
	}

	parent, ok := idx.Get(parentID)
	if !ok {
		return newRootPlacement(idx, margins), size
	}
	siblings := idx.Children(parentID)

	if parent.IsManualPositioningEnabled {
		return manualPlacement(parent, siblings, size, margins), size
	}
	return m.gridPlacement(parent, siblings, size, margins), size
}

// newRootPlacement places a new root to the right of the last existing
// root, or at the origin when the diagram is empty.
func newRootPlacement(idx *model.Index, margins model.Margins) Point {
	roots := idx.Roots()
	if len(roots) == 0 {
		return Point{X: 0, Y: 0}
	}
	last := roots[len(roots)-1]
	return Point{X: last.Right() + margins.Margin, Y: last.Y}
}

// manualPlacement continues the flow of existing siblings: to the right of
// the rightmost sibling in the bottom row if the new rectangle fits, else
// at the start of a new row below the bottommost sibling.
func manualPlacement(parent model.Rectangle, siblings []model.Rectangle, size Size, margins model.Margins) Point {
	startX := parent.X + margins.Margin
	startY := parent.Y + margins.LabelMargin + margins.Margin
	if len(siblings) == 0 {
		return Point{X: startX, Y: startY}
	}

	// Bottom row: siblings sharing the bottommost y extent.
	bottommost := siblings[0]
	for _, s := range siblings[1:] {
		if s.Bottom() > bottommost.Bottom() {
			bottommost = s
		}
	}
	rightmost := bottommost
	for _, s := range siblings {
		if s.Y == bottommost.Y && s.Right() > rightmost.Right() {
			rightmost = s
		}
	}

	// A rectangle being inserted has no current row, so the soft limit
	// decides alone.
	projected := rightmost.Right() + margins.Margin + size.W
	if !shouldWrap(projected-startX, parent.W-2*margins.Margin, false) {
		return Point{X: rightmost.Right() + margins.Margin, Y: rightmost.Y}
	}
	return Point{X: startX, Y: bottommost.Bottom() + margins.Margin}
}

// gridPlacement returns the cell position the new rectangle would receive
// in the grid shaped for count+1 children.
func (m *Manager) gridPlacement(parent model.Rectangle, siblings []model.Rectangle, size Size, margins model.Margins) Point {
	count := len(siblings) + 1
	cols, _ := m.grid.GridDimensions(count, parent.LayoutPreferences)

	cell := size
	for _, s := range siblings {
		cell.W = math.Max(cell.W, s.W)
		cell.H = math.Max(cell.H, s.H)
	}

	i := count - 1
	col := i % cols
	row := i / cols
	return Point{
		X: parent.X + margins.Margin + float64(col)*(cell.W+margins.Margin),
		Y: parent.Y + margins.LabelMargin + float64(row)*(cell.H+margins.Margin),
	}
}

// depthOf computes the parent's hierarchy depth from the full rectangle
// set. Without the full set, depth defaults to 0 (root-level).
func depthOf(parent model.Rectangle, all []model.Rectangle) int {
	if len(all) == 0 {
		return 0
	}
	return model.NewIndex(all).Depth(parent.ID)
}
