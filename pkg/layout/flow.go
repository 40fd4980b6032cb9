package layout

import (
	"math"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// =============================================================================
// Flow Layout Algorithm
// =============================================================================

// Wrap-stability tuning for interactive resizing. The row-wrap decision
// uses three zones instead of a naive threshold so that dragging a resize
// handle near a wrap boundary does not make children oscillate between
// rows:
//
//   - soft limit: the available interior width. A child entering a row
//     wraps past it.
//   - hysteresis zone: up to WrapDelta beyond the soft limit a child
//     keeps its current row membership, so the width at which a child
//     leaves a row sits strictly above the width at which it rejoins.
//   - hard limit: past WrapDelta every child wraps.
const (
	// WrapDelta is the hard-limit extension beyond the available width,
	// in grid units. It is also the width of the hysteresis zone.
	WrapDelta = 0.5

	// WrapHysteresisFactor scales WrapDelta into the row-membership
	// coordinate tolerance.
	WrapHysteresisFactor = 0.5

	// WrapHysteresis is the tolerance used when deciding whether a child
	// currently sits on its predecessor's row. Stored coordinates are
	// rounded, so the comparison cannot be exact.
	WrapHysteresis = WrapDelta * WrapHysteresisFactor

	// CenteringThreshold suppresses sub-unit group-centering shifts that
	// would otherwise cause visible creep during continuous resize.
	CenteringThreshold = 0.25
)

// roundEpsilon guards fractional coordinate rounding: when the rounding
// delta is below this, the original value is kept so repeated layout passes
// cannot accumulate drift.
const roundEpsilon = 1e-9

// FlowAlgorithm arranges children in reading order, alternating between
// row flow and column stacking by hierarchy depth: children at even depth
// stack vertically, children at odd depth flow left-to-right with wrapping.
// An explicit orientation preference on the parent overrides the
// depth-derived direction.
type FlowAlgorithm struct{}

// NewFlow creates a flow layout algorithm.
func NewFlow() *FlowAlgorithm { return &FlowAlgorithm{} }

// Name returns the registry identifier.
func (f *FlowAlgorithm) Name() string { return AlgorithmFlow }

// CanApplyLayout reports whether repositioning is allowed under meta.
func (f *FlowAlgorithm) CanApplyLayout(meta *model.Metadata) bool { return canApply(meta) }

// CalculateLayout arranges children in flow order, honoring the manual /
// preserve-exact-layout precedence rules.
func (f *FlowAlgorithm) CalculateLayout(in Input) Result {
	return applyGate(f, in)
}

// orientation returns the flow direction for the children of in.Parent:
// the explicit preference when set, otherwise derived from the children's
// depth (parent depth + 1): even → column stacking, odd → row flow.
func (f *FlowAlgorithm) orientation(in Input) string {
	if p := in.Parent.LayoutPreferences; p != nil && p.Orientation != "" {
		return p.Orientation
	}
	if (in.Depth+1)%2 == 0 {
		return model.OrientationCol
	}
	return model.OrientationRow
}

func (f *FlowAlgorithm) doLayout(in Input) Result {
	size := f.MinimumParentSize(in)
	if len(in.Children) == 0 {
		return Result{Rectangles: []model.Rectangle{}, MinParentSize: &size}
	}

	sizer := newChildSizer(f, in)
	sizes := make([]Size, len(in.Children))
	for i, c := range in.Children {
		sizes[i] = sizer.placedSize(c)
	}

	m := in.Margins
	availW := in.Parent.W - 2*m.Margin
	availH := in.Parent.H - m.LabelMargin - 2*m.Margin

	var rel []Point
	var extent Size
	if f.orientation(in) == model.OrientationCol {
		rel, extent = packColumn(sizes, m.Margin)
	} else {
		rel, extent = packRows(sizes, availW, m.Margin, currentRowMembership(in.Children))
	}

	// Center the packed group inside the available interior, suppressing
	// sub-threshold shifts.
	offsetX := (availW - extent.W) / 2
	offsetY := (availH - extent.H) / 2
	if offsetX < CenteringThreshold {
		offsetX = 0
	}
	if offsetY < CenteringThreshold {
		offsetY = 0
	}

	originX := in.Parent.X + m.Margin + offsetX
	originY := in.Parent.Y + m.LabelMargin + m.Margin + offsetY

	out := cloneRects(in.Children)
	for i := range out {
		out[i].W = sizes[i].W
		out[i].H = sizes[i].H
		out[i].X = roundCoord(originX+rel[i].X, m)
		out[i].Y = roundCoord(originY+rel[i].Y, m)
	}

	// A row held together by hysteresis may overrun the interior by up to
	// WrapDelta; children still never escape the parent.
	out = ensureWithinBounds(out, in.Parent, m)

	return Result{Rectangles: out, MinParentSize: &size}
}

// MinimumParentSize packs children against the parent's current available
// width and returns the enclosing size of the packed group plus margins.
func (f *FlowAlgorithm) MinimumParentSize(in Input) Size {
	m := in.Margins
	if len(in.Children) == 0 {
		return Size{
			W: math.Max(model.MinWidth, 2*m.Margin),
			H: math.Max(model.MinHeight, m.LabelMargin+2*m.Margin),
		}
	}

	sizer := newChildSizer(f, in)
	sizes := make([]Size, len(in.Children))
	for i, c := range in.Children {
		sizes[i] = sizer.size(c)
	}

	var extent Size
	if f.orientation(in) == model.OrientationCol {
		_, extent = packColumn(sizes, m.Margin)
	} else {
		// Minimum sizing ignores current row membership so the reported
		// size is a function of child sizes and width alone.
		availW := math.Max(in.Parent.W-2*m.Margin, model.MinWidth)
		_, extent = packRows(sizes, availW, m.Margin, nil)
	}

	return Size{
		W: extent.W + 2*m.Margin,
		H: extent.H + m.LabelMargin + 2*m.Margin,
	}
}

// GridDimensions delegates to the grid shape computation so flow parents
// answer insert-placement queries consistently with the grid algorithm.
func (f *FlowAlgorithm) GridDimensions(count int, prefs *model.LayoutPreferences) (int, int) {
	return NewGrid().GridDimensions(count, prefs)
}

// =============================================================================
// Packing Routines
// =============================================================================

// packRows lays sizes left-to-right with gutter spacing, wrapping to a new
// row per the three-zone stability rules. sticky reports, per child,
// whether it currently sits on its predecessor's row; nil means no child
// has a row yet. Returns positions relative to the group origin and the
// group extent.
func packRows(sizes []Size, availW, gutter float64, sticky []bool) ([]Point, Size) {
	positions := make([]Point, len(sizes))

	var x, y, rowH float64
	var extent Size
	for i, s := range sizes {
		if i > 0 {
			projected := x + gutter + s.W
			if shouldWrap(projected, availW, sticky != nil && sticky[i]) {
				x = 0
				y += rowH + gutter
				rowH = 0
			} else {
				x += gutter
			}
		}
		positions[i] = Point{X: x, Y: y}
		x += s.W
		rowH = math.Max(rowH, s.H)
		extent.W = math.Max(extent.W, x)
	}
	extent.H = y + rowH
	return positions, extent
}

// shouldWrap implements the three-zone wrap decision for a projected row
// width against the available width. Inside the hysteresis zone the
// outcome depends on whether the child already sits on the row, which is
// what keeps the leave-row width apart from the rejoin-row width during
// continuous resize.
func shouldWrap(projected, availW float64, sticky bool) bool {
	over := projected - availW
	switch {
	case over > WrapDelta:
		// Hard limit: always wrap.
		return true
	case over > 0:
		// Hysteresis zone: a child on this row holds its place, a child
		// entering wraps at the soft limit.
		return !sticky
	default:
		// Within the soft limit.
		return false
	}
}

// currentRowMembership reports, for each child, whether its stored
// geometry puts it on the same row as its predecessor: same y within the
// WrapHysteresis tolerance and further right. Fresh children at the zero
// origin never qualify.
func currentRowMembership(children []model.Rectangle) []bool {
	sticky := make([]bool, len(children))
	for i := 1; i < len(children); i++ {
		prev, cur := children[i-1], children[i]
		sticky[i] = math.Abs(cur.Y-prev.Y) <= WrapHysteresis && cur.X > prev.X
	}
	return sticky
}

// packColumn stacks sizes vertically with gutter spacing.
func packColumn(sizes []Size, gutter float64) ([]Point, Size) {
	positions := make([]Point, len(sizes))

	var y float64
	var extent Size
	for i, s := range sizes {
		if i > 0 {
			y += gutter
		}
		positions[i] = Point{X: 0, Y: y}
		y += s.H
		extent.W = math.Max(extent.W, s.W)
	}
	extent.H = y
	return positions, extent
}

// =============================================================================
// Coordinate Rounding
// =============================================================================

// roundCoord snaps a coordinate for stable output: integral margins snap
// to whole grid units, fractional margins round to 3 decimal places. A
// negligible rounding delta returns the original value unchanged so
// repeated passes cannot creep.
func roundCoord(v float64, m model.Margins) float64 {
	var rounded float64
	if isWhole(m.Margin) && isWhole(m.LabelMargin) {
		rounded = math.Round(v)
	} else {
		rounded = math.Round(v*1000) / 1000
	}
	if math.Abs(rounded-v) < roundEpsilon {
		return v
	}
	return rounded
}

func isWhole(v float64) bool {
	return v == math.Trunc(v)
}

// Interface guard.
var _ Algorithm = (*FlowAlgorithm)(nil)
