// Package layout implements the automatic layout engine for hierarchical
// box diagrams.
//
// Given a parent rectangle and its direct children, the engine computes new
// child positions/sizes and the parent's minimum enclosing size. Three
// interchangeable packing strategies are provided:
//
//   - grid: uniform grid of equal-sized cells, children centered per cell
//   - flow: depth-alternating row flow / column stacking with anti-jitter
//     wrap stability for interactive resizing
//   - mixed-flow: generates several candidate arrangements (row, column,
//     two-column, two-row, matrix grids) and picks the best by a composite
//     score; this is the default
//
// All strategies share a precedence gate: manually positioned parents and
// preserve-exact-layout passes return children unchanged while minimum
// sizes are still computed live. The Manager type is the facade the rest
// of the application talks to.
//
// Every operation is a pure function of its inputs; the engine never
// mutates rectangles in place and never throws for malformed input -
// degenerate cases fall back to sensible defaults.
package layout

import "github.com/boxtree-io/boxtree/pkg/model"

// =============================================================================
// Algorithm Contract
// =============================================================================

// Size is a width/height pair in grid units.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Point is a position in grid units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Input carries everything an algorithm needs to lay out one parent's
// direct children.
type Input struct {
	// Parent is the rectangle whose children are being arranged.
	Parent model.Rectangle

	// Children are the direct children to position. The engine returns new
	// geometries for exactly these rectangles.
	Children []model.Rectangle

	// Margins configures side/bottom spacing and the label top inset.
	Margins model.Margins

	// FixedDimensions, when non-nil, forces leaf sizes.
	FixedDimensions *model.FixedDimensions

	// All optionally holds the full rectangle set. Required for correct
	// depth-based flow orientation and for recursive minimum-size queries
	// on parent-type children.
	All []model.Rectangle

	// Depth is the hierarchy depth of Parent (hops to its root).
	Depth int

	// Metadata carries import/preservation flags for this pass.
	Metadata *model.Metadata
}

// index returns an adjacency index over All, or over Children if the full
// set was not provided.
func (in Input) index() *model.Index {
	if len(in.All) > 0 {
		return model.NewIndex(in.All)
	}
	return model.NewIndex(in.Children)
}

// Result is the output of a layout computation: new geometries for the
// input children and, when computed, the parent's minimum enclosing size.
type Result struct {
	Rectangles    []model.Rectangle
	MinParentSize *Size
}

// Algorithm is the strategy contract implemented by every packing routine.
type Algorithm interface {
	// Name returns the registry identifier of the algorithm.
	Name() string

	// CalculateLayout computes new child geometries. The manual-positioning
	// and preserve-exact-layout precedence rules apply: when either is in
	// effect, children are returned unchanged with a live minimum size.
	CalculateLayout(in Input) Result

	// MinimumParentSize computes the parent's minimum enclosing size. It is
	// always computed live - it never moves children, so preservation rules
	// do not apply. Even manually positioned parents must grow to avoid
	// clipping their children.
	MinimumParentSize(in Input) Size

	// GridDimensions computes the grid shape for the given child count,
	// honoring fill-strategy preferences when present.
	GridDimensions(count int, prefs *model.LayoutPreferences) (cols, rows int)

	// CanApplyLayout reports whether the algorithm may reposition children
	// under the given metadata.
	CanApplyLayout(meta *model.Metadata) bool
}
