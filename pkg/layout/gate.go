package layout

import "github.com/boxtree-io/boxtree/pkg/model"

// =============================================================================
// Precedence Gate - Shared By All Strategies
// =============================================================================

// packer is the part of an algorithm the gate delegates to: the concrete
// packing routine plus the live minimum-size computation.
type packer interface {
	doLayout(in Input) Result
	MinimumParentSize(in Input) Size
}

// applyGate enforces the layout precedence rules, in strict order:
//
//  1. Manual positioning: the parent's children are ground truth. Return
//     them unchanged, but still compute the minimum parent size so the
//     parent can grow to contain manually placed children.
//  2. Preserve-exact-layout: import or snapshot metadata requests one
//     identity pass. Same treatment.
//  3. Otherwise delegate to the concrete packing routine.
func applyGate(p packer, in Input) Result {
	if in.Parent.IsManualPositioningEnabled || in.Metadata.Preserve() {
		size := p.MinimumParentSize(in)
		return Result{
			Rectangles:    cloneRects(in.Children),
			MinParentSize: &size,
		}
	}
	return p.doLayout(in)
}

// canApply is the shared CanApplyLayout implementation.
func canApply(meta *model.Metadata) bool {
	return !meta.Preserve()
}

// cloneRects copies a rectangle slice so callers never observe aliased
// engine output.
func cloneRects(rects []model.Rectangle) []model.Rectangle {
	out := make([]model.Rectangle, len(rects))
	copy(out, rects)
	return out
}

// =============================================================================
// Shared Geometry Utilities
// =============================================================================

// ensureWithinBounds clamps every rectangle inside the parent's interior
// (parent bounds minus margins). Rectangles larger than the interior are
// pinned to its origin.
func ensureWithinBounds(rects []model.Rectangle, parent model.Rectangle, margins model.Margins) []model.Rectangle {
	minX := parent.X + margins.Margin
	minY := parent.Y + margins.LabelMargin
	maxX := parent.Right() - margins.Margin
	maxY := parent.Bottom() - margins.Margin

	out := cloneRects(rects)
	for i := range out {
		if out[i].X < minX {
			out[i].X = minX
		}
		if out[i].Y < minY {
			out[i].Y = minY
		}
		if out[i].Right() > maxX {
			out[i].X = maxX - out[i].W
			if out[i].X < minX {
				out[i].X = minX
			}
		}
		if out[i].Bottom() > maxY {
			out[i].Y = maxY - out[i].H
			if out[i].Y < minY {
				out[i].Y = minY
			}
		}
	}
	return out
}
