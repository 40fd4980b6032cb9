package pipeline

import (
	"math"

	"github.com/boxtree-io/boxtree/pkg/layout"
	"github.com/boxtree-io/boxtree/pkg/model"
)

// =============================================================================
// Full-Tree Layout
// =============================================================================

// LayoutTree runs one fit-to-children pass over the whole diagram:
// every parent, processed deepest-first, is resized to its minimum
// enclosing size and its children are re-laid-out inside the new bounds.
//
// Deepest-first ordering means that by the time a parent is fitted, all
// of its descendant subtrees already have final dimensions, so minimum
// sizes propagate upward in a single pass. Parents flagged IsLockedAsIs
// keep their current size but still get their children arranged; manually
// positioned parents keep their children untouched and only grow.
//
// The input diagram is not mutated.
func LayoutTree(mgr *layout.Manager, d model.Diagram, opts Options) model.Diagram {
	out := d
	out.Rectangles = make([]model.Rectangle, len(d.Rectangles))
	copy(out.Rectangles, d.Rectangles)

	margins := opts.engineMargins(d)
	fixed := opts.engineFixed(d)
	meta := opts.engineMetadata(d)

	order := model.NewIndex(out.Rectangles).ParentsByDepth()
	for _, parentID := range order {
		// Rebuild the index each step: earlier (deeper) steps changed
		// descendant geometry that this parent's sizing depends on.
		idx := model.NewIndex(out.Rectangles)
		parent, ok := idx.Get(parentID)
		if !ok {
			continue
		}

		if !parent.IsLockedAsIs {
			size := mgr.CalculateMinimumParentSize(parentID, out.Rectangles, margins, fixed)
			if parent.IsManualPositioningEnabled {
				// Manually positioned parents only ever grow: their current
				// size is user intent, but children must not be clipped.
				parent.W = math.Max(parent.W, size.W)
				parent.H = math.Max(parent.H, size.H)
			} else {
				parent.W = math.Max(size.W, model.MinWidth)
				parent.H = math.Max(size.H, model.MinHeight)
			}
			out.Apply([]model.Rectangle{parent})
		}

		res := mgr.CalculateChildLayout(parent, idx.Children(parentID), margins, fixed, out.Rectangles, meta)

		// Moving a container child must carry its already-settled subtree
		// along, or deeper levels would detach from their parents.
		for _, moved := range res.Rectangles {
			old, ok := idx.Get(moved.ID)
			if !ok {
				continue
			}
			if dx, dy := moved.X-old.X, moved.Y-old.Y; dx != 0 || dy != 0 {
				shiftDescendants(&out, idx, moved.ID, dx, dy)
			}
		}
		out.Apply(res.Rectangles)
	}

	// Preservation and manual flags are one-pass: the emitted diagram is a
	// settled layout, so the transient import flags are cleared.
	if out.Metadata != nil {
		out.Metadata = nil
	}
	return out
}

// shiftDescendants translates the whole subtree under id by (dx, dy).
// The index reflects the pre-move hierarchy, which is unaffected by pure
// translation.
func shiftDescendants(d *model.Diagram, idx *model.Index, id string, dx, dy float64) {
	for _, c := range idx.Children(id) {
		for i := range d.Rectangles {
			if d.Rectangles[i].ID == c.ID {
				d.Rectangles[i].X += dx
				d.Rectangles[i].Y += dy
				break
			}
		}
		shiftDescendants(d, idx, c.ID, dx, dy)
	}
}
