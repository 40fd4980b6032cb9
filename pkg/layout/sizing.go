package layout

import (
	"math"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// =============================================================================
// Type-Aware Child Sizing
// =============================================================================

// Text label sizing factors. Width scales with label length, height with a
// single line of text.
const (
	textWidthFactor  = 0.6
	textHeightFactor = 1.5
)

// childSizer computes minimum child sizes. Parent-type children recurse
// through the providing algorithm's MinimumParentSize so each strategy
// sizes subtrees in its own terms.
type childSizer struct {
	alg   Algorithm
	in    Input
	index *model.Index
}

func newChildSizer(alg Algorithm, in Input) *childSizer {
	return &childSizer{alg: alg, in: in, index: in.index()}
}

// size returns the minimum size for one child by type:
//
//   - text labels: font metrics (fontSize × len(label) × 0.6 wide,
//     fontSize × 1.5 tall), floored at the global minimums
//   - leaves: fixed dimensions when configured, else the default leaf size
//   - parent-type children: recursive minimum over their own subtree
func (s *childSizer) size(c model.Rectangle) Size {
	switch c.Type {
	case model.TypeTextLabel:
		fs := c.FontSize()
		return Size{
			W: math.Max(model.MinWidth, fs*float64(len(c.Label))*textWidthFactor),
			H: math.Max(model.MinHeight, fs*textHeightFactor),
		}
	case model.TypeLeaf:
		return s.leafSize()
	default:
		return s.containerSize(c)
	}
}

// leafSize returns the size every leaf adopts: fixed dimensions when
// enabled, the default leaf constants otherwise.
func (s *childSizer) leafSize() Size {
	w, h := model.DefaultLeafWidth, model.DefaultLeafHeight
	if fd := s.in.FixedDimensions; fd != nil {
		if fd.LeafFixedWidth && fd.LeafWidth > 0 {
			w = fd.LeafWidth
		}
		if fd.LeafFixedHeight && fd.LeafHeight > 0 {
			h = fd.LeafHeight
		}
	}
	return Size{
		W: math.Max(model.MinWidth, w),
		H: math.Max(model.MinHeight, h),
	}
}

// containerSize computes the minimum size of a parent-type child by
// recursing into its subtree. Without grandchildren (or without the full
// rectangle set) it falls back to the global minimums.
func (s *childSizer) containerSize(c model.Rectangle) Size {
	kids := s.index.Children(c.ID)
	if len(kids) == 0 {
		return Size{W: model.MinWidth, H: model.MinHeight}
	}
	return s.alg.MinimumParentSize(Input{
		Parent:          c,
		Children:        kids,
		Margins:         s.in.Margins,
		FixedDimensions: s.in.FixedDimensions,
		All:             s.in.All,
		Depth:           s.in.Depth + 1,
	})
}

// placedSize returns the size a child should adopt in the final layout.
// Leaves and text labels always take their computed size; container
// children keep their current dimensions when those exceed the computed
// minimum, so already-expanded subtrees are not clipped.
func (s *childSizer) placedSize(c model.Rectangle) Size {
	min := s.size(c)
	if c.Type == model.TypeLeaf || c.Type == model.TypeTextLabel {
		return min
	}
	return Size{
		W: math.Max(min.W, c.W),
		H: math.Max(min.H, c.H),
	}
}

// maxSize returns the component-wise maximum of the given sizes.
func maxSize(sizes []Size) Size {
	var out Size
	for _, s := range sizes {
		if s.W > out.W {
			out.W = s.W
		}
		if s.H > out.H {
			out.H = s.H
		}
	}
	return out
}
