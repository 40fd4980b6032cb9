package layout

import (
	"math"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// =============================================================================
// Mixed-Flow Layout Algorithm (default)
// =============================================================================

// Scoring weights. These are empirically tuned constants; treat them as
// tunables, not derived values.
const (
	scoreEfficiencyWeight = 0.5
	scoreAspectWeight     = 0.2
	scoreBalanceWeight    = 0.1

	// Grid-bonus composition for matrix candidates.
	gridUtilizationWeight = 0.3
	gridAspectWeight      = 0.2
	gridPerfectBonus      = 0.2

	// Candidate-type biases: single-column arrangements tend to be
	// oversized for wide parents, grids tend to read well.
	columnTypeBias = -0.1
	gridTypeBias   = 0.1
)

// Candidate kinds.
const (
	candRow       = "row"
	candColumn    = "column"
	candTwoColumn = "two-column"
	candTwoRow    = "two-row"
	candMatrix    = "matrix"
)

// MixedFlowAlgorithm generates several candidate arrangements for one
// parent's children - single row, single column, balanced two-column and
// two-row splits, and matrix grids - scores each by packing efficiency,
// aspect ratio and balance, and places the highest-scoring candidate.
type MixedFlowAlgorithm struct{}

// NewMixedFlow creates a mixed-flow layout algorithm.
func NewMixedFlow() *MixedFlowAlgorithm { return &MixedFlowAlgorithm{} }

// Name returns the registry identifier.
func (a *MixedFlowAlgorithm) Name() string { return AlgorithmMixedFlow }

// CanApplyLayout reports whether repositioning is allowed under meta.
func (a *MixedFlowAlgorithm) CanApplyLayout(meta *model.Metadata) bool { return canApply(meta) }

// CalculateLayout places the best-scoring candidate arrangement, honoring
// the manual / preserve-exact-layout precedence rules.
func (a *MixedFlowAlgorithm) CalculateLayout(in Input) Result {
	return applyGate(a, in)
}

func (a *MixedFlowAlgorithm) doLayout(in Input) Result {
	size := a.MinimumParentSize(in)
	if len(in.Children) == 0 {
		return Result{Rectangles: []model.Rectangle{}, MinParentSize: &size}
	}

	best := a.bestCandidate(in, placedSizes(a, in))

	// Offset the candidate's relative coordinates into the parent's
	// interior, centering the group in any remaining slack.
	m := in.Margins
	availW := in.Parent.W - 2*m.Margin
	availH := in.Parent.H - m.LabelMargin - 2*m.Margin
	originX := in.Parent.X + m.Margin + math.Max(0, (availW-best.extent.W)/2)
	originY := in.Parent.Y + m.LabelMargin + m.Margin + math.Max(0, (availH-best.extent.H)/2)

	out := cloneRects(in.Children)
	for i := range out {
		out[i].W = best.sizes[i].W
		out[i].H = best.sizes[i].H
		out[i].X = originX + best.positions[i].X
		out[i].Y = originY + best.positions[i].Y
	}

	return Result{Rectangles: out, MinParentSize: &size}
}

// MinimumParentSize returns the best candidate's extent plus margins,
// computed from theoretical child sizes so repeated fit operations are
// stable.
func (a *MixedFlowAlgorithm) MinimumParentSize(in Input) Size {
	m := in.Margins
	if len(in.Children) == 0 {
		return Size{
			W: math.Max(model.MinWidth, 2*m.Margin),
			H: math.Max(model.MinHeight, m.LabelMargin+2*m.Margin),
		}
	}

	sizer := newChildSizer(a, in)
	sizes := make([]Size, len(in.Children))
	for i, c := range in.Children {
		sizes[i] = sizer.size(c)
	}

	best := a.bestCandidate(in, sizes)
	return Size{
		W: best.extent.W + 2*m.Margin,
		H: best.extent.H + m.LabelMargin + 2*m.Margin,
	}
}

// GridDimensions delegates to the grid shape computation.
func (a *MixedFlowAlgorithm) GridDimensions(count int, prefs *model.LayoutPreferences) (int, int) {
	return NewGrid().GridDimensions(count, prefs)
}

// placedSizes computes the final sizes children adopt under this algorithm.
func placedSizes(a Algorithm, in Input) []Size {
	sizer := newChildSizer(a, in)
	sizes := make([]Size, len(in.Children))
	for i, c := range in.Children {
		sizes[i] = sizer.placedSize(c)
	}
	return sizes
}

// =============================================================================
// Candidate Generation
// =============================================================================

// candidate is one generated arrangement: per-child relative positions and
// sizes, the group extent, and the scoring inputs that depend on how the
// candidate was built.
type candidate struct {
	kind      string
	positions []Point
	sizes     []Size
	extent    Size

	// balancePenalty applies to two-column/two-row splits only.
	balancePenalty float64

	// Matrix shape, set for grid candidates.
	cols, rows int
}

// bestCandidate generates all applicable candidates for the child sizes
// and returns the highest-scoring one. Ties favor the first-generated
// candidate, which makes selection deterministic for fixed input.
func (a *MixedFlowAlgorithm) bestCandidate(in Input, sizes []Size) candidate {
	cands := a.generate(in, sizes)

	best := cands[0]
	bestScore := a.score(best, sizes)
	for _, c := range cands[1:] {
		if s := a.score(c, sizes); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// generate produces the candidate set for n children:
// single row and single column always; two-column and two-row splits for
// n > 2; matrix grids for n ≥ 4.
func (a *MixedFlowAlgorithm) generate(in Input, sizes []Size) []candidate {
	gutter := in.Margins.Margin
	n := len(sizes)

	cands := []candidate{
		rowCandidate(sizes, gutter),
		columnCandidate(sizes, gutter),
	}
	if n > 2 {
		cands = append(cands,
			twoColumnCandidate(sizes, gutter),
			twoRowCandidate(sizes, gutter),
		)
	}
	if n >= 4 {
		for _, shape := range matrixShapes(n) {
			cands = append(cands, matrixCandidate(sizes, gutter, shape.cols, shape.rows))
		}
	}
	return cands
}

// rowCandidate lays all children in a single left-to-right row.
func rowCandidate(sizes []Size, gutter float64) candidate {
	c := candidate{kind: candRow, sizes: sizes, positions: make([]Point, len(sizes))}
	var x float64
	for i, s := range sizes {
		if i > 0 {
			x += gutter
		}
		c.positions[i] = Point{X: x}
		x += s.W
		c.extent.H = math.Max(c.extent.H, s.H)
	}
	c.extent.W = x
	return c
}

// columnCandidate stacks all children in a single column.
func columnCandidate(sizes []Size, gutter float64) candidate {
	c := candidate{kind: candColumn, sizes: sizes, positions: make([]Point, len(sizes))}
	var y float64
	for i, s := range sizes {
		if i > 0 {
			y += gutter
		}
		c.positions[i] = Point{Y: y}
		y += s.H
		c.extent.W = math.Max(c.extent.W, s.W)
	}
	c.extent.H = y
	return c
}

// twoColumnCandidate splits children into two groups by greedy height
// balancing: each child goes to whichever column currently has the smaller
// running height. Columns are placed side by side.
func twoColumnCandidate(sizes []Size, gutter float64) candidate {
	c := candidate{kind: candTwoColumn, sizes: sizes, positions: make([]Point, len(sizes))}

	var heights [2]float64
	var widths [2]float64
	groups := make([]int, len(sizes))
	for i, s := range sizes {
		g := 0
		if heights[1] < heights[0] {
			g = 1
		}
		groups[i] = g
		if heights[g] > 0 {
			heights[g] += gutter
		}
		c.positions[i] = Point{Y: heights[g]}
		heights[g] += s.H
		widths[g] = math.Max(widths[g], s.W)
	}

	// Second column sits to the right of the first.
	for i := range sizes {
		if groups[i] == 1 {
			c.positions[i].X = widths[0] + gutter
		}
	}

	c.extent.W = widths[0] + gutter + widths[1]
	c.extent.H = math.Max(heights[0], heights[1])
	c.balancePenalty = splitPenalty(heights[0], heights[1])
	return c
}

// twoRowCandidate is the symmetric width-balancing split with the two rows
// stacked vertically.
func twoRowCandidate(sizes []Size, gutter float64) candidate {
	c := candidate{kind: candTwoRow, sizes: sizes, positions: make([]Point, len(sizes))}

	var widths [2]float64
	var heights [2]float64
	groups := make([]int, len(sizes))
	for i, s := range sizes {
		g := 0
		if widths[1] < widths[0] {
			g = 1
		}
		groups[i] = g
		if widths[g] > 0 {
			widths[g] += gutter
		}
		c.positions[i] = Point{X: widths[g]}
		widths[g] += s.W
		heights[g] = math.Max(heights[g], s.H)
	}

	for i := range sizes {
		if groups[i] == 1 {
			c.positions[i].Y = heights[0] + gutter
		}
	}

	c.extent.W = math.Max(widths[0], widths[1])
	c.extent.H = heights[0] + gutter + heights[1]
	c.balancePenalty = splitPenalty(widths[0], widths[1])
	return c
}

// splitPenalty normalizes the difference between two group dimensions.
func splitPenalty(a, b float64) float64 {
	max := math.Max(a, b)
	if max == 0 {
		return 0
	}
	return math.Abs(a-b) / max
}

// gridShape is a cols×rows matrix shape.
type gridShape struct{ cols, rows int }

// matrixShapes returns the grid shapes to try for n children. Special
// counts map to their natural rectangles; for other counts we search column
// counts from 2 up to ceil(sqrt(1.5n)) for grids whose cell count is within
// 2 of n.
func matrixShapes(n int) []gridShape {
	switch n {
	case 4:
		return []gridShape{{2, 2}}
	case 6:
		return []gridShape{{2, 3}, {3, 2}}
	case 8:
		return []gridShape{{2, 4}, {4, 2}}
	case 9:
		return []gridShape{{3, 3}}
	}

	var shapes []gridShape
	maxCols := int(math.Ceil(math.Sqrt(1.5 * float64(n))))
	for cols := 2; cols <= maxCols; cols++ {
		rows := (n + cols - 1) / cols
		if cells := cols * rows; cells >= n && cells-n <= 2 {
			shapes = append(shapes, gridShape{cols, rows})
		}
	}
	return shapes
}

// matrixCandidate packs children into a cols×rows grid of uniform cells
// (max child width × max child height), each child centered in its cell.
func matrixCandidate(sizes []Size, gutter float64, cols, rows int) candidate {
	c := candidate{
		kind:      candMatrix,
		sizes:     sizes,
		positions: make([]Point, len(sizes)),
		cols:      cols,
		rows:      rows,
	}
	cell := maxSize(sizes)
	for i, s := range sizes {
		col := i % cols
		row := i / cols
		c.positions[i] = Point{
			X: float64(col)*(cell.W+gutter) + (cell.W-s.W)/2,
			Y: float64(row)*(cell.H+gutter) + (cell.H-s.H)/2,
		}
	}
	c.extent.W = float64(cols)*cell.W + float64(cols-1)*gutter
	c.extent.H = float64(rows)*cell.H + float64(rows-1)*gutter
	return c
}

// =============================================================================
// Scoring
// =============================================================================

// score rates a candidate; higher is better.
//
//	score = 0.5×efficiency − 0.2×aspectPenalty − 0.1×balancePenalty
//	        + gridBonus + typeBonus
//
// efficiency is the ratio of summed child areas to the candidate's bounding
// area; aspectPenalty is |ln(w/h)|, penalizing extreme aspect ratios.
func (a *MixedFlowAlgorithm) score(c candidate, sizes []Size) float64 {
	var childArea float64
	for _, s := range sizes {
		childArea += s.W * s.H
	}

	boundingArea := c.extent.W * c.extent.H
	var efficiency float64
	if boundingArea > 0 {
		efficiency = childArea / boundingArea
	}

	var aspectPenalty float64
	if c.extent.W > 0 && c.extent.H > 0 {
		aspectPenalty = math.Abs(math.Log(c.extent.W / c.extent.H))
	}

	score := scoreEfficiencyWeight*efficiency -
		scoreAspectWeight*aspectPenalty -
		scoreBalanceWeight*c.balancePenalty

	switch c.kind {
	case candColumn:
		score += columnTypeBias
	case candMatrix:
		score += a.gridBonus(c, len(sizes)) + gridTypeBias
	}
	return score
}

// gridBonus rewards matrix candidates for cell utilization and shape
// balance, with a flat bonus for perfect grids (n == cols×rows).
func (a *MixedFlowAlgorithm) gridBonus(c candidate, n int) float64 {
	cells := c.cols * c.rows
	if cells == 0 {
		return 0
	}
	utilization := float64(n) / float64(cells)
	balance := float64(min(c.cols, c.rows)) / float64(max(c.cols, c.rows))

	bonus := gridUtilizationWeight*utilization + gridAspectWeight*balance
	if n == cells {
		bonus += gridPerfectBonus
	}
	return bonus
}

// Interface guard.
var _ Algorithm = (*MixedFlowAlgorithm)(nil)
