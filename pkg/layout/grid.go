package layout

import (
	"math"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// =============================================================================
// Grid Layout Algorithm
// =============================================================================

// GridAlgorithm packs children into a uniform grid of equal-sized cells.
// Cell size is the maximum child width × maximum child height; each child
// is centered within its cell. The default shape is near-square; a
// fill-strategy preference on the parent caps columns or rows instead.
type GridAlgorithm struct{}

// NewGrid creates a grid layout algorithm.
func NewGrid() *GridAlgorithm { return &GridAlgorithm{} }

// Name returns the registry identifier.
func (g *GridAlgorithm) Name() string { return AlgorithmGrid }

// CanApplyLayout reports whether repositioning is allowed under meta.
func (g *GridAlgorithm) CanApplyLayout(meta *model.Metadata) bool { return canApply(meta) }

// CalculateLayout arranges children into the grid, honoring the manual /
// preserve-exact-layout precedence rules.
func (g *GridAlgorithm) CalculateLayout(in Input) Result {
	return applyGate(g, in)
}

func (g *GridAlgorithm) doLayout(in Input) Result {
	size := g.MinimumParentSize(in)
	if len(in.Children) == 0 {
		return Result{Rectangles: []model.Rectangle{}, MinParentSize: &size}
	}

	cols, _ := g.GridDimensions(len(in.Children), in.Parent.LayoutPreferences)
	sizer := newChildSizer(g, in)

	placed := make([]Size, len(in.Children))
	for i, c := range in.Children {
		placed[i] = sizer.placedSize(c)
	}
	cell := maxSize(placed)
	spacing := in.Margins.Margin

	// Center the grid inside the parent's available interior when the
	// parent is larger than the grid extent.
	rows := (len(in.Children) + cols - 1) / cols
	gridW := float64(cols)*cell.W + float64(cols-1)*spacing
	gridH := float64(rows)*cell.H + float64(rows-1)*spacing
	availW := in.Parent.W - 2*in.Margins.Margin
	availH := in.Parent.H - in.Margins.LabelMargin - in.Margins.Margin
	offsetX := math.Max(0, (availW-gridW)/2)
	offsetY := math.Max(0, (availH-gridH)/2)

	startX := in.Parent.X + in.Margins.Margin + offsetX
	startY := in.Parent.Y + in.Margins.LabelMargin + offsetY

	out := cloneRects(in.Children)
	for i := range out {
		col := i % cols
		row := i / cols
		w, h := placed[i].W, placed[i].H
		out[i].W = w
		out[i].H = h
		out[i].X = startX + float64(col)*(cell.W+spacing) + (cell.W-w)/2
		out[i].Y = startY + float64(row)*(cell.H+spacing) + (cell.H-h)/2
	}

	return Result{Rectangles: out, MinParentSize: &size}
}

// MinimumParentSize computes the minimum enclosing size from the
// theoretical default child sizes - not the current expanded sizes - to
// avoid runaway growth on repeated fit operations.
func (g *GridAlgorithm) MinimumParentSize(in Input) Size {
	m := in.Margins
	if len(in.Children) == 0 {
		return Size{
			W: math.Max(model.MinWidth, 2*m.Margin),
			H: math.Max(model.MinHeight, m.LabelMargin+m.Margin),
		}
	}

	cols, rows := g.GridDimensions(len(in.Children), in.Parent.LayoutPreferences)
	sizer := newChildSizer(g, in)

	sizes := make([]Size, len(in.Children))
	for i, c := range in.Children {
		sizes[i] = sizer.size(c)
	}
	cell := maxSize(sizes)
	spacing := m.Margin

	return Size{
		W: float64(cols)*cell.W + float64(cols-1)*spacing + 2*m.Margin,
		H: float64(rows)*cell.H + float64(rows-1)*spacing + m.LabelMargin + m.Margin,
	}
}

// GridDimensions returns the grid shape for count children. The default is
// near-square (cols = ceil(sqrt(n))); a fill-rows-first preference caps
// columns at MaxColumns, fill-columns-first caps rows at MaxRows.
//
// The result always satisfies cols×rows ≥ count and cols×rows < count+cols
// (at most one incomplete row or column).
func (g *GridAlgorithm) GridDimensions(count int, prefs *model.LayoutPreferences) (cols, rows int) {
	if count <= 0 {
		return 0, 0
	}

	if prefs != nil {
		switch prefs.FillStrategy {
		case model.FillRowsFirst:
			cols = int(math.Ceil(math.Sqrt(float64(count))))
			if prefs.MaxColumns > 0 && cols > prefs.MaxColumns {
				cols = prefs.MaxColumns
			}
			if cols > count {
				cols = count
			}
			rows = (count + cols - 1) / cols
			return cols, rows
		case model.FillColumnsFirst:
			rows = int(math.Ceil(math.Sqrt(float64(count))))
			if prefs.MaxRows > 0 && rows > prefs.MaxRows {
				rows = prefs.MaxRows
			}
			if rows > count {
				rows = count
			}
			cols = (count + rows - 1) / rows
			return cols, rows
		}
	}

	cols = int(math.Ceil(math.Sqrt(float64(count))))
	rows = (count + cols - 1) / cols
	return cols, rows
}

// Interface guard.
var _ Algorithm = (*GridAlgorithm)(nil)
