// Package render turns positioned diagrams into visual output.
//
// The renderers draw the rectangle hierarchy as nested boxes: fills
// darken with nesting depth, labels sit in the top label band of parent
// boxes and centered in leaf boxes. All renderers share the same
// coordinate transform, grid units scaled by a configurable pixel size.
//
// # Formats
//
//   - [RenderSVG] builds the SVG document directly.
//   - [RenderPNG] rasterizes onto a 2D canvas.
//   - [RenderPDF] produces a single-page vector PDF.
//   - [RenderJSON] emits the positioned diagram as JSON.
//
// For node-link tree views of the hierarchy see the treeviz subpackage.
package render

import (
	"cmp"
	"slices"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// DefaultGridSize is the pixel size of one grid unit.
const DefaultGridSize = 10.0

// canvasPadding is the whitespace around the diagram, in grid units.
const canvasPadding = 2.0

// Style selects a color palette.
type Style string

const (
	StyleSimple    Style = "simple"
	StyleBlueprint Style = "blueprint"
)

// Option configures a renderer.
type Option func(*renderer)

type renderer struct {
	gridSize float64
	style    Style
	scale    float64
}

// WithGridSize sets the pixel size of one grid unit.
func WithGridSize(s float64) Option { return func(r *renderer) { r.gridSize = s } }

// WithStyle selects the color palette.
func WithStyle(s Style) Option { return func(r *renderer) { r.style = s } }

// WithScale sets the raster scale factor for PNG output (default 2.0).
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

func newRenderer(opts ...Option) renderer {
	r := renderer{gridSize: DefaultGridSize, style: StyleSimple, scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// =============================================================================
// Scene Construction
// =============================================================================

// box is a draw-ready rectangle in pixel coordinates.
type box struct {
	ID      string
	Label   string
	X, Y    float64
	W, H    float64
	Depth   int
	Kind    string
	HasKids bool
}

// scene holds everything a format-specific renderer needs to draw.
type scene struct {
	Width  float64
	Height float64
	Boxes  []box
}

// buildScene converts a diagram into pixel-space boxes, parents before
// children so fills layer correctly.
func (r renderer) buildScene(d model.Diagram) scene {
	idx := model.NewIndex(d.Rectangles)

	bounds := model.BoundingBox(d.Rectangles)
	offX := canvasPadding - bounds.X
	offY := canvasPadding - bounds.Y

	boxes := make([]box, 0, len(d.Rectangles))
	for _, rect := range d.Rectangles {
		boxes = append(boxes, box{
			ID:      rect.ID,
			Label:   rect.Label,
			X:       (rect.X + offX) * r.gridSize,
			Y:       (rect.Y + offY) * r.gridSize,
			W:       rect.W * r.gridSize,
			H:       rect.H * r.gridSize,
			Depth:   idx.Depth(rect.ID),
			Kind:    rect.Type,
			HasKids: len(idx.Children(rect.ID)) > 0,
		})
	}

	// Shallow boxes first so deeper ones paint on top.
	slices.SortStableFunc(boxes, func(a, b box) int {
		return cmp.Compare(a.Depth, b.Depth)
	})

	return scene{
		Width:  (bounds.W + 2*canvasPadding) * r.gridSize,
		Height: (bounds.H + 2*canvasPadding) * r.gridSize,
		Boxes:  boxes,
	}
}

// =============================================================================
// Palette
// =============================================================================

type rgb struct {
	R, G, B int
}

type palette struct {
	Background rgb
	Stroke     rgb
	Text       rgb
	// Fills by nesting depth, cycled when the tree is deeper.
	Fills []rgb
}

var palettes = map[Style]palette{
	StyleSimple: {
		Background: rgb{255, 255, 255},
		Stroke:     rgb{55, 65, 81},
		Text:       rgb{17, 24, 39},
		Fills: []rgb{
			{243, 244, 246},
			{229, 231, 235},
			{209, 213, 219},
			{156, 163, 175},
		},
	},
	StyleBlueprint: {
		Background: rgb{23, 37, 84},
		Stroke:     rgb{191, 219, 254},
		Text:       rgb{239, 246, 255},
		Fills: []rgb{
			{30, 58, 138},
			{29, 78, 216},
			{37, 99, 235},
			{59, 130, 246},
		},
	},
}

func (r renderer) palette() palette {
	if p, ok := palettes[r.style]; ok {
		return p
	}
	return palettes[StyleSimple]
}

func (p palette) fill(depth int) rgb {
	if depth < 0 {
		depth = 0
	}
	return p.Fills[depth%len(p.Fills)]
}
