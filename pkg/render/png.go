package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// RenderPNG rasterizes a positioned diagram to PNG. The scale factor
// (default 2.0) multiplies the pixel dimensions for sharper output.
func RenderPNG(d model.Diagram, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	sc := r.buildScene(d)
	p := r.palette()

	dc := gg.NewContext(int(sc.Width*r.scale), int(sc.Height*r.scale))
	dc.Scale(r.scale, r.scale)
	dc.SetColor(toColor(p.Background))
	dc.Clear()

	fontSize := r.gridSize * 1.2
	face, err := loadFace(fontSize)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	dc.SetFontFace(face)

	for _, b := range sc.Boxes {
		drawBoxPNG(dc, b, p, r.gridSize, fontSize)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBoxPNG(dc *gg.Context, b box, p palette, gridSize, fontSize float64) {
	if b.Kind == model.TypeTextLabel {
		dc.SetColor(toColor(p.Text))
		dc.DrawString(b.Label, b.X, b.Y+fontSize)
		return
	}

	dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, 2)
	dc.SetColor(toColor(p.fill(b.Depth)))
	dc.FillPreserve()
	dc.SetColor(toColor(p.Stroke))
	dc.SetLineWidth(1.5)
	dc.Stroke()

	if b.Label == "" {
		return
	}

	dc.SetColor(toColor(p.Text))
	if b.HasKids {
		dc.DrawString(b.Label, b.X+gridSize*0.5, b.Y+fontSize+gridSize*0.3)
		return
	}
	dc.DrawStringAnchored(b.Label, b.X+b.W/2, b.Y+b.H/2, 0.5, 0.5)
}

func loadFace(size float64) (font.Face, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func toColor(c rgb) color.Color {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
}
