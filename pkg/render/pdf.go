package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// pdfPointsPerPixel converts the scene's pixel space to PDF points.
const pdfPointsPerPixel = 0.75

// RenderPDF renders a positioned diagram as a single-page vector PDF.
// The page is sized to fit the diagram.
func RenderPDF(d model.Diagram, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	sc := r.buildScene(d)
	p := r.palette()

	pageW := sc.Width * pdfPointsPerPixel
	pageH := sc.Height * pdfPointsPerPixel

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFillColor(p.Background.R, p.Background.G, p.Background.B)
	pdf.Rect(0, 0, pageW, pageH, "F")

	fontSize := r.gridSize * 1.2 * pdfPointsPerPixel
	pdf.SetFont("Helvetica", "", fontSize)

	for _, b := range sc.Boxes {
		drawBoxPDF(pdf, b, p, r.gridSize*pdfPointsPerPixel, fontSize)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBoxPDF(pdf *fpdf.Fpdf, b box, p palette, gridSize, fontSize float64) {
	x := b.X * pdfPointsPerPixel
	y := b.Y * pdfPointsPerPixel
	w := b.W * pdfPointsPerPixel
	h := b.H * pdfPointsPerPixel

	if b.Kind == model.TypeTextLabel {
		pdf.SetTextColor(p.Text.R, p.Text.G, p.Text.B)
		pdf.Text(x, y+fontSize, b.Label)
		return
	}

	fill := p.fill(b.Depth)
	pdf.SetFillColor(fill.R, fill.G, fill.B)
	pdf.SetDrawColor(p.Stroke.R, p.Stroke.G, p.Stroke.B)
	pdf.SetLineWidth(1.5 * pdfPointsPerPixel)
	pdf.RoundedRect(x, y, w, h, 2, "1234", "FD")

	if b.Label == "" {
		return
	}

	pdf.SetTextColor(p.Text.R, p.Text.G, p.Text.B)
	if b.HasKids {
		pdf.Text(x+gridSize*0.5, y+fontSize+gridSize*0.3, b.Label)
		return
	}
	labelW := pdf.GetStringWidth(b.Label)
	pdf.Text(x+(w-labelW)/2, y+h/2+fontSize/3, b.Label)
}
