package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/boxtree-io/boxtree/pkg/model"
)

const labelFontFamily = "Helvetica, Arial, sans-serif"

// RenderSVG renders a positioned diagram as an SVG document.
func RenderSVG(d model.Diagram, opts ...Option) []byte {
	r := newRenderer(opts...)
	sc := r.buildScene(d)
	p := r.palette()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		sc.Width, sc.Height, sc.Width, sc.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", hexColor(p.Background))

	for _, b := range sc.Boxes {
		renderBox(&buf, b, p, r.gridSize)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderBox(buf *bytes.Buffer, b box, p palette, gridSize float64) {
	if b.Kind == model.TypeTextLabel {
		fontSize := gridSize * 1.2
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="%s" font-size="%.1f" fill="%s">%s</text>`+"\n",
			b.X, b.Y+fontSize, labelFontFamily, fontSize, hexColor(p.Text), escapeXML(b.Label))
		return
	}

	fmt.Fprintf(buf, `  <rect id="box-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="1.5" rx="2"/>`+"\n",
		escapeXML(b.ID), b.X, b.Y, b.W, b.H, hexColor(p.fill(b.Depth)), hexColor(p.Stroke))

	if b.Label == "" {
		return
	}

	fontSize := gridSize * 1.2
	if b.HasKids {
		// Parents carry their label in the top band, left-aligned.
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="%s" font-size="%.1f" fill="%s">%s</text>`+"\n",
			b.X+gridSize*0.5, b.Y+fontSize+gridSize*0.3, labelFontFamily, fontSize, hexColor(p.Text), escapeXML(b.Label))
		return
	}

	// Leaves center their label.
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="%s" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		b.X+b.W/2, b.Y+b.H/2, labelFontFamily, fontSize, hexColor(p.Text), escapeXML(b.Label))
}

func hexColor(c rgb) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string {
	return xmlReplacer.Replace(s)
}
