// Package treeviz renders the rectangle hierarchy as a node-link tree
// using Graphviz, an alternative view to the nested-box renderers that
// makes the parent/child structure itself easy to inspect.
package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// Options configures tree rendering.
type Options struct {
	// Detailed includes position and size in node labels.
	// When false, only the rectangle's label (or ID) is shown.
	Detailed bool
}

// ToDOT converts a diagram's hierarchy to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
//
// Leaf rectangles are drawn filled, containers with a double border,
// and text labels with dashed outlines.
func ToDOT(d model.Diagram, opts Options) string {
	idx := model.NewIndex(d.Rectangles)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, r := range d.Rectangles {
		label := fmtLabel(r, opts.Detailed)
		attrs := fmtAttrs(r, label, len(idx.Children(r.ID)) > 0)
		fmt.Fprintf(&buf, "  %q [%s];\n", r.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, r := range d.Rectangles {
		if r.ParentID != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", r.ParentID, r.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(r model.Rectangle, detailed bool) string {
	label := r.Label
	if label == "" {
		label = r.ID
	}
	if !detailed {
		return label
	}

	parts := []string{
		fmt.Sprintf("pos: %.1f,%.1f", r.X, r.Y),
		fmt.Sprintf("size: %.1fx%.1f", r.W, r.H),
	}
	if r.IsManualPositioningEnabled {
		parts = append(parts, "manual")
	}
	if r.IsLockedAsIs {
		parts = append(parts, "locked")
	}

	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(r model.Rectangle, label string, hasChildren bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case r.IsTextLabel():
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=white")
	case hasChildren || r.IsRoot():
		attrs = append(attrs, "peripheries=2")
	default:
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz SVG header to a zero-origin
// viewBox with pixel dimensions, which embeds more predictably.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
