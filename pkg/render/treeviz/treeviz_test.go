package treeviz

import (
	"strings"
	"testing"

	"github.com/boxtree-io/boxtree/pkg/model"
)

func treeDiagram() model.Diagram {
	return model.Diagram{
		Rectangles: []model.Rectangle{
			{ID: "root", Label: "System", Type: model.TypeRoot, W: 17, H: 13},
			{ID: "svc", ParentID: "root", Type: model.TypeParent, X: 1, Y: 3, W: 8, H: 9},
			{ID: "api", ParentID: "svc", Label: "API", Type: model.TypeLeaf, X: 2, Y: 6, W: 6, H: 4},
			{ID: "note", ParentID: "root", Label: "v2", Type: model.TypeTextLabel, X: 10, Y: 3, W: 5, H: 3},
		},
		Margins: model.DefaultMargins(),
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(treeDiagram(), Options{})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Error("output is not a digraph")
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("output is not closed")
	}
	for _, want := range []string{
		`"root" -> "svc";`,
		`"svc" -> "api";`,
		`"root" -> "note";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("output missing edge %q", want)
		}
	}
	// Node labels fall back to the ID when no label is set.
	if !strings.Contains(dot, `"svc" [label="svc"`) {
		t.Error("unlabeled node does not fall back to its ID")
	}
}

func TestToDOTNodeStyles(t *testing.T) {
	dot := ToDOT(treeDiagram(), Options{})

	lines := map[string]string{}
	for _, line := range strings.Split(dot, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, id := range []string{"root", "svc", "api", "note"} {
			if strings.HasPrefix(trimmed, `"`+id+`" [`) {
				lines[id] = trimmed
			}
		}
	}

	if !strings.Contains(lines["root"], "peripheries=2") {
		t.Errorf("root node = %q, want double border", lines["root"])
	}
	if !strings.Contains(lines["svc"], "peripheries=2") {
		t.Errorf("container node = %q, want double border", lines["svc"])
	}
	if !strings.Contains(lines["api"], "fillcolor=lightgrey") {
		t.Errorf("leaf node = %q, want grey fill", lines["api"])
	}
	if !strings.Contains(lines["note"], "dashed") {
		t.Errorf("text label node = %q, want dashed outline", lines["note"])
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(treeDiagram(), Options{Detailed: true})

	if !strings.Contains(dot, "pos: 2.0,6.0") {
		t.Error("detailed output missing position")
	}
	if !strings.Contains(dot, "size: 6.0x4.0") {
		t.Error("detailed output missing size")
	}
}

func TestToDOTDetailedFlags(t *testing.T) {
	d := model.Diagram{
		Rectangles: []model.Rectangle{
			{ID: "p", Type: model.TypeRoot, W: 10, H: 8, IsManualPositioningEnabled: true, IsLockedAsIs: true},
		},
	}
	dot := ToDOT(d, Options{Detailed: true})

	if !strings.Contains(dot, "manual") || !strings.Contains(dot, "locked") {
		t.Errorf("detailed output missing flags: %s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="134pt" height="188pt" viewBox="0.00 0.00 133.59 188.00" xmlns="http://www.w3.org/2000/svg">
<g></g>
</svg>`)

	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 133.59 188.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="134" height="188"`) {
		t.Errorf("pixel dimensions not rewritten: %s", out)
	}
	if strings.Contains(out, "pt") && strings.Contains(out, `width="134pt"`) {
		t.Error("original point-based header survived")
	}
}

func TestNormalizeViewBoxNoMatch(t *testing.T) {
	in := []byte("<svg>plain</svg>")
	if got := string(normalizeViewBox(in)); got != "<svg>plain</svg>" {
		t.Errorf("normalizeViewBox changed input without a viewBox: %q", got)
	}
}
