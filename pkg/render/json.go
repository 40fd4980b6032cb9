package render

import (
	"github.com/boxtree-io/boxtree/pkg/model"
)

// RenderJSON emits the positioned diagram as indented JSON, suitable for
// re-importing or feeding other tools.
func RenderJSON(d model.Diagram) ([]byte, error) {
	return model.MarshalDiagram(d)
}
