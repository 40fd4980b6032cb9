package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Diagram - Canonical Serialization Format
// =============================================================================

// Metadata carries transient per-diagram layout flags, typically set by the
// import path. When IsImported or PreserveExactLayout is set, all layout
// algorithms return child positions unchanged for one layout pass while
// still computing minimum parent sizes.
type Metadata struct {
	IsImported          bool `json:"isImported,omitempty" bson:"is_imported,omitempty"`
	PreserveExactLayout bool `json:"preserveExactLayout,omitempty" bson:"preserve_exact_layout,omitempty"`
}

// Preserve returns true if the metadata requests exact-layout preservation.
func (m *Metadata) Preserve() bool {
	return m != nil && (m.IsImported || m.PreserveExactLayout)
}

// Diagram is the canonical serialization format for a box diagram.
// Used for files, API payloads, storage, and caching.
//
// The format is designed for round-trip fidelity: import → layout →
// export → re-import preserves all rectangle attributes.
type Diagram struct {
	ID         string      `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string      `json:"name,omitempty" bson:"name,omitempty"`
	Rectangles []Rectangle `json:"rectangles" bson:"rectangles"`

	// Global layout settings. Zero-valued margins are replaced by
	// DefaultMargins on read.
	Algorithm       string           `json:"algorithm,omitempty" bson:"algorithm,omitempty"`
	Margins         Margins          `json:"margins" bson:"margins"`
	FixedDimensions *FixedDimensions `json:"fixedDimensions,omitempty" bson:"fixed_dimensions,omitempty"`

	Metadata *Metadata `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Validate checks structural invariants: unique IDs, known types, and
// resolvable parent references.
func (d *Diagram) Validate() error {
	seen := make(map[string]bool, len(d.Rectangles))
	for _, r := range d.Rectangles {
		if r.ID == "" {
			return fmt.Errorf("rectangle with empty id")
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rectangle id %q", r.ID)
		}
		seen[r.ID] = true
		switch r.Type {
		case TypeRoot, TypeParent, TypeLeaf, TypeTextLabel:
		default:
			return fmt.Errorf("rectangle %q has unknown type %q", r.ID, r.Type)
		}
	}
	for _, r := range d.Rectangles {
		if r.ParentID != "" && !seen[r.ParentID] {
			return fmt.Errorf("rectangle %q references missing parent %q", r.ID, r.ParentID)
		}
	}
	return nil
}

// Find returns the rectangle with the given ID, or false if absent.
func (d *Diagram) Find(id string) (Rectangle, bool) {
	for _, r := range d.Rectangles {
		if r.ID == id {
			return r, true
		}
	}
	return Rectangle{}, false
}

// Apply writes updated geometries back into the diagram, matching by ID.
// Rectangles without a matching ID are ignored.
func (d *Diagram) Apply(updated []Rectangle) {
	for _, u := range updated {
		for i := range d.Rectangles {
			if d.Rectangles[i].ID == u.ID {
				d.Rectangles[i].X = u.X
				d.Rectangles[i].Y = u.Y
				d.Rectangles[i].W = u.W
				d.Rectangles[i].H = u.H
				break
			}
		}
	}
}

// =============================================================================
// Diagram Serialization API
// =============================================================================

// MarshalDiagram serializes a Diagram to pretty-printed JSON bytes.
func MarshalDiagram(d Diagram) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDiagram deserializes JSON bytes into a Diagram and validates it.
// Zero-valued margins are replaced with the defaults.
func UnmarshalDiagram(data []byte) (Diagram, error) {
	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return Diagram{}, fmt.Errorf("unmarshal diagram: %w", err)
	}
	if d.Margins == (Margins{}) {
		d.Margins = DefaultMargins()
	}
	if err := d.Validate(); err != nil {
		return Diagram{}, fmt.Errorf("invalid diagram: %w", err)
	}
	return d, nil
}

// ReadDiagram decodes a JSON diagram from an io.Reader.
// Use ReadDiagramFile for files or pass bytes.NewReader for in-memory data.
func ReadDiagram(r io.Reader) (Diagram, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Diagram{}, fmt.Errorf("read: %w", err)
	}
	return UnmarshalDiagram(data)
}

// ReadDiagramFile reads a JSON file and returns the decoded Diagram.
func ReadDiagramFile(path string) (Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Diagram{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalDiagram(data)
}

// WriteDiagram writes a Diagram as JSON to an io.Writer.
func WriteDiagram(d Diagram, w io.Writer) error {
	data, err := MarshalDiagram(d)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteDiagramFile writes a Diagram to a JSON file.
// The file is created with 0644 permissions.
func WriteDiagramFile(d Diagram, path string) error {
	data, err := MarshalDiagram(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
