// Package model defines the rectangle data model for hierarchical box
// diagrams.
//
// A diagram is a flat set of rectangles linked through parent IDs into a
// containment tree: root rectangles contain parent rectangles, which contain
// leaf rectangles; free-floating text labels can appear at any level. All
// coordinates are in grid units, not pixels - conversion to pixels happens
// in the render sinks.
//
// The package also provides the canonical JSON serialization for diagrams
// (see Diagram) and a parent→children adjacency index (see Index) used by
// the layout engine for depth queries and recursive sizing.
package model

import (
	"github.com/google/uuid"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Rectangle types.
const (
	TypeRoot      = "root"
	TypeParent    = "parent"
	TypeLeaf      = "leaf"
	TypeTextLabel = "textLabel"
)

// Fill strategies for grid layout preferences.
const (
	FillRowsFirst    = "fill-rows-first"
	FillColumnsFirst = "fill-columns-first"
)

// Orientations for flow layout preferences.
const (
	OrientationRow = "ROW"
	OrientationCol = "COL"
)

// Minimum rectangle dimensions in grid units. Enforced at creation and by
// every layout algorithm's sizing step.
const (
	MinWidth  = 5.0
	MinHeight = 3.0
)

// Default leaf dimensions in grid units, used when no fixed dimensions are
// configured.
const (
	DefaultLeafWidth  = 6.0
	DefaultLeafHeight = 4.0
)

// DefaultFontSize is the font size assumed for text labels that don't carry
// an explicit TextFontSize.
const DefaultFontSize = 14.0

// =============================================================================
// Rectangle
// =============================================================================

// LayoutPreferences carries optional per-rectangle layout overrides.
//
// FillStrategy forces the grid algorithm for this parent and controls the
// fill direction; MaxColumns/MaxRows cap the grid shape. Orientation
// overrides the depth-derived flow direction for the flow algorithm.
type LayoutPreferences struct {
	FillStrategy string `json:"fillStrategy,omitempty" bson:"fill_strategy,omitempty"`
	MaxColumns   int    `json:"maxColumns,omitempty" bson:"max_columns,omitempty"`
	MaxRows      int    `json:"maxRows,omitempty" bson:"max_rows,omitempty"`
	Orientation  string `json:"orientation,omitempty" bson:"orientation,omitempty"`
}

// Rectangle is a single node in the box-diagram hierarchy.
//
// The layout engine treats rectangles as values: it reads geometry, type and
// flags, and returns new geometries for the direct children of one parent at
// a time. It never mutates a rectangle in place.
type Rectangle struct {
	ID       string `json:"id" bson:"id"`
	ParentID string `json:"parentId,omitempty" bson:"parent_id,omitempty"`

	// Geometry in grid units.
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`

	Type  string `json:"type" bson:"type"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`

	// TextFontSize applies to textLabel rectangles only.
	TextFontSize float64 `json:"textFontSize,omitempty" bson:"text_font_size,omitempty"`

	// IsManualPositioningEnabled disables all automatic layout for this
	// rectangle's direct children; their coordinates are ground truth.
	IsManualPositioningEnabled bool `json:"isManualPositioningEnabled,omitempty" bson:"manual_positioning,omitempty"`

	// IsLockedAsIs excludes this rectangle from fit-to-children resizing,
	// independent of manual positioning.
	IsLockedAsIs bool `json:"isLockedAsIs,omitempty" bson:"locked_as_is,omitempty"`

	LayoutPreferences *LayoutPreferences `json:"layoutPreferences,omitempty" bson:"layout_preferences,omitempty"`
}

// Right returns the x coordinate of the rectangle's right edge.
func (r Rectangle) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the rectangle's bottom edge.
func (r Rectangle) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center of the rectangle.
func (r Rectangle) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rectangle) CenterY() float64 { return r.Y + r.H/2 }

// IsRoot returns true if the rectangle has no parent.
func (r Rectangle) IsRoot() bool { return r.ParentID == "" }

// IsTextLabel returns true for free-floating text label rectangles.
func (r Rectangle) IsTextLabel() bool { return r.Type == TypeTextLabel }

// IsLeaf returns true for leaf rectangles.
func (r Rectangle) IsLeaf() bool { return r.Type == TypeLeaf }

// FontSize returns the effective font size for a text label.
func (r Rectangle) FontSize() float64 {
	if r.TextFontSize > 0 {
		return r.TextFontSize
	}
	return DefaultFontSize
}

// Intersects reports whether two rectangles overlap with positive area.
// Touching edges do not count as an intersection.
func (r Rectangle) Intersects(o Rectangle) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// ContainsRect reports whether o lies entirely within r.
func (r Rectangle) ContainsRect(o Rectangle) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// NewID generates a unique rectangle ID.
func NewID() string { return uuid.NewString() }

// =============================================================================
// Engine Configuration
// =============================================================================

// Margins configures the spacing the layout engine reserves around children.
// Margin is the uniform side/bottom spacing; LabelMargin is the extra top
// spacing reserved for the parent's own label text. Both may be fractional.
type Margins struct {
	Margin      float64 `json:"margin" bson:"margin" toml:"margin"`
	LabelMargin float64 `json:"labelMargin" bson:"label_margin" toml:"label_margin"`
}

// DefaultMargins returns the standard editor margins.
func DefaultMargins() Margins {
	return Margins{Margin: 1, LabelMargin: 2}
}

// FixedDimensions forces all leaf rectangles to exact dimensions regardless
// of content, overriding algorithm-computed sizes.
type FixedDimensions struct {
	LeafFixedWidth  bool    `json:"leafFixedWidth" bson:"leaf_fixed_width" toml:"leaf_fixed_width"`
	LeafFixedHeight bool    `json:"leafFixedHeight" bson:"leaf_fixed_height" toml:"leaf_fixed_height"`
	LeafWidth       float64 `json:"leafWidth" bson:"leaf_width" toml:"leaf_width"`
	LeafHeight      float64 `json:"leafHeight" bson:"leaf_height" toml:"leaf_height"`
}

// =============================================================================
// Bounding Boxes
// =============================================================================

// BoundingBox returns the minimal enclosing box of a rectangle set.
// Returns a zero rectangle when rects is empty.
func BoundingBox(rects []Rectangle) Rectangle {
	if len(rects) == 0 {
		return Rectangle{}
	}
	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].Right(), rects[0].Bottom()
	for _, r := range rects[1:] {
		if r.X < minX {
			minX = r.X
		}
		if r.Y < minY {
			minY = r.Y
		}
		if r.Right() > maxX {
			maxX = r.Right()
		}
		if r.Bottom() > maxY {
			maxY = r.Bottom()
		}
	}
	return Rectangle{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
