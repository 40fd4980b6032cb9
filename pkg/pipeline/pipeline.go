// Package pipeline provides the core layout → render pipeline for boxtree.
//
// This package implements the complete load → layout → render flow that
// can be used by CLI, API, and embedding applications. Centralizing it
// ensures consistent behavior across all entry points.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: run a bottom-up fit-to-children pass over the whole diagram
//     using the configured layout algorithm
//  2. Render: generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline,
// and both are cached under content hashes.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, manager, logger)
//	opts := pipeline.Options{Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, diagram, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/boxtree-io/boxtree/pkg/errors"
	"github.com/boxtree-io/boxtree/pkg/layout"
	"github.com/boxtree-io/boxtree/pkg/model"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// Style constants for render sinks.
const (
	StyleSimple    = "simple"
	StyleBlueprint = "blueprint"
)

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StyleSimple:    true,
	StyleBlueprint: true,
}

// DefaultGridSize is the default pixel size of one grid unit in rendered
// output.
const DefaultGridSize = 10.0

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Algorithm string                 `json:"algorithm,omitempty"`
	Margins   *model.Margins         `json:"margins,omitempty"` // overrides the diagram's margins
	Fixed     *model.FixedDimensions `json:"fixed,omitempty"`   // overrides the diagram's fixed dimensions
	Preserve  bool                   `json:"preserve,omitempty"` // force a preserve-exact-layout pass
	Refresh   bool                   `json:"refresh,omitempty"`  // bypass caches

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	GridSize float64  `json:"grid_size,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset options with pipeline defaults.
func (o *Options) SetDefaults() {
	if o.Algorithm == "" {
		o.Algorithm = layout.DefaultAlgorithm
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = StyleSimple
	}
	if o.GridSize == 0 {
		o.GridSize = DefaultGridSize
	}
}

// Validate checks option values, returning structured configuration
// errors for unknown algorithms, formats, or styles.
func (o *Options) Validate() error {
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat,
				"unknown format %q (supported: svg, png, pdf, json, dot)", f)
		}
	}
	if o.Style != "" && !ValidStyles[o.Style] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"unknown style %q (supported: simple, blueprint)", o.Style)
	}
	if o.Algorithm != "" {
		if _, err := layout.New(o.Algorithm); err != nil {
			return err
		}
	}
	return nil
}

// engineMargins resolves the margins for a layout pass: explicit override,
// then the diagram's own margins, then the defaults.
func (o *Options) engineMargins(d model.Diagram) model.Margins {
	if o.Margins != nil {
		return *o.Margins
	}
	if d.Margins != (model.Margins{}) {
		return d.Margins
	}
	return model.DefaultMargins()
}

// engineFixed resolves fixed leaf dimensions: explicit override first,
// then the diagram's own setting.
func (o *Options) engineFixed(d model.Diagram) *model.FixedDimensions {
	if o.Fixed != nil {
		return o.Fixed
	}
	return d.FixedDimensions
}

// engineMetadata resolves the layout pass metadata: the Preserve option
// forces a preservation pass on top of the diagram's own flags.
func (o *Options) engineMetadata(d model.Diagram) *model.Metadata {
	if o.Preserve {
		return &model.Metadata{PreserveExactLayout: true}
	}
	return d.Metadata
}
