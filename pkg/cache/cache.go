// Package cache provides pluggable caching for layout and render results.
//
// Layout computation is cheap for small diagrams but render artifacts
// (PNG rasterization, graphviz tree views) are not; both are pure
// functions of the diagram bytes and options, which makes them safe to
// cache under a content hash.
//
// Backends:
//   - file: directory-based cache for CLI usage
//   - redis: shared cache for server deployments
//   - null: disabled caching
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the default lifetime of cache entries.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for the pipeline's cacheable stages.
type Keyer interface {
	// LayoutKey identifies a layout result by diagram content hash,
	// algorithm, and engine configuration fingerprint.
	LayoutKey(diagramHash, algorithm, configHash string) string

	// RenderKey identifies a render artifact by positioned-diagram hash,
	// format, and render options fingerprint.
	RenderKey(diagramHash, format, optsHash string) string
}

// DefaultKeyer is the standard key scheme: prefix + sha256 of the parts.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() *DefaultKeyer { return &DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(diagramHash, algorithm, configHash string) string {
	return hashKey("layout", diagramHash, algorithm, configHash)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(diagramHash, format, optsHash string) string {
	return hashKey("render", diagramHash, format, optsHash)
}
