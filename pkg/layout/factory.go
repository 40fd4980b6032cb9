package layout

import (
	"sort"
	"sync"

	"github.com/boxtree-io/boxtree/pkg/errors"
)

// =============================================================================
// Algorithm Factory
// =============================================================================

// Registry identifiers for the built-in algorithms.
const (
	AlgorithmGrid      = "grid"
	AlgorithmFlow      = "flow"
	AlgorithmMixedFlow = "mixed-flow"
)

// DefaultAlgorithm is the algorithm used when none is configured.
const DefaultAlgorithm = AlgorithmMixedFlow

// Constructor creates a fresh algorithm instance.
type Constructor func() Algorithm

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

func init() {
	Register(AlgorithmGrid, func() Algorithm { return NewGrid() })
	Register(AlgorithmFlow, func() Algorithm { return NewFlow() })
	Register(AlgorithmMixedFlow, func() Algorithm { return NewMixedFlow() })
}

// Register adds an algorithm constructor under the given name, replacing
// any existing registration. Call from init or application startup.
func Register(name string, fn Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// New instantiates the algorithm registered under name.
// Requesting an unregistered name is a configuration error, not a runtime
// data error - with a correctly configured Manager it should never occur.
func New(name string) (Algorithm, error) {
	registryMu.RLock()
	fn, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidAlgorithm,
			"unknown layout algorithm %q (available: %v)", name, Available())
	}
	return fn(), nil
}

// Available returns the registered algorithm names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
