package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/boxtree-io/boxtree/pkg/cache"
	"github.com/boxtree-io/boxtree/pkg/layout"
	"github.com/boxtree-io/boxtree/pkg/model"
	"github.com/boxtree-io/boxtree/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner holds no per-request state - the cache, keyer, manager and
// logger are all safe for concurrent use, so one Runner can serve
// multiple goroutines with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Manager *layout.Manager
	Logger  *log.Logger
}

// NewRunner creates a runner with the given cache, keyer and manager.
// If keyer is nil, a DefaultKeyer is used. If c is nil, caching is
// disabled. If mgr is nil, a manager with the default algorithm is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, mgr *layout.Manager, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if mgr == nil {
		mgr, _ = layout.NewManager("")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Manager: mgr, Logger: logger}
}

// Close releases the runner's cache resources.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// =============================================================================
// Results
// =============================================================================

// Result holds the output of a complete pipeline run.
type Result struct {
	// Diagram is the positioned diagram after the layout pass.
	Diagram model.Diagram

	// Artifacts maps format name to rendered bytes.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records per-stage timings.
type Stats struct {
	LayoutTime time.Duration `json:"layout_time"`
	RenderTime time.Duration `json:"render_time"`
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"`
	RenderHit bool `json:"render_hit"`
}

// =============================================================================
// Pipeline Execution
// =============================================================================

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, d model.Diagram, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	layoutStart := time.Now()
	positioned, layoutHit, err := r.LayoutWithCacheInfo(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Diagram = positioned
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"algorithm", opts.Algorithm,
		"rectangles", len(positioned.Rectangles),
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, positioned, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout runs the layout stage only.
func (r *Runner) Layout(ctx context.Context, d model.Diagram, opts Options) (model.Diagram, error) {
	positioned, _, err := r.LayoutWithCacheInfo(ctx, d, opts)
	return positioned, err
}

// LayoutWithCacheInfo runs the layout stage with caching and reports
// whether the result came from cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, d model.Diagram, opts Options) (model.Diagram, bool, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return model.Diagram{}, false, err
	}
	if err := r.Manager.SetAlgorithm(opts.Algorithm); err != nil {
		return model.Diagram{}, false, err
	}

	key, err := r.layoutKey(d, opts)
	if err != nil {
		return model.Diagram{}, false, err
	}

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := model.UnmarshalDiagram(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				r.Logger.Debug("layout cache hit", "key", key)
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	observability.Engine().OnLayoutStart(ctx, opts.Algorithm, len(d.Rectangles))
	start := time.Now()
	positioned := LayoutTree(r.Manager, d, opts)
	observability.Engine().OnLayoutComplete(ctx, opts.Algorithm, time.Since(start), nil)

	if data, err := model.MarshalDiagram(positioned); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return positioned, false, nil
}

// layoutKey builds the cache key for a layout pass: diagram content hash,
// algorithm, and engine configuration fingerprint.
func (r *Runner) layoutKey(d model.Diagram, opts Options) (string, error) {
	data, err := model.MarshalDiagram(d)
	if err != nil {
		return "", fmt.Errorf("marshal diagram: %w", err)
	}
	cfg := fmt.Sprintf("%+v|%+v|%v", opts.engineMargins(d), opts.engineFixed(d), opts.Preserve)
	return r.Keyer.LayoutKey(cache.Hash(data), opts.Algorithm, cache.Hash([]byte(cfg))), nil
}
