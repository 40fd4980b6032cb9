package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/boxtree-io/boxtree/pkg/cache"
	"github.com/boxtree-io/boxtree/pkg/errors"
	"github.com/boxtree-io/boxtree/pkg/model"
	"github.com/boxtree-io/boxtree/pkg/observability"
	"github.com/boxtree-io/boxtree/pkg/render"
	"github.com/boxtree-io/boxtree/pkg/render/treeviz"
)

// Render produces the requested output formats for a positioned diagram.
func (r *Runner) Render(ctx context.Context, d model.Diagram, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, opts)
	return artifacts, err
}

// RenderWithCacheInfo produces the requested output formats with caching
// and reports whether every artifact came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d model.Diagram, opts Options) (map[string][]byte, bool, error) {
	opts.SetDefaults()

	data, err := model.MarshalDiagram(d)
	if err != nil {
		return nil, false, fmt.Errorf("marshal diagram: %w", err)
	}
	diagramHash := cache.Hash(data)
	optsHash := cache.Hash([]byte(fmt.Sprintf("%s|%.2f", opts.Style, opts.GridSize)))

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := len(opts.Formats) > 0

	for _, format := range opts.Formats {
		key := r.Keyer.RenderKey(diagramHash, format, optsHash)

		if !opts.Refresh {
			if cached, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "render")
				artifacts[format] = cached
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "render")
		}
		allHit = false

		observability.Engine().OnRenderStart(ctx, format)
		start := time.Now()
		out, err := r.renderFormat(d, format, opts)
		observability.Engine().OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}

		if err := r.Cache.Set(ctx, key, out, cache.DefaultTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "render", len(out))
		}
		artifacts[format] = out
	}

	return artifacts, allHit, nil
}

func (r *Runner) renderFormat(d model.Diagram, format string, opts Options) ([]byte, error) {
	renderOpts := []render.Option{
		render.WithGridSize(opts.GridSize),
		render.WithStyle(render.Style(opts.Style)),
	}

	switch format {
	case FormatSVG:
		return render.RenderSVG(d, renderOpts...), nil
	case FormatPNG:
		return render.RenderPNG(d, renderOpts...)
	case FormatPDF:
		return render.RenderPDF(d, renderOpts...)
	case FormatJSON:
		return render.RenderJSON(d)
	case FormatDOT:
		return []byte(treeviz.ToDOT(d, treeviz.Options{Detailed: true})), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", format)
	}
}
