package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boxtree-io/boxtree/pkg/model"
	"github.com/boxtree-io/boxtree/pkg/pipeline"
)

// renderCommand creates the render command for producing output artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		style   string
		noCache bool
		refresh bool
		noLayout bool
	)

	cmd := &cobra.Command{
		Use:   "render [diagram.json]",
		Short: "Render a diagram to SVG, PNG, PDF, JSON, or DOT",
		Long: `Render a diagram to one or more output formats.

By default the diagram is laid out first; pass --no-layout to render the
coordinates already in the file. Multiple formats can be produced in one
run with a comma-separated list:

  boxtree render diagram.json -f svg,png,pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], output, parseFormats(formats), style, noCache, refresh, noLayout)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file base path (default: input path with format extension)")
	cmd.Flags().StringVarP(&formats, "formats", "f", "svg", "comma-separated output formats: svg, png, pdf, json, dot")
	cmd.Flags().StringVar(&style, "style", "", "visual style: simple (default), blueprint")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&noLayout, "no-layout", false, "render existing coordinates without a layout pass")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, formats []string, style string, noCache, refresh, noLayout bool) error {
	d, err := model.ReadDiagramFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.baseOptions()
	opts.Formats = formats
	opts.Refresh = refresh
	if style != "" {
		opts.Style = style
	}
	if d.Algorithm != "" {
		opts.Algorithm = d.Algorithm
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	var artifacts map[string][]byte
	var cacheHit bool
	if noLayout {
		artifacts, cacheHit, err = runner.RenderWithCacheInfo(ctx, d, opts)
	} else {
		var result *pipeline.Result
		result, err = runner.Execute(ctx, d, opts)
		if result != nil {
			artifacts = result.Artifacts
			cacheHit = result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
		}
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	printSuccess("Render complete")
	for _, format := range formats {
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(len(d.Rectangles), opts.Algorithm, cacheHit)

	return nil
}
