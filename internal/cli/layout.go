package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// layoutCommand creates the layout command for running the engine over a diagram.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output      string
		noCache     bool
		refresh     bool
		algorithm   string
		interactive bool
		preserve    bool
	)

	cmd := &cobra.Command{
		Use:   "layout [diagram.json]",
		Short: "Run the layout engine over a diagram",
		Long: `Run the layout engine over a diagram.

The layout command reads a diagram file, repacks every container bottom-up
with the selected algorithm (grid, flow, or mixed-flow), grows parents to
fit their children, and writes the positioned diagram back out.

Manually positioned containers and locked containers keep their children
where they are. Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				picked, err := pickAlgorithm(algorithm)
				if err != nil {
					return err
				}
				if picked == "" {
					return nil // user quit the picker
				}
				algorithm = picked
			}
			return c.runLayout(cmd.Context(), args[0], output, algorithm, noCache, refresh, preserve)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "layout algorithm: grid, flow, mixed-flow")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the algorithm interactively")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&preserve, "preserve", false, "keep exact positions, only grow parents to fit")

	return cmd
}

// runLayout loads the diagram, runs the layout pass, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output, algorithm string, noCache, refresh, preserve bool) error {
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
	opts.Refresh = refresh
	opts.Preserve = preserve
	if algorithm != "" {
		opts.Algorithm = algorithm
	}
	if d.Algorithm != "" && algorithm == "" {
		opts.Algorithm = d.Algorithm
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Algorithm))
	spinner.Start()

	positioned, cacheHit, err := runner.LayoutWithCacheInfo(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = input
	}
	if err := model.WriteDiagramFile(positioned, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(positioned.Rectangles), opts.Algorithm, cacheHit)
	printNewline()
	printNextStep("Render", "boxtree render "+outputPath)

	return nil
}
