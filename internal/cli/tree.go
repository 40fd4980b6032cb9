package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boxtree-io/boxtree/pkg/model"
	"github.com/boxtree-io/boxtree/pkg/render/treeviz"
)

// treeCommand creates the tree command for hierarchy visualization.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "tree [diagram.json]",
		Short: "Visualize the containment hierarchy as a node-link graph",
		Long: `Visualize the containment hierarchy as a node-link graph.

The tree command draws the parent/child structure of a diagram as a
Graphviz tree, which makes nesting depth and container membership easier
to inspect than the box view. Output is DOT text or a rendered SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(args[0], output, format, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.dot / <input>.svg)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include positions and sizes in node labels")

	return cmd
}

func (c *CLI) runTree(input, output, format string, detailed bool) error {
	d, err := model.ReadDiagramFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}

	dot := treeviz.ToDOT(d, treeviz.Options{Detailed: detailed})

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		if data, err = treeviz.RenderSVG(dot); err != nil {
			return fmt.Errorf("render tree: %w", err)
		}
	default:
		return fmt.Errorf("unknown tree format %q (supported: dot, svg)", format)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}

	printSuccess("Tree written")
	printFile(outputPath)
	return nil
}
