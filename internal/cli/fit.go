package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boxtree-io/boxtree/pkg/layout"
	"github.com/boxtree-io/boxtree/pkg/model"
)

// fitCommand creates the fit command for minimum parent size queries.
func (c *CLI) fitCommand() *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "fit [diagram.json] [parent-id]",
		Short: "Compute a parent's minimum enclosing size",
		Long: `Compute the minimum size a container needs to enclose its children.

For automatically laid out containers this is the packed extent of the
children plus margins; for manually positioned containers it is the
bounding box of the children where they currently sit.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFit(args[0], args[1], algorithm)
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "layout algorithm: grid, flow, mixed-flow")

	return cmd
}

func (c *CLI) runFit(input, parentID, algorithm string) error {
	d, err := model.ReadDiagramFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}
	if _, ok := d.Find(parentID); !ok {
		return fmt.Errorf("rectangle %q not found in %s", parentID, input)
	}

	name := c.Config.Algorithm
	if algorithm != "" {
		name = algorithm
	}
	mgr, err := layout.NewManager(name)
	if err != nil {
		return err
	}

	margins := d.Margins
	if margins == (model.Margins{}) {
		margins = c.Config.Margins
	}

	size := mgr.CalculateMinimumParentSize(parentID, d.Rectangles, margins, d.FixedDimensions)

	printSuccess("Minimum size for %s", parentID)
	printKeyValue("width", fmt.Sprintf("%.2f", size.W))
	printKeyValue("height", fmt.Sprintf("%.2f", size.H))
	return nil
}
