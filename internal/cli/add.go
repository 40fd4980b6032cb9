package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boxtree-io/boxtree/pkg/layout"
	"github.com/boxtree-io/boxtree/pkg/model"
)

// addCommand creates the add command for inserting rectangles.
func (c *CLI) addCommand() *cobra.Command {
	var (
		parentID string
		label    string
		kind     string
		width    float64
		height   float64
		output   string
	)

	cmd := &cobra.Command{
		Use:   "add [diagram.json]",
		Short: "Insert a new rectangle with a computed position",
		Long: `Insert a new rectangle into a diagram.

The engine picks the position: the next free grid or flow slot inside the
parent, or to the right of the existing roots when no parent is given.
The parent is grown if the new child does not fit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAdd(args[0], output, parentID, label, kind, width, height)
		},
	}

	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "parent rectangle ID (default: new root)")
	cmd.Flags().StringVarP(&label, "label", "l", "", "rectangle label")
	cmd.Flags().StringVarP(&kind, "type", "t", model.TypeLeaf, "rectangle type: leaf, parent, textLabel")
	cmd.Flags().Float64Var(&width, "width", 0, "width in grid units (default: engine default)")
	cmd.Flags().Float64Var(&height, "height", 0, "height in grid units (default: engine default)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")

	return cmd
}

func (c *CLI) runAdd(input, output, parentID, label, kind string, width, height float64) error {
	d, err := model.ReadDiagramFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}
	if parentID != "" {
		if _, ok := d.Find(parentID); !ok {
			return fmt.Errorf("parent %q not found in %s", parentID, input)
		}
	}

	mgr, err := layout.NewManager(c.Config.Algorithm)
	if err != nil {
		return err
	}

	margins := d.Margins
	if margins == (model.Margins{}) {
		margins = c.Config.Margins
	}

	pos, size := mgr.CalculateNewRectangleLayout(
		parentID, d.Rectangles, layout.Size{W: width, H: height}, margins)

	rect := model.Rectangle{
		ID:       model.NewID(),
		ParentID: parentID,
		Label:    label,
		Type:     kind,
		X:        pos.X,
		Y:        pos.Y,
		W:        size.W,
		H:        size.H,
	}
	d.Rectangles = append(d.Rectangles, rect)
	if err := d.Validate(); err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = input
	}
	if err := model.WriteDiagramFile(d, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Added %s", rect.ID)
	printKeyValue("position", fmt.Sprintf("%.2f, %.2f", rect.X, rect.Y))
	printKeyValue("size", fmt.Sprintf("%.2f x %.2f", rect.W, rect.H))
	printFile(outputPath)
	printNewline()
	printNextStep("Relayout", "boxtree layout "+outputPath)

	return nil
}
