package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/justgrid/pkg/layout"
	"github.com/matzehuels/justgrid/pkg/pipeline"
	"github.com/matzehuels/justgrid/pkg/source"
)

// probeCommand lists the frames an input yields without laying them out.
func (c *CLI) probeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <input>",
		Short: "List the frames of an input",
		Long: `List the frames of an input with their dimensions and aspect ratios.

Image headers are read but pixel data is never decoded, so probing a large
directory is fast.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			frames, err := runner.Probe(ctx, pipeline.Options{Input: args[0]})
			if err != nil {
				return err
			}
			if len(frames) == 0 {
				c.ui().warn("No frames found in %s", args[0])
				return nil
			}
			c.ui().print(frameTable(frames).Render())
			c.ui().detail("%d frames", len(frames))
			return nil
		},
	}
}

// frameTable renders frames as a bordered table.
func frameTable(frames []layout.Frame[source.Item]) *table.Table {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("#", "ID", "WIDTH", "HEIGHT", "ASPECT").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return StyleTitle.Padding(0, 1)
			}
			if col >= 2 {
				return StyleNumber.Padding(0, 1).Align(lipgloss.Right)
			}
			return StyleValue.Padding(0, 1)
		})

	for i, f := range frames {
		aspect := "-"
		if f.Height > 0 {
			aspect = strconv.FormatFloat(f.Width/f.Height, 'f', 3, 64)
		}
		t.Row(
			strconv.Itoa(i),
			f.Payload.ID,
			strconv.FormatFloat(f.Width, 'f', -1, 64),
			strconv.FormatFloat(f.Height, 'f', -1, 64),
			aspect,
		)
	}
	return t
}
