package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/argviz/pkg/demo"
	"github.com/matzehuels/argviz/pkg/pipeline"
	"github.com/matzehuels/argviz/pkg/render"
)

// demoCommand creates the demo command, which renders built-in trees without
// SWI-Prolog.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		id         int
		list       bool
		output     string
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render a built-in demo tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				printDemos(cmd.OutOrStdout())
				return nil
			}
			if _, ok := demo.Names[id]; !ok {
				return fmt.Errorf("unknown demo %d (see --list)", id)
			}
			formats, err := render.ParseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts := c.options()
			opts.Formats = formats
			opts.SetLayoutDefaults()

			l, err := pipeline.GenerateDemoLayout(id, opts.Layout)
			if err != nil {
				return err
			}
			artifacts, err := pipeline.RenderFromLayout(cmd.Context(), l, opts)
			if err != nil {
				return err
			}
			if output == "" {
				output = "demo" + strconv.Itoa(id)
				if len(formats) == 1 {
					output += "." + formats[0]
				}
			}
			return writeArtifacts(artifactWriteParams{
				artifacts: artifacts,
				formats:   formats,
				output:    output,
				out:       cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().IntVar(&id, "id", demo.MultiNode, "demo to render")
	cmd.Flags().BoolVar(&list, "list", false, "list the demos")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")

	return cmd
}

func printDemos(w io.Writer) {
	ids := make([]int, 0, len(demo.Names))
	for id := range demo.Names {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		g := demo.Graph(id)
		rows = append(rows, []string{strconv.Itoa(id), demo.Names[id], strconv.Itoa(g.NodeCount())})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Demo", "Nodes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
		})
	fmt.Fprintln(w, t.Render())
}
