package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/argviz/pkg/graph"
	"github.com/matzehuels/argviz/pkg/pipeline"
	"github.com/matzehuels/argviz/pkg/render"
)

// viewCommand creates the view command, an interactive terminal tree viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "view [layout.json | transcript.txt -q QUERY | -f program.pl -q QUERY]",
		Short: "Browse an attack tree in the terminal",
		Long: `Browse an attack tree in the terminal.

The tree comes from a layout document, from a saved transcript with its
query, or from proving a query against a program. Select a node to read the
description the engine printed for it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.viewLayout(cmd, f, args)
			if err != nil {
				return err
			}
			m, err := NewTreeModel(l, c.settings.Render.CompactDescriptions)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return context.Canceled
			}
			return err
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.program, "file", "f", "", "Prolog program to consult")

	return cmd
}

// viewLayout resolves the tree to show from the arguments.
func (c *CLI) viewLayout(cmd *cobra.Command, f runFlags, args []string) (graph.Layout, error) {
	if f.program == "" && f.query == "" {
		if len(args) == 0 {
			return graph.Layout{}, fmt.Errorf("need a layout file, a transcript and --query, or --file and --query")
		}
		return graph.ReadLayoutFile(args[0])
	}

	opts := c.options()
	f.apply(cmd, &opts)
	opts.Formats = []string{render.FormatJSON}
	switch {
	case f.program != "":
		opts.Program = f.program
	case len(args) == 1:
		raw, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return graph.Layout{}, err
		}
		opts.Transcript = raw
	default:
		return graph.Layout{}, fmt.Errorf("--query needs a transcript file or --file")
	}

	return c.layoutFor(cmd.Context(), opts)
}

// layoutFor runs the pipeline up to the layout stage.
func (c *CLI) layoutFor(ctx context.Context, opts pipeline.Options) (graph.Layout, error) {
	runner, err := c.newRunner()
	if err != nil {
		return graph.Layout{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return graph.Layout{}, err
	}
	return result.Layout, nil
}
