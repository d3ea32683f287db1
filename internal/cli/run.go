package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/argviz/pkg/pipeline"
	"github.com/matzehuels/argviz/pkg/render"
)

// runFlags holds flags shared by the commands that start from a query.
type runFlags struct {
	program    string
	query      string
	output     string
	formats    string
	dumpDir    string
	refresh    bool
	namedNodes bool
	upward     bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "query to prove, e.g. 'fly(tweety)'")
	cmd.Flags().BoolVar(&f.namedNodes, "named-nodes", false, "name nodes by the literal they support")
	cmd.Flags().BoolVar(&f.upward, "upward", false, "grow the tree upwards")
}

// apply overlays flags that were set explicitly onto opts.
func (f *runFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	opts.Query = f.query
	if cmd.Flags().Changed("named-nodes") {
		opts.NamedNodes = f.namedNodes
	}
	if cmd.Flags().Changed("upward") {
		opts.Layout.Downward = !f.upward
	}
}

// runCommand creates the run command: engine → tree → picture.
func (c *CLI) runCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run -f program.pl -q QUERY",
		Short: "Prove a query and render its attack tree",
		Long: `Prove a query with SWI-Prolog and render the resulting attack tree.

The program is consulted by SWI-Prolog with the Gorgias library loaded by the
program itself. The transcript is cached per program content and query, so
re-rendering with different settings does not run the engine again. Use
--refresh to force a new engine run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := render.ParseFormats(f.formats)
			if err != nil {
				return err
			}
			opts := c.options()
			f.apply(cmd, &opts)
			opts.Program = f.program
			opts.Formats = formats
			opts.Refresh = f.refresh
			opts.DumpDir = f.dumpDir
			return c.runPipeline(cmd.Context(), cmd.OutOrStdout(), opts, f.program, f.output)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.program, "file", "f", "", "Prolog program to consult")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&f.formats, "format", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&f.dumpDir, "dump-dir", ".", "directory for exported transcripts")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached transcripts")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

// runPipeline executes the full pipeline and writes the artifacts.
func (c *CLI) runPipeline(ctx context.Context, w io.Writer, opts pipeline.Options, input, output string) error {
	runner, err := c.newRunner()
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Proving %s...", opts.Query))
	spinner.Start()
	defer followPipeline(spinner)()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Pipeline failed")
		return err
	}
	spinner.Stop()

	printStatus(w, result.Layout.Title, result.Layout.Holds)
	printStats(w, result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.TranscriptHit)
	for _, path := range result.Dumps {
		printFile(w, path)
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		out:       w,
		input:     input,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
	})
}
