package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	argerrors "github.com/matzehuels/argviz/pkg/errors"
	"github.com/matzehuels/argviz/pkg/render"
)

// translateCommand creates the translate command for saved transcripts.
func (c *CLI) translateCommand() *cobra.Command {
	var (
		f    runFlags
		info bool
	)

	cmd := &cobra.Command{
		Use:   "translate [transcript.txt|-] -q QUERY",
		Short: "Translate a saved engine transcript into a layout document",
		Long: `Translate a saved engine transcript into a layout document.

The transcript is the standard output of the Gorgias prover, for example the
output.txt or outputRAW.txt written by 'run' with export enabled. Use - to read
from standard input. The layout document can be rendered with 'visualize'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			opts := c.options()
			f.apply(cmd, &opts)
			opts.Transcript = raw
			opts.Formats = []string{render.FormatJSON}

			runner, err := c.newRunner()
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			result, err := runner.Execute(cmd.Context(), opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Translated %d lines into %d arguments", len(result.Lines), result.Stats.NodeCount))
			printStatus(cmd.OutOrStdout(), result.Layout.Title, result.Layout.Holds)
			if info {
				if err := result.Translation.Graph.WriteInfo(cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			return writeArtifacts(artifactWriteParams{
				artifacts: result.Artifacts,
				formats:   opts.Formats,
				out:       cmd.OutOrStdout(),
				input:     args[0],
				output:    f.output,
				cacheHit:  result.CacheInfo.RenderHit,
			})
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "layout file (default <transcript>.json)")
	cmd.Flags().BoolVar(&info, "info", false, "print every node with its description")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

// readInput reads a file, or r when path is "-".
func readInput(r io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(path)
	}
	if os.IsNotExist(err) {
		return "", argerrors.Wrap(argerrors.ErrCodeFileNotFound, err, "%s not found", path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
