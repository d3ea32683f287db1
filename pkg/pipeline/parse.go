package pipeline

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/argviz/pkg/engine"
	argerrors "github.com/matzehuels/argviz/pkg/errors"
	"github.com/matzehuels/argviz/pkg/transcript"
	"github.com/matzehuels/argviz/pkg/translate"
)

// RunEngine proves opts.Query against opts.Program and returns stdout.
func RunEngine(ctx context.Context, eng *engine.Runner, opts Options) (string, error) {
	if eng == nil {
		return "", argerrors.New(argerrors.ErrCodeInternal, "no engine configured")
	}
	out, err := eng.Run(ctx, opts.Program, opts.Query)
	if err != nil {
		return "", err
	}
	return out.Stdout, nil
}

// Parse normalizes raw engine output and translates it into the attack graph.
// Transcript logging and dumps requested in opts happen here, before
// translation, so they are available even when the transcript is malformed.
func Parse(raw string, opts Options) ([]string, *translate.Result, []string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	lines := transcript.Normalize(raw)
	if opts.PrintRaw {
		logger.Info("raw result\n" + strings.TrimSpace(raw))
	}
	if opts.PrintCompact {
		logger.Info("compact result\n" + transcript.Compact(lines))
	}

	var dumps []string
	if opts.DumpDir != "" && (opts.ExportRaw || opts.Export) {
		written, err := transcript.WriteDumps(opts.DumpDir, raw, lines, opts.ExportRaw, opts.Export)
		if err != nil {
			return lines, nil, written, argerrors.Wrap(argerrors.ErrCodeInternal, err, "write transcript dumps")
		}
		for _, p := range written {
			logger.Debug("wrote transcript", "path", p)
		}
		dumps = written
	}

	res, err := translate.Translate(lines, opts.Query, translate.Options{
		NamedNodes: opts.NamedNodes,
		Logger:     logger,
	})
	if err != nil {
		return lines, nil, dumps, err
	}
	return lines, res, dumps, nil
}
