package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	argerrors "github.com/matzehuels/argviz/pkg/errors"
)

// artifactWriteParams describes rendered artifacts and where they go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // Used to derive the output name when output is empty
	output    string // File (single format) or base path (multiple formats)
	cacheHit  bool
	out       io.Writer // Receives the status lines
}

// outputPaths maps each format to its file. A single format is written to
// output as given; several formats share output (or the input's base name)
// with one extension each.
func outputPaths(formats []string, input, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		if base == "" || base == "." || base == "-" {
			base = appName
		}
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes every artifact and prints one line per file.
func writeArtifacts(p artifactWriteParams) error {
	paths := outputPaths(p.formats, p.input, p.output)
	for _, f := range p.formats {
		data, ok := p.artifacts[f]
		if !ok {
			return argerrors.New(argerrors.ErrCodeInternal, "no %s artifact", f)
		}
		if dir := filepath.Dir(paths[f]); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(paths[f], data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}
	if p.cacheHit {
		printSuccess(p.out, "Rendered %s %s", strings.Join(p.formats, ", "), styleCached.Render("("+iconCached+")"))
	} else {
		printSuccess(p.out, "Rendered %s", strings.Join(p.formats, ", "))
	}
	for _, f := range p.formats {
		printFile(p.out, paths[f])
	}
	return nil
}

// FormatError renders err for the terminal, without the error code prefix.
func FormatError(err error) string {
	msg := argerrors.UserMessage(err)
	var e *argerrors.Error
	if errors.As(err, &e) && e.Cause != nil {
		msg += ": " + argerrors.UserMessage(e.Cause)
	}
	if code := argerrors.GetCode(err); code != "" {
		msg += " " + StyleDim.Render("["+string(code)+"]")
	}
	return styleIconError.Render(iconError) + " " + msg
}
