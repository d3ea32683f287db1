// Package transcript cleans raw Gorgias output into the line sequence the
// translator consumes.
//
// The engine pads its output with blank lines and sometimes indents the
// RESULT line inconsistently. [Normalize] removes blank lines and left-trims
// the RESULT line; every other line keeps its exact spacing because column
// positions encode the proof tree.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResultMarker prefixes the line that reports whether the query holds.
const ResultMarker = "RESULT:"

// Dump file names written next to rendered output.
const (
	RawFileName     = "outputRAW.txt"
	CompactFileName = "output.txt"
)

// Normalize splits raw engine output into lines, drops every empty or
// whitespace-only line and left-trims any line containing [ResultMarker].
// All other lines are returned verbatim.
func Normalize(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, ResultMarker) {
			line = strings.TrimLeft(line, " \t")
		}
		lines = append(lines, line)
	}
	return lines
}

// Compact joins normalized lines back into a single string.
func Compact(lines []string) string {
	return strings.Join(lines, "\n")
}

// WriteDumps writes the trimmed raw output and/or the compact transcript into
// dir. Disabled dumps are skipped; the written paths are returned.
func WriteDumps(dir, raw string, lines []string, exportRaw, export bool) ([]string, error) {
	var written []string
	if exportRaw {
		path := filepath.Join(dir, RawFileName)
		if err := os.WriteFile(path, []byte(strings.TrimSpace(raw)), 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	if export {
		path := filepath.Join(dir, CompactFileName)
		if err := os.WriteFile(path, []byte(Compact(lines)), 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
