// Package pipeline provides the transcript → tree → picture pipeline shared
// by the CLI and the HTTP API.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Engine: Run SWI-Prolog on a program and query, or accept a transcript
//  2. Parse: Normalize the transcript and translate it into an attack graph
//  3. Layout: Position the reversed graph as a tree
//  4. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run on its own or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, engine.New(cfg), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Program: "birds.pl",
//	    Query:   "fly(tweety)",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/argviz/pkg/cache"
	"github.com/matzehuels/argviz/pkg/config"
	argerrors "github.com/matzehuels/argviz/pkg/errors"
	"github.com/matzehuels/argviz/pkg/graph"
	"github.com/matzehuels/argviz/pkg/layout"
	"github.com/matzehuels/argviz/pkg/render"
	"github.com/matzehuels/argviz/pkg/render/nodelink"
	"github.com/matzehuels/argviz/pkg/translate"
)

// DefaultPNGScale is the resolution multiplier for PNG output.
const DefaultPNGScale = 2.0

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Engine options
	Program    string // Prolog program; the engine runs when Transcript is empty
	Transcript string // Raw engine output, skips the engine
	Query      string
	Refresh    bool // Ignore cached transcripts

	// Parse options
	NamedNodes   bool
	PrintRaw     bool   // Log the trimmed raw transcript at info
	PrintCompact bool   // Log the normalized transcript at info
	DumpDir      string // Directory for transcript dumps
	ExportRaw    bool
	Export       bool

	// Layout options
	Layout layout.Options

	// Render options
	Formats  []string
	Style    nodelink.Style
	PNGScale float64

	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Raw is the engine output as received.
	Raw string

	// Lines is the normalized transcript.
	Lines []string

	// Translation is the attack graph with its verdict.
	Translation *translate.Result

	// Layout is the positioned tree.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Dumps lists transcript files written to DumpDir.
	Dumps []string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	EngineTime time.Duration
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TranscriptHit bool // Whether the engine output came from cache
	RenderHit     bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// FromSettings returns options carrying the user's settings. Callers add
// the query and the program or transcript.
func FromSettings(s config.Settings) Options {
	u, r := s.User, s.Render
	return Options{
		NamedNodes:   u.NamedNodes,
		PrintRaw:     u.PrintRawResult,
		PrintCompact: u.PrintCompactResult,
		ExportRaw:    u.ExportRaw,
		Export:       u.Export,
		Layout:       s.LayoutOptions(),
		Style: nodelink.Style{
			Background:    r.BackgroundColor,
			Node:          r.NodeColor,
			Accept:        r.AcceptNodeColor,
			Reject:        r.RejectNodeColor,
			Text:          r.NodeTextColor,
			NodeFontSize:  r.NodeTextSize,
			TitleFontSize: r.TitleTextSize,
			Scale:         r.Scale,
			Compact:       r.CompactDescriptions,
		},
	}
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if o.Transcript == "" {
		if o.Program == "" {
			return argerrors.New(argerrors.ErrCodeInvalidInput, "program or transcript is required")
		}
		if err := argerrors.ValidateProgramPath(o.Program); err != nil {
			return err
		}
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks the query and sets the logger default.
func (o *Options) ValidateForParse() error {
	if err := argerrors.ValidateQuery(o.Query); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	return nil
}

// SetLayoutDefaults replaces a zero geometry with [layout.DefaultOptions].
func (o *Options) SetLayoutDefaults() {
	if o.Layout.Width == 0 && o.Layout.VertGap == 0 {
		o.Layout = layout.DefaultOptions()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Style.Scale == 0 {
		o.Style = nodelink.DefaultStyle()
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and checks the formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for _, f := range o.Formats {
		if !render.ValidFormat(f) {
			return argerrors.New(argerrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", f)
		}
	}
	return nil
}

// TranscriptKeyOpts returns cache key options for the engine stage.
func TranscriptKeyOpts(qf, rv string) cache.TranscriptKeyOpts {
	return cache.TranscriptKeyOpts{QueryFunction: qf, ResultVariable: rv}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Style: fmt.Sprintf("%+v", o.Style)}
	if format == render.FormatPNG {
		k.PNGScale = o.PNGScale
	}
	return k
}
