package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/argviz/pkg/graph"
	"github.com/matzehuels/argviz/pkg/render"
	"github.com/matzehuels/argviz/pkg/render/nodelink"
)

// RenderFromLayout generates output artifacts in the requested formats.
// The DOT source is built once and shared by the Graphviz formats.
func RenderFromLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(l, opts.Style)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case render.FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case render.FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.PNGScale)
		case render.FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case render.FormatJSON:
			data, err = graph.MarshalLayout(l)
		case render.FormatDOT:
			data = []byte(dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFromLayoutData renders output from a serialized layout document.
func RenderFromLayoutData(ctx context.Context, layoutData []byte, opts Options) (map[string][]byte, error) {
	l, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderFromLayout(ctx, l, opts)
}
