package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/argviz/pkg/graph"
	"github.com/matzehuels/argviz/pkg/render"
)

// pointsPerInch converts Graphviz inches to points.
const pointsPerInch = 72.0

// Style configures colors and sizes of the drawing.
type Style struct {
	Background    string
	Node          string
	Accept        string
	Reject        string
	Text          string
	NodeFontSize  int
	TitleFontSize int
	Scale         float64 // Points per layout unit
	Compact       bool    // Tooltips show only the first description line
}

// DefaultStyle returns the built-in colors and sizes.
func DefaultStyle() Style {
	return Style{
		Background:    "#ffffff",
		Node:          "#7a9cc6",
		Accept:        "#3cb371",
		Reject:        "#e05252",
		Text:          "#1a1a1a",
		NodeFontSize:  12,
		TitleFontSize: 16,
		Scale:         600,
	}
}

// ToDOT converts a layout to Graphviz DOT with pinned node positions.
// Edges keep the attack direction (attacker -> attacked).
func ToDOT(l graph.Layout, s Style) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", s.Background)
	fmt.Fprintf(&buf, "  label=%q;\n", l.Title)
	buf.WriteString("  labelloc=t;\n")
	fmt.Fprintf(&buf, "  fontsize=%d;\n", s.TitleFontSize)
	fmt.Fprintf(&buf, "  fontcolor=%q;\n", s.Text)
	fmt.Fprintf(&buf, "  node [shape=ellipse, style=filled, fillcolor=%q, fontcolor=%q, fontsize=%d];\n", s.Node, s.Text, s.NodeFontSize)
	buf.WriteString("  edge [arrowsize=0.8];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := []string{
			fmt.Sprintf("label=%q", n.ID),
			fmt.Sprintf("pos=%q", pinned(n.X, n.Y, s.Scale)),
		}
		if tip := tooltip(n.Description, s.Compact); tip != "" {
			attrs = append(attrs, fmt.Sprintf("tooltip=%q", tip))
		}
		if n.ID == l.Root {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", rootColor(l, s)), "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pinned(x, y, scale float64) string {
	return fmt.Sprintf("%s,%s!", inches(x, scale), inches(y, scale))
}

func inches(v, scale float64) string {
	return strconv.FormatFloat(v*scale/pointsPerInch, 'f', 4, 64)
}

func rootColor(l graph.Layout, s Style) string {
	if l.Status() == graph.StatusAccepted {
		return s.Accept
	}
	return s.Reject
}

func tooltip(desc string, compact bool) string {
	if !compact {
		return desc
	}
	first, _, more := strings.Cut(desc, "\n")
	if more {
		return first + "\n..."
	}
	return first
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's fixed-size <svg> tag with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
