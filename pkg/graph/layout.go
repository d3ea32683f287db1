package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/argviz/pkg/dag"
	"github.com/matzehuels/argviz/pkg/layout"
)

// =============================================================================
// Layout - Positioned Attack Tree
// =============================================================================

// Layout is the serialization format of a positioned attack tree.
//
// Nodes carry the position computed on the reversed graph; Edges keep the
// attack direction. Width, VertGap and Downward record the geometry the
// positions were computed with.
type Layout struct {
	Query    string       `json:"query"`
	Title    string       `json:"title"`
	Root     string       `json:"root"`
	Holds    bool         `json:"holds"`
	IsFact   bool         `json:"is_fact"`
	Width    float64      `json:"width"`
	VertGap  float64      `json:"vert_gap"`
	Downward bool         `json:"downward"`
	Nodes    []LayoutNode `json:"nodes"`
	Edges    []Edge       `json:"edges"`
}

// LayoutNode is a node with its position.
type LayoutNode struct {
	ID          string  `json:"id"`
	Description string  `json:"description,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// Verdict describes the translated query a layout is built for.
type Verdict struct {
	Query  string
	Root   string
	Holds  bool
	IsFact bool
}

// NewLayout combines the attack graph g, its positions and the verdict into a
// Layout. Nodes missing from pos are placed at the origin.
func NewLayout(g *dag.DAG, pos layout.Positions, v Verdict, opts layout.Options) Layout {
	l := Layout{
		Query:    v.Query,
		Title:    Title(v.Query, v.Holds, v.IsFact),
		Root:     v.Root,
		Holds:    v.Holds,
		IsFact:   v.IsFact,
		Width:    opts.Width,
		VertGap:  opts.VertGap,
		Downward: opts.Downward,
		Edges:    FromDAG(g).Edges,
	}
	for _, n := range g.Nodes() {
		p := pos[n.ID]
		l.Nodes = append(l.Nodes, LayoutNode{ID: n.ID, Description: n.Description, X: p.X, Y: p.Y})
	}
	return l
}

// Status returns [StatusAccepted] or [StatusRejected].
func (l *Layout) Status() string { return Status(l.Holds) }

// Positions returns the node positions keyed by ID.
func (l *Layout) Positions() layout.Positions {
	pos := make(layout.Positions, len(l.Nodes))
	for _, n := range l.Nodes {
		pos[n.ID] = layout.Point{X: n.X, Y: n.Y}
	}
	return pos
}

// DAG rebuilds the attack graph.
func (l *Layout) DAG() (*dag.DAG, error) {
	g := Graph{Nodes: make([]Node, len(l.Nodes)), Edges: l.Edges}
	for i, n := range l.Nodes {
		g.Nodes[i] = Node{ID: n.ID, Description: n.Description}
	}
	return ToDAG(g)
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that nodes are present, the root is one of them and every edge
// connects known nodes.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if len(l.Nodes) == 0 {
		return Layout{}, fmt.Errorf("layout must contain nodes")
	}
	if _, err := l.DAG(); err != nil {
		return Layout{}, fmt.Errorf("layout graph: %w", err)
	}
	found := false
	for _, n := range l.Nodes {
		if n.ID == l.Root {
			found = true
			break
		}
	}
	if !found {
		return Layout{}, fmt.Errorf("layout root %q is not a node", l.Root)
	}
	if l.Title == "" {
		l.Title = Title(l.Query, l.Holds, l.IsFact)
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
