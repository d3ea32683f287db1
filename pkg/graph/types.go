package graph

import (
	"fmt"

	"github.com/matzehuels/argviz/pkg/dag"
)

// =============================================================================
// Constants
// =============================================================================

// Verdicts of the queried argument, used for root styling.
const (
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// =============================================================================
// Graph - Attack Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for attack graphs.
//
// The format is human-readable and designed for round-trip fidelity:
// translate → export → re-import produces an identical graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one argument.
type Node struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
}

// Edge is a directed attack: From attacks To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// FromDAG converts a DAG to its serialization format, keeping insertion order.
func FromDAG(g *dag.DAG) Graph {
	nodes := g.Nodes()
	edges := g.Edges()
	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{ID: n.ID, Description: n.Description}
	}
	for i, e := range edges {
		out.Edges[i] = Edge{From: e.From, To: e.To}
	}
	return out
}

// ToDAG converts a Graph to a DAG.
// Returns an error for empty or duplicate IDs and for edges to unknown nodes.
func ToDAG(gj Graph) (*dag.DAG, error) {
	d := dag.New()
	for _, nj := range gj.Nodes {
		if err := d.AddNode(dag.Node{ID: nj.ID, Description: nj.Description}); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}
	for _, ej := range gj.Edges {
		if err := d.AddEdge(dag.Edge{From: ej.From, To: ej.To}); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}
	return d, nil
}

// =============================================================================
// Verdict Helpers
// =============================================================================

// Title is the headline shown above a rendered tree.
func Title(query string, holds, isFact bool) string {
	switch {
	case isFact:
		return "Argument " + query + " is a Fact"
	case holds:
		return "Argument " + query + " Holds"
	default:
		return "Argument " + query + " does not Hold"
	}
}

// Status maps the verdict to [StatusAccepted] or [StatusRejected].
func Status(holds bool) string {
	if holds {
		return StatusAccepted
	}
	return StatusRejected
}
