// Package demo provides built-in attack trees for trying the renderer
// without SWI-Prolog.
//
// Every demo is rooted at "D" and treated as an accepted argument.
package demo

import (
	"fmt"

	"github.com/matzehuels/argviz/pkg/dag"
)

// Root is the root argument of every demo tree.
const Root = "D"

// Title is the headline of rendered demos.
const Title = "This is a Demo!"

// Demo identifiers.
const (
	MultiNode = iota + 1
	MultiNodeSided
	TwoNodes
	SingleNode
)

// Names maps demo IDs to short descriptions.
var Names = map[int]string{
	MultiNode:      "multi node",
	MultiNodeSided: "multi node, sided",
	TwoNodes:       "two nodes",
	SingleNode:     "single node",
}

type shape struct {
	nodes []dag.Node
	edges []dag.Edge
}

func desc(id string, lines int) dag.Node {
	if lines == 0 {
		return dag.Node{ID: id, Description: id + " Description"}
	}
	d := ""
	for i := 1; i <= lines; i++ {
		if i > 1 {
			d += "\n"
		}
		d += fmt.Sprintf("%s Description%d", id, i)
	}
	return dag.Node{ID: id, Description: d}
}

var shapes = map[int]shape{
	MultiNode: {
		nodes: []dag.Node{
			desc("D", 0), desc("B", 2), desc("C", 0), desc("A", 2),
			desc("X", 3), desc("Y", 4), desc("Z", 5), desc("R", 6),
		},
		edges: []dag.Edge{
			{From: "X", To: "B"}, {From: "Y", To: "B"}, {From: "B", To: "C"},
			{From: "Z", To: "A"}, {From: "R", To: "A"}, {From: "A", To: "C"},
			{From: "C", To: "D"},
		},
	},
	MultiNodeSided: {
		nodes: []dag.Node{
			desc("A", 0), desc("B", 0), desc("C", 0), desc("D", 0), desc("E", 0),
			desc("F", 0), desc("G", 0), desc("H", 0), desc("I", 0),
		},
		edges: []dag.Edge{
			{From: "A", To: "C"}, {From: "B", To: "C"}, {From: "C", To: "E"},
			{From: "I", To: "E"}, {From: "E", To: "G"}, {From: "F", To: "G"},
			{From: "G", To: "D"}, {From: "H", To: "D"},
		},
	},
	TwoNodes: {
		nodes: []dag.Node{desc("D", 0), desc("A", 0)},
		edges: []dag.Edge{{From: "A", To: "D"}},
	},
	SingleNode: {
		nodes: []dag.Node{desc("D", 0)},
	},
}

// Graph returns the attack graph of demo id. Unknown IDs fall back to
// [SingleNode].
func Graph(id int) *dag.DAG {
	s, ok := shapes[id]
	if !ok {
		s = shapes[SingleNode]
	}
	g := dag.New()
	for _, n := range s.nodes {
		_ = g.AddNode(n)
	}
	for _, e := range s.edges {
		_ = g.AddEdge(e)
	}
	return g
}
