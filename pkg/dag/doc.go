// Package dag provides the directed attack graph reconstructed from a Gorgias
// proof transcript.
//
// # Overview
//
// Gorgias answers a query with a dialectical tree: the root argument supports
// the query, and every other argument attacks the argument it hangs under. This
// package stores that structure as a directed graph whose edges point from the
// attacker to the attacked argument (child -> parent). Each node carries the
// description lines the engine printed for it.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [DAG.AddNode] and edges with
// [DAG.AddEdge]. Node IDs must be unique and non-empty, and edges may only
// connect existing nodes:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "r1", Description: "r1: fly(tweety)"})
//	g.AddNode(dag.Node{ID: "r2", Description: "r2: neg fly(tweety)"})
//	g.AddEdge(dag.Edge{From: "r2", To: "r1"}) // r2 attacks r1
//
// # Ordering
//
// Every accessor that returns more than one element returns it in insertion
// order: [DAG.Nodes], [DAG.Edges], [DAG.Children], [DAG.Parents] and
// [DAG.Sources]. Layout depends on this; two runs over the same transcript
// produce byte-identical output.
//
// Edges form a set. Adding an edge that already exists is a no-op, mirroring
// the engine printing the same attack twice.
//
// # Reversal
//
// Layout walks the tree from the root down, so it needs parent -> child edges.
// [DAG.Reverse] returns a new graph with every edge flipped. Children of a node
// in the reversed graph appear in the insertion order of the attacking nodes.
//
// # Concurrency
//
// DAG instances are not safe for concurrent mutation. Graphs returned by the
// translator are never modified afterwards and can be read from several
// goroutines.
package dag
