// Package graph provides serialization types for attack graphs and layouts.
//
// This package defines the JSON documents argviz reads and writes: the
// `translate` command exports them, `visualize` and the HTTP API consume them,
// and the renderer works from them.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/dag.DAG: Internal graph representation
//   - pkg/layout.Positions: Internal node positions
//
// Use [FromDAG]/[ToDAG] and [NewLayout]/[Layout.DAG] to convert between them.
//
// # Graph Serialization
//
// Graphs use a node-link JSON format. Edges point from the attacker to the
// attacked argument:
//
//	{
//	  "nodes": [{"id": "r1", "description": "..."}, {"id": "r2"}],
//	  "edges": [{"from": "r2", "to": "r1"}]
//	}
//
// Unlike most node-link exports, nodes and edges keep their insertion order.
// Child order drives the layout, so a round trip must not reorder anything.
//
// # Layout Serialization
//
// A [Layout] adds the verdict (holds, fact), the root and one position per
// node:
//
//	l, _ := graph.ReadLayoutFile("tree.json")
//	fmt.Println(l.Title) // Argument fly(tweety) Holds
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
