package graph

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/argviz/pkg/dag"
	"github.com/matzehuels/argviz/pkg/layout"
)

func attackGraph(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, n := range []dag.Node{
		{ID: "r1", Description: "r1: fly(tweety)"},
		{ID: "r3", Description: "r3: neg fly(tweety)\npenguin(tweety)"},
		{ID: "r2", Description: "r2: neg fly(tweety)"},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	_ = g.AddEdge(dag.Edge{From: "r3", To: "r1"})
	_ = g.AddEdge(dag.Edge{From: "r2", To: "r1"})
	return g
}

func TestGraphRoundTrip(t *testing.T) {
	g := attackGraph(t)

	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		t.Fatalf("WriteGraph() error = %v", err)
	}
	got, err := ReadGraph(&buf)
	if err != nil {
		t.Fatalf("ReadGraph() error = %v", err)
	}
	if diff := cmp.Diff(FromDAG(g), FromDAG(got)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	var ids []string
	for _, n := range got.Nodes() {
		ids = append(ids, n.ID)
	}
	if !cmp.Equal(ids, []string{"r1", "r3", "r2"}) {
		t.Errorf("Nodes() = %v, insertion order lost", ids)
	}
}

func TestGraphFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(attackGraph(t), path); err != nil {
		t.Fatalf("WriteGraphFile() error = %v", err)
	}
	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile() error = %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("got %d nodes, %d edges, want 3, 2", g.NodeCount(), g.EdgeCount())
	}

	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadGraphFile(missing) error = nil")
	}
}

func TestToDAGErrors(t *testing.T) {
	tests := []struct {
		name string
		in   Graph
	}{
		{"empty id", Graph{Nodes: []Node{{ID: ""}}}},
		{"duplicate", Graph{Nodes: []Node{{ID: "a"}, {ID: "a"}}}},
		{"unknown edge", Graph{Nodes: []Node{{ID: "a"}}, Edges: []Edge{{From: "a", To: "b"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ToDAG(tt.in); err == nil {
				t.Error("ToDAG() error = nil")
			}
		})
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		holds, fact bool
		want        string
	}{
		{true, true, "Argument p is a Fact"},
		{true, false, "Argument p Holds"},
		{false, false, "Argument p does not Hold"},
	}
	for _, tt := range tests {
		if got := Title("p", tt.holds, tt.fact); got != tt.want {
			t.Errorf("Title(p, %v, %v) = %q, want %q", tt.holds, tt.fact, got, tt.want)
		}
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	g := attackGraph(t)
	opts := layout.DefaultOptions()
	pos, err := layout.Hierarchy(g.Reverse(), "", opts)
	if err != nil {
		t.Fatalf("Hierarchy() error = %v", err)
	}

	l := NewLayout(g, pos, Verdict{Query: "fly(tweety)", Root: "r1", Holds: true}, opts)
	if l.Title != "Argument fly(tweety) Holds" || l.Status() != StatusAccepted {
		t.Errorf("Title, Status = %q, %q", l.Title, l.Status())
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile() error = %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error = %v", err)
	}
	if diff := cmp.Diff(l, got); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(pos, got.Positions()); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}

	back, err := got.DAG()
	if err != nil {
		t.Fatalf("DAG() error = %v", err)
	}
	if !back.HasEdge("r3", "r1") || back.HasEdge("r1", "r3") {
		t.Error("DAG() lost the attack direction")
	}
}

func TestUnmarshalLayoutErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"invalid json", `{`, "unmarshal layout"},
		{"no nodes", `{"root": "a"}`, "must contain nodes"},
		{"unknown root", `{"root": "b", "nodes": [{"id": "a"}]}`, "not a node"},
		{"bad edge", `{"root": "a", "nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "x"}]}`, "layout graph"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLayout([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("UnmarshalLayout() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestUnmarshalLayoutFillsTitle(t *testing.T) {
	l, err := UnmarshalLayout([]byte(`{"query": "p", "root": "p", "is_fact": true, "holds": true, "nodes": [{"id": "p"}]}`))
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	if l.Title != "Argument p is a Fact" {
		t.Errorf("Title = %q", l.Title)
	}
}

func TestMarshalGraphShape(t *testing.T) {
	data, err := MarshalGraph(attackGraph(t))
	if err != nil {
		t.Fatalf("MarshalGraph() error = %v", err)
	}
	if !bytes.Contains(data, []byte(`"from": "r3"`)) {
		t.Errorf("MarshalGraph() = %s", data)
	}
}
