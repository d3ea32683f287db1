package layout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/argviz/pkg/dag"
	argerrors "github.com/matzehuels/argviz/pkg/errors"
)

func tree(t *testing.T, nodes []string, edges ...[2]string) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, id := range nodes {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%q) error = %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%v) error = %v", e, err)
		}
	}
	return g
}

func TestHierarchyFourChildren(t *testing.T) {
	g := tree(t, []string{"D", "a", "b", "c", "d"},
		[2]string{"D", "a"}, [2]string{"D", "b"}, [2]string{"D", "c"}, [2]string{"D", "d"})

	for _, tt := range []struct {
		name     string
		downward bool
		wantY    float64
	}{
		{"down", true, -0.3},
		{"up", false, 0.3},
	} {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := Hierarchy(g, "D", Options{Width: 1, VertGap: 0.3, Downward: tt.downward})
			if err != nil {
				t.Fatalf("Hierarchy() error = %v", err)
			}
			want := Positions{
				"D": {0, 0},
				"a": {-0.375, tt.wantY},
				"b": {-0.125, tt.wantY},
				"c": {0.125, tt.wantY},
				"d": {0.375, tt.wantY},
			}
			if diff := cmp.Diff(want, pos); diff != "" {
				t.Errorf("positions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHierarchyNested(t *testing.T) {
	g := tree(t, []string{"r", "a", "b", "a1", "a2"},
		[2]string{"r", "a"}, [2]string{"r", "b"}, [2]string{"a", "a1"}, [2]string{"a", "a2"})

	pos, err := Hierarchy(g, "", Options{Width: 2, VertGap: 1, RootX: 1, RootY: 5, Downward: true})
	if err != nil {
		t.Fatalf("Hierarchy() error = %v", err)
	}
	want := Positions{
		"r":  {1, 5},
		"a":  {0.5, 4},
		"b":  {1.5, 4},
		"a1": {0.25, 3},
		"a2": {0.75, 3},
	}
	if diff := cmp.Diff(want, pos); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestHierarchyDeepChain(t *testing.T) {
	g := dag.New()
	const depth = 50000
	prev := ""
	for i := 0; i < depth; i++ {
		id := fmt.Sprintf("n%d", i)
		_ = g.AddNode(dag.Node{ID: id})
		if prev != "" {
			_ = g.AddEdge(dag.Edge{From: prev, To: id})
		}
		prev = id
	}
	pos, err := Hierarchy(g, "", Options{Width: 1, VertGap: 1, Downward: true})
	if err != nil {
		t.Fatalf("Hierarchy() error = %v", err)
	}
	if got := pos[prev].Y; got != -(depth - 1) {
		t.Errorf("deepest Y = %v, want %v", got, -(depth - 1))
	}
}

func TestHierarchyIdempotent(t *testing.T) {
	g := tree(t, []string{"r", "a", "b", "c"}, [2]string{"r", "a"}, [2]string{"r", "b"}, [2]string{"b", "c"})
	opts := DefaultOptions()
	first, err := Hierarchy(g, "r", opts)
	if err != nil {
		t.Fatalf("Hierarchy() error = %v", err)
	}
	second, err := Hierarchy(g, "r", opts)
	if err != nil {
		t.Fatalf("Hierarchy() error = %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second call differs (-first +second):\n%s", diff)
	}
}

func TestHierarchyRejectsNonTrees(t *testing.T) {
	tests := []struct {
		name string
		g    func(t *testing.T) *dag.DAG
		root string
		code argerrors.Code
		want error
	}{
		{"empty", func(t *testing.T) *dag.DAG { return dag.New() }, "", argerrors.ErrCodeNotATree, ErrNotATree},
		{"cycle", func(t *testing.T) *dag.DAG {
			return tree(t, []string{"r", "a", "b"}, [2]string{"a", "b"}, [2]string{"b", "a"})
		}, "", argerrors.ErrCodeNotATree, ErrNotATree},
		{"extra edge", func(t *testing.T) *dag.DAG {
			return tree(t, []string{"r", "a", "b"}, [2]string{"r", "a"}, [2]string{"r", "b"}, [2]string{"a", "b"})
		}, "", argerrors.ErrCodeNotATree, ErrNotATree},
		{"forest", func(t *testing.T) *dag.DAG {
			return tree(t, []string{"r", "s", "a"}, [2]string{"r", "a"})
		}, "", argerrors.ErrCodeNotATree, ErrNotATree},
		{"two parents", func(t *testing.T) *dag.DAG {
			return tree(t, []string{"r", "s", "a"}, [2]string{"r", "a"}, [2]string{"s", "a"})
		}, "", argerrors.ErrCodeNotATree, ErrNotATree},
		{"root not source", func(t *testing.T) *dag.DAG {
			return tree(t, []string{"r", "a"}, [2]string{"r", "a"})
		}, "a", argerrors.ErrCodeNotATree, ErrNotATree},
		{"unknown root", func(t *testing.T) *dag.DAG {
			return tree(t, []string{"r", "a"}, [2]string{"r", "a"})
		}, "zz", argerrors.ErrCodeNotFound, ErrUnknownRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := Hierarchy(tt.g(t), tt.root, DefaultOptions())
			if err == nil {
				t.Fatalf("Hierarchy() = %v, want error", pos)
			}
			if pos != nil {
				t.Errorf("Hierarchy() returned positions on error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error %v does not wrap %v", err, tt.want)
			}
			if got := argerrors.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestHierarchyReportsCycle(t *testing.T) {
	g := tree(t, []string{"r", "a", "b"}, [2]string{"r", "a"}, [2]string{"a", "b"}, [2]string{"b", "a"})
	_, err := Hierarchy(g, "", DefaultOptions())
	if !errors.Is(err, dag.ErrGraphHasCycle) || !errors.Is(err, ErrNotATree) {
		t.Errorf("Hierarchy() error = %v, want %v and %v", err, ErrNotATree, dag.ErrGraphHasCycle)
	}
}

func TestFindRoot(t *testing.T) {
	g := tree(t, []string{"z", "b", "a"}, [2]string{"z", "a"})
	root, err := FindRoot(g)
	if err != nil {
		t.Fatalf("FindRoot() error = %v", err)
	}
	if root != "b" {
		t.Errorf("FindRoot() = %q, want b", root)
	}

	cyclic := tree(t, []string{"a", "b"}, [2]string{"a", "b"}, [2]string{"b", "a"})
	if _, err := FindRoot(cyclic); !errors.Is(err, ErrNotATree) {
		t.Errorf("FindRoot(cycle) error = %v, want %v", err, ErrNotATree)
	}
}

func TestBounds(t *testing.T) {
	minX, minY, maxX, maxY := Bounds(Positions{"a": {-1, 2}, "b": {3, -4}})
	if minX != -1 || minY != -4 || maxX != 3 || maxY != 2 {
		t.Errorf("Bounds() = %v %v %v %v", minX, minY, maxX, maxY)
	}
	if a, b, c, d := Bounds(nil); a != 0 || b != 0 || c != 0 || d != 0 {
		t.Errorf("Bounds(nil) = %v %v %v %v", a, b, c, d)
	}
}
