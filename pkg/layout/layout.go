// Package layout positions a rooted tree for drawing.
//
// [Hierarchy] splits the horizontal extent of every node evenly between its
// children and places each generation one vertical gap further from the root.
// Subtree size is ignored: a leaf and a deep subtree at the same depth get the
// same share. Children are placed left to right in [dag.DAG.Children] order, so
// the same graph always yields the same positions.
//
// The input is the reversed attack graph (parent -> child). It must be a
// rooted tree; anything else fails with [ErrNotATree] before any position is
// computed.
package layout

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/argviz/pkg/dag"
	argerrors "github.com/matzehuels/argviz/pkg/errors"
)

var (
	// ErrNotATree is returned when the graph is not a rooted directed tree.
	ErrNotATree = errors.New("graph is not a tree")

	// ErrUnknownRoot is returned when the requested root is not in the graph.
	ErrUnknownRoot = errors.New("unknown root")
)

// Point is a node position in layout units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positions maps node IDs to their positions.
type Positions map[string]Point

// Options controls the geometry of [Hierarchy].
type Options struct {
	Width    float64 // Horizontal extent given to the root's children
	VertGap  float64 // Distance between generations
	RootX    float64
	RootY    float64
	Downward bool // Children below their parent (smaller Y) when set
}

// DefaultOptions returns the geometry used when no settings are loaded.
func DefaultOptions() Options {
	return Options{Width: 1.0, VertGap: 0.3, Downward: true}
}

// FindRoot returns the node without incoming edges. When several exist the
// lexicographically smallest ID wins, so the choice is stable.
func FindRoot(g *dag.DAG) (string, error) {
	sources := g.Sources()
	if len(sources) == 0 {
		return "", argerrors.Wrap(argerrors.ErrCodeNotATree, ErrNotATree, "graph has no root (%d nodes)", g.NodeCount())
	}
	ids := make([]string, len(sources))
	for i, n := range sources {
		ids[i] = n.ID
	}
	return slices.Min(ids), nil
}

// Hierarchy computes positions for every node of the tree g.
//
// An empty root is resolved with [FindRoot]. The root is placed at
// (RootX, RootY). A node with k children at x and width w places child i at
// x - w/2 + dx/2 + i*dx with dx = w/k, and hands each child the width dx.
//
// Errors carry the code NOT_A_TREE and wrap [ErrNotATree], or NOT_FOUND and
// wrap [ErrUnknownRoot]. No positions are returned on error.
func Hierarchy(g *dag.DAG, root string, opts Options) (Positions, error) {
	source, err := checkTree(g)
	if err != nil {
		return nil, argerrors.Wrap(argerrors.ErrCodeNotATree, err, "cannot lay out graph")
	}
	if root == "" {
		root = source
	}
	if _, ok := g.Node(root); !ok {
		return nil, argerrors.Wrap(argerrors.ErrCodeNotFound, ErrUnknownRoot, "root %q is not in the graph", root)
	}
	if root != source {
		return nil, argerrors.Wrap(argerrors.ErrCodeNotATree, ErrNotATree, "%q has incoming edges; the root is %q", root, source)
	}

	gap := opts.VertGap
	if opts.Downward {
		gap = -gap
	}

	type item struct {
		id       string
		x, y, dx float64
	}
	pos := make(Positions, g.NodeCount())
	stack := []item{{id: root, x: opts.RootX, y: opts.RootY, dx: opts.Width}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pos[it.id] = Point{X: it.x, Y: it.y}

		children := g.Children(it.id)
		if len(children) == 0 {
			continue
		}
		dx := it.dx / float64(len(children))
		next := it.x - it.dx/2 + dx/2
		placed := make([]item, len(children))
		for i, child := range children {
			placed[i] = item{id: child, x: next, y: it.y + gap, dx: dx}
			next += dx
		}
		for i := len(placed) - 1; i >= 0; i-- {
			stack = append(stack, placed[i])
		}
	}
	return pos, nil
}

// checkTree verifies that g is a rooted directed tree and returns its root.
func checkTree(g *dag.DAG) (string, error) {
	n := g.NodeCount()
	if n == 0 {
		return "", fmt.Errorf("%w: graph is empty", ErrNotATree)
	}
	if err := g.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotATree, err)
	}
	if e := g.EdgeCount(); e != n-1 {
		return "", fmt.Errorf("%w: %d nodes need %d edges, have %d", ErrNotATree, n, n-1, e)
	}

	sources := g.Sources()
	if len(sources) != 1 {
		return "", fmt.Errorf("%w: %d nodes without a parent", ErrNotATree, len(sources))
	}
	for _, node := range g.Nodes() {
		if d := g.InDegree(node.ID); d > 1 {
			return "", fmt.Errorf("%w: %q has %d parents", ErrNotATree, node.ID, d)
		}
	}

	root := sources[0].ID
	seen := map[string]bool{root: true}
	queue := []string{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range g.Children(id) {
			if !seen[child] {
				seen[child] = true
				queue = append(queue, child)
			}
		}
	}
	if len(seen) != n {
		return "", fmt.Errorf("%w: %d of %d nodes unreachable from %q", ErrNotATree, n-len(seen), n, root)
	}
	return root, nil
}

// Bounds returns the bounding box of pos. It returns zeros for an empty map.
func Bounds(pos Positions) (minX, minY, maxX, maxY float64) {
	if len(pos) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
