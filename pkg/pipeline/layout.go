package pipeline

import (
	"github.com/matzehuels/argviz/pkg/dag"
	"github.com/matzehuels/argviz/pkg/demo"
	argerrors "github.com/matzehuels/argviz/pkg/errors"
	"github.com/matzehuels/argviz/pkg/graph"
	"github.com/matzehuels/argviz/pkg/layout"
	"github.com/matzehuels/argviz/pkg/translate"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout positions a translated attack graph. The graph is reversed so
// the root becomes the single source, laid out, and combined with the verdict
// into a serializable layout.
func GenerateLayout(res *translate.Result, query string, opts layout.Options) (graph.Layout, error) {
	if res == nil || res.Graph == nil {
		return graph.Layout{}, argerrors.New(argerrors.ErrCodeInvalidInput, "nothing to lay out")
	}
	v := graph.Verdict{Query: query, Root: res.Root, Holds: res.Holds, IsFact: res.IsFact}
	return layoutAttackGraph(res.Graph, v, opts)
}

// GenerateDemoLayout positions one of the built-in demo trees.
func GenerateDemoLayout(id int, opts layout.Options) (graph.Layout, error) {
	v := graph.Verdict{Query: demo.Root, Root: demo.Root, Holds: true}
	l, err := layoutAttackGraph(demo.Graph(id), v, opts)
	if err != nil {
		return l, err
	}
	l.Title = demo.Title
	return l, nil
}

func layoutAttackGraph(g *dag.DAG, v graph.Verdict, opts layout.Options) (graph.Layout, error) {
	pos, err := layout.Hierarchy(g.Reverse(), v.Root, opts)
	if err != nil {
		return graph.Layout{}, err
	}
	return graph.NewLayout(g, pos, v, opts), nil
}
