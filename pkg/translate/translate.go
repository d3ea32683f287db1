// Package translate reconstructs the attack graph from a normalized Gorgias
// transcript.
//
// # Transcript Layout
//
// The section the translator reads starts at the last line containing
// "RESULT". That line ends in "holds." when the query is accepted. The next
// line is either a fact ("... supported by") or the root argument. After that
// the body comes in fixed records of three lines; each line carries a single
// '|' marker whose column encodes the tree. With several RESULT blocks the
// body starts two lines below the last one; with a single block it starts at
// line index 2 regardless of where RESULT sits, so output with leading
// chatter yields only the root:
//
//	RESULT: fly(tweety) holds.
//	r1(tweety): fly(tweety) supported by bird(tweety)
//	   |r2(tweety): attacks on fly(tweety)
//	   |  neg fly(tweety)
//	   |  penguin(tweety)
//	      |r3(tweety): counter attacks on not fly(tweety).
//	      |  ...
//
// A marker further right than the current depth opens a child (an attacker of
// the current argument), the same column adds a sibling, and a marker further
// left climbs back to the ancestor whose column it matches.
//
// # Node Identity
//
// With [Options.NamedNodes] unset, nodes are named by the rule label printed
// before ':' or '(' (r1, r2, ...). With it set, nodes are named by the literal
// they argue for: the query for the root and the last token of the record line
// for attackers. The same name appearing twice in one transcript denotes the
// same node.
//
// # Failure
//
// Translation either succeeds completely or fails. A transcript without a
// RESULT line fails with [ErrNoResult]; any structural surprise in the body
// fails with [ErrMalformedTree]. No partial graph is ever returned.
package translate

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/argviz/pkg/dag"
	argerrors "github.com/matzehuels/argviz/pkg/errors"
)

// Marker is the character whose column encodes tree depth.
const Marker = '|'

// resultToken identifies the result line.
const resultToken = "RESULT"

// singleResultBody is the fixed index where the body walk starts when the
// transcript has exactly one RESULT block.
const singleResultBody = 2

var (
	// ErrNoResult is returned when the transcript contains no RESULT line.
	ErrNoResult = errors.New("no RESULT line in engine output")

	// ErrMalformedTree is returned when the body violates the record layout.
	ErrMalformedTree = errors.New("malformed proof tree")
)

// Options configures translation.
type Options struct {
	// NamedNodes names nodes by the literal they support instead of the rule
	// label. See the package documentation.
	NamedNodes bool

	// Logger receives the multi-result notice at info level and one debug
	// line per emitted node. Nil discards.
	Logger *log.Logger
}

// Result is the translated transcript. It is not modified after Translate
// returns.
type Result struct {
	Graph   *dag.DAG // Attack graph: edges point from attacker to attacked
	Root    string   // ID of the root argument
	Holds   bool     // The queried argument is accepted
	IsFact  bool     // The query is a fact; Graph has a single node
	Results int      // Number of RESULT blocks seen (only the last is used)
}

// Translate builds the attack graph for query from normalized transcript lines.
//
// Errors carry the codes NO_RESULT, MALFORMED_TREE or INVALID_INPUT and wrap
// [ErrNoResult] or [ErrMalformedTree] where applicable.
func Translate(lines []string, query string, opts Options) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, argerrors.New(argerrors.ErrCodeInvalidInput, "query cannot be empty")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	start, results := findResult(lines)
	if results == 0 {
		return nil, argerrors.Wrap(argerrors.ErrCodeNoResult, ErrNoResult, "engine output has no RESULT line (%d lines)", len(lines))
	}
	if results > 1 {
		logger.Info("multiple results, taking last", "results", results, "line", start)
	}

	body := start + 2
	if results == 1 {
		body = singleResultBody
	}

	res, err := translateSection(lines, start, body, query, opts.NamedNodes, logger)
	if err != nil {
		return nil, argerrors.Wrap(argerrors.ErrCodeMalformedTree, err, "cannot reconstruct proof tree for %s", query)
	}
	res.Results = results
	return res, nil
}

// findResult returns the index of the last line containing the result token
// and the number of such lines.
func findResult(lines []string) (start, count int) {
	start = -1
	for i, line := range lines {
		if strings.Contains(line, resultToken) {
			start = i
			count++
		}
	}
	return start, count
}

func translateSection(lines []string, start, body int, query string, named bool, logger *log.Logger) (*Result, error) {
	res := &Result{
		Graph: dag.New(),
		Holds: strings.HasSuffix(lines[start], "holds."),
	}

	if start+1 >= len(lines) {
		return nil, fmt.Errorf("%w: RESULT line %d is not followed by an argument", ErrMalformedTree, start)
	}
	first := lines[start+1]

	if strings.HasSuffix(strings.TrimRightFunc(first, unicode.IsSpace), "by") {
		res.IsFact = true
		res.Root = query
		if err := res.Graph.AddNode(dag.Node{ID: query, Description: strings.TrimSpace(first)}); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTree, err)
		}
		logger.Debug("argument is a fact", "query", query)
		return res, nil
	}

	if res.Holds && len(lines)-start == 3 {
		desc := strings.TrimSpace(afterMarker(first)) + "\n" + strings.TrimSpace(afterMarker(lines[start+2]))
		res.Root = query
		if err := res.Graph.AddNode(dag.Node{ID: query, Description: desc}); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTree, err)
		}
		logger.Debug("argument directly supported", "query", query)
		return res, nil
	}

	root := positionalName(first)
	if named {
		root = query
	}
	if err := res.Graph.AddNode(dag.Node{ID: root, Description: strings.TrimSpace(first)}); err != nil {
		return nil, fmt.Errorf("%w: root on line %d: %v", ErrMalformedTree, start+1, err)
	}
	res.Root = root
	logger.Debug("root argument", "id", root)

	p := &parser{lines: lines, graph: res.Graph, named: named, logger: logger}
	if err := p.walk(newState(body, root)); err != nil {
		return nil, err
	}
	return res, nil
}
