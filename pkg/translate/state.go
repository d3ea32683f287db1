package translate

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/argviz/pkg/dag"
)

// recordLines is the number of transcript lines per body record and the
// maximum number of description lines per node.
const recordLines = 3

// frame is one open depth: the marker column of that depth and the ID of the
// node most recently emitted at it.
type frame struct {
	column int
	id     string
}

// state is the explicit parser state threaded through every step: the line
// cursor and the path of open depths from the root (index 0) to the most
// recently emitted node.
type state struct {
	cursor int
	path   []frame
}

func newState(cursor int, root string) state {
	return state{cursor: cursor, path: []frame{{column: 0, id: root}}}
}

func (s state) depth() int    { return len(s.path) - 1 }
func (s state) top() frame    { return s.path[len(s.path)-1] }
func (s state) parent() frame { return s.path[len(s.path)-2] }

// parser holds the read-only inputs and the graph being built. All mutable
// walk state lives in state values.
type parser struct {
	lines  []string
	graph  *dag.DAG
	named  bool
	logger *log.Logger
}

// walk consumes records until the lines run out or a line without a marker
// ends the body.
func (p *parser) walk(s state) error {
	for s.cursor < len(p.lines) {
		next, done, err := p.step(s)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		s = next
	}
	return nil
}

// step processes the record at s.cursor and returns the state for the next
// record. done reports a normal end of the body.
func (p *parser) step(s state) (next state, done bool, err error) {
	line := p.lines[s.cursor]
	col := strings.IndexByte(line, Marker)
	if col < 0 {
		return s, true, nil
	}

	if col < s.top().column {
		if s, err = p.climb(s, line); err != nil {
			return s, false, err
		}
	}

	switch top := s.top(); {
	case col > top.column:
		id, err := p.emit(s.cursor, col, top.id)
		if err != nil {
			return s, false, err
		}
		s.path = append(s.path, frame{column: col, id: id})
	case col == top.column:
		if s.depth() == 0 {
			return s, false, p.malformed(s.cursor, "record at the root column has no parent")
		}
		id, err := p.emit(s.cursor, col, s.parent().id)
		if err != nil {
			return s, false, err
		}
		s.path[len(s.path)-1].id = id
	}

	s.cursor += recordLines
	return s, false, nil
}

// climb pops open depths until the character of line at the current depth's
// column is the marker.
func (p *parser) climb(s state, line string) (state, error) {
	for {
		column := s.top().column
		if column >= len(line) {
			return s, p.malformed(s.cursor, "line ends before column %d", column)
		}
		if line[column] == Marker {
			return s, nil
		}
		if s.depth() == 0 {
			return s, p.malformed(s.cursor, "marker at column %d matches no open argument", strings.IndexByte(line, Marker))
		}
		s.path = s.path[:len(s.path)-1]
	}
}

// emit derives the node for the record at cursor, inserts it unless its ID is
// already known and records that it attacks parent.
func (p *parser) emit(cursor, col int, parent string) (string, error) {
	line := p.lines[cursor]
	id, err := p.title(line)
	if err != nil {
		return "", p.malformed(cursor, "%v", err)
	}

	if _, exists := p.graph.Node(id); !exists {
		n := dag.Node{ID: id, Description: p.description(cursor, col)}
		if err := p.graph.AddNode(n); err != nil {
			return "", p.malformed(cursor, "add node %q: %v", id, err)
		}
	}
	if err := p.graph.AddEdge(dag.Edge{From: id, To: parent}); err != nil {
		return "", p.malformed(cursor, "add attack %q -> %q: %v", id, parent, err)
	}
	p.logger.Debug("attack", "from", id, "to", parent, "line", cursor)
	return id, nil
}

func (p *parser) title(line string) (string, error) {
	if p.named {
		return literalName(line)
	}
	return ruleName(line)
}

// description joins the content of up to three lines starting at cursor,
// stopping early at a line whose marker is not at col.
func (p *parser) description(cursor, col int) string {
	parts := make([]string, 0, recordLines)
	for i := 0; i < recordLines && cursor+i < len(p.lines); i++ {
		line := p.lines[cursor+i]
		if i > 0 && strings.IndexByte(line, Marker) != col {
			break
		}
		parts = append(parts, strings.TrimSpace(afterMarker(line)))
	}
	return strings.Join(parts, "\n")
}

func (p *parser) malformed(cursor int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedTree, cursor, fmt.Sprintf(format, args...))
}
