package translate

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/argviz/pkg/dag"
	argerrors "github.com/matzehuels/argviz/pkg/errors"
)

// tweety is a two-level transcript: r2 and r4 attack the root r1, r3 attacks
// r2. The r4 record climbs back from depth 2 to depth 1.
var tweety = []string{
	"RESULT: fly(tweety) holds.",
	"r1(tweety): fly(tweety) supported by bird(tweety)",
	"   |r2(tweety): attacked by penguin(tweety).",
	"   |  neg fly(tweety)",
	"   |  penguin(tweety)",
	"      |r3(tweety): counter attacked by not penguin(tweety).",
	"      |  not penguin(tweety)",
	"      |  sparrow(tweety)",
	"   |r4(tweety): attacked by injured(tweety).",
	"   |  neg fly(tweety)",
	"   |  injured(tweety)",
}

type snapshot struct {
	Nodes []dag.Node
	Edges []dag.Edge
}

func snap(g *dag.DAG) snapshot {
	var s snapshot
	for _, n := range g.Nodes() {
		s.Nodes = append(s.Nodes, *n)
	}
	s.Edges = g.Edges()
	return s
}

func TestTranslateFact(t *testing.T) {
	lines := []string{
		"RESULT: bird(tweety) holds.",
		"  bird(tweety) is a fact supported by  ",
	}

	res, err := Translate(lines, "bird(tweety)", Options{})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !res.Holds || !res.IsFact {
		t.Errorf("Holds, IsFact = %v, %v, want true, true", res.Holds, res.IsFact)
	}
	want := snapshot{Nodes: []dag.Node{{ID: "bird(tweety)", Description: "bird(tweety) is a fact supported by"}}}
	if diff := cmp.Diff(want, snap(res.Graph)); diff != "" {
		t.Errorf("graph mismatch (-want +got):\n%s", diff)
	}
	if res.Root != "bird(tweety)" {
		t.Errorf("Root = %q, want bird(tweety)", res.Root)
	}
}

func TestTranslateDirectSupport(t *testing.T) {
	lines := []string{
		"RESULT: fly(tweety) holds.",
		"r1(tweety): fly(tweety) supported by bird(tweety)",
		"|  bird(tweety)  ",
	}

	res, err := Translate(lines, "fly(tweety)", Options{})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !res.Holds || res.IsFact {
		t.Errorf("Holds, IsFact = %v, %v, want true, false", res.Holds, res.IsFact)
	}
	want := snapshot{Nodes: []dag.Node{{
		ID:          "fly(tweety)",
		Description: "r1(tweety): fly(tweety) supported by bird(tweety)\nbird(tweety)",
	}}}
	if diff := cmp.Diff(want, snap(res.Graph)); diff != "" {
		t.Errorf("graph mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateTree(t *testing.T) {
	res, err := Translate(tweety, "fly(tweety)", Options{})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !res.Holds || res.IsFact || res.Root != "r1" || res.Results != 1 {
		t.Errorf("result = %+v", res)
	}

	want := snapshot{
		Nodes: []dag.Node{
			{ID: "r1", Description: "r1(tweety): fly(tweety) supported by bird(tweety)"},
			{ID: "r2", Description: "r2(tweety): attacked by penguin(tweety).\nneg fly(tweety)\npenguin(tweety)"},
			{ID: "r3", Description: "r3(tweety): counter attacked by not penguin(tweety).\nnot penguin(tweety)\nsparrow(tweety)"},
			{ID: "r4", Description: "r4(tweety): attacked by injured(tweety).\nneg fly(tweety)\ninjured(tweety)"},
		},
		Edges: []dag.Edge{
			{From: "r2", To: "r1"},
			{From: "r3", To: "r2"},
			{From: "r4", To: "r1"},
		},
	}
	if diff := cmp.Diff(want, snap(res.Graph)); diff != "" {
		t.Errorf("graph mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateNamedNodes(t *testing.T) {
	res, err := Translate(tweety, "fly(tweety)", Options{NamedNodes: true})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if res.Root != "fly(tweety)" {
		t.Errorf("Root = %q, want fly(tweety)", res.Root)
	}
	want := []dag.Edge{
		{From: "penguin(tweety)", To: "fly(tweety)"},
		{From: "not penguin(tweety)", To: "penguin(tweety)"},
		{From: "injured(tweety)", To: "fly(tweety)"},
	}
	if diff := cmp.Diff(want, res.Graph.Edges()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateSiblings(t *testing.T) {
	lines := []string{
		"RESULT: p does not hold.",
		"r1: p",
		"  |r2: a.",
		"  |  x",
		"  |  y",
		"  |r3: b.",
		"  |  x",
		"  |  y",
		"     |r4: c.",
		"     |  x",
		"     |  y",
	}

	res, err := Translate(lines, "p", Options{})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if res.Holds {
		t.Error("Holds = true, want false")
	}
	want := []dag.Edge{
		{From: "r2", To: "r1"},
		{From: "r3", To: "r1"},
		{From: "r4", To: "r3"},
	}
	if diff := cmp.Diff(want, res.Graph.Edges()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateReusedID(t *testing.T) {
	lines := []string{
		"RESULT: p holds.",
		"r1: p",
		"  |r2: a.",
		"  |  first",
		"  |  description",
		"     |r3: c.",
		"     |  x",
		"     |  y",
		"  |r4: b.",
		"  |  x",
		"  |  y",
		"     |r3: c.",
		"     |  second",
		"     |  description",
	}

	res, err := Translate(lines, "p", Options{})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if res.Graph.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", res.Graph.NodeCount())
	}
	if got := res.Graph.Children("r3"); !cmp.Equal(got, []string{"r2", "r4"}) {
		t.Errorf("Children(r3) = %v, want [r2 r4]", got)
	}
	n, _ := res.Graph.Node("r3")
	if n.Description != "r3: c.\nx\ny" {
		t.Errorf("Description(r3) = %q, want first occurrence", n.Description)
	}
}

func TestTranslateDescriptionStopsAtColumnChange(t *testing.T) {
	lines := []string{
		"RESULT: p holds.",
		"r1: p",
		"  |r2: a.",
		"     |  shifted",
	}

	res, err := Translate(lines, "p", Options{})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	n, _ := res.Graph.Node("r2")
	if n.Description != "r2: a." {
		t.Errorf("Description(r2) = %q, want %q", n.Description, "r2: a.")
	}
}

func TestTranslateTakesLastResult(t *testing.T) {
	lines := append([]string{
		"RESULT: fly(tweety) holds.",
		"  fly(tweety) supported by",
	}, tweety...)

	res, err := Translate(lines, "fly(tweety)", Options{})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if res.Results != 2 {
		t.Errorf("Results = %d, want 2", res.Results)
	}
	if res.IsFact || res.Graph.NodeCount() != 4 {
		t.Errorf("IsFact = %v, NodeCount = %d, want the last block", res.IsFact, res.Graph.NodeCount())
	}
}

func TestTranslateSingleResultAfterPreamble(t *testing.T) {
	lines := append([]string{
		"Warning: singleton variable",
		"% consulted program.pl",
	}, tweety...)

	res, err := Translate(lines, "fly(tweety)", Options{})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if res.Results != 1 || res.Root != "r1" {
		t.Errorf("Results, Root = %d, %q, want 1, r1", res.Results, res.Root)
	}
	// The body walk starts at line 2, the unmarked RESULT line, and stops.
	want := snapshot{Nodes: []dag.Node{{ID: "r1", Description: tweety[1]}}}
	if diff := cmp.Diff(want, snap(res.Graph)); diff != "" {
		t.Errorf("graph mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateStopsAtUnmarkedLine(t *testing.T) {
	lines := append(append([]string{}, tweety[:5]...), "true.", "   |r9: ignored.")

	res, err := Translate(lines, "fly(tweety)", Options{})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if _, ok := res.Graph.Node("r9"); ok {
		t.Error("record after an unmarked line was translated")
	}
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		query    string
		wantCode argerrors.Code
		wantErr  error
	}{
		{
			name:     "no result",
			lines:    []string{"Welcome to SWI-Prolog", "true."},
			query:    "p",
			wantCode: argerrors.ErrCodeNoResult,
			wantErr:  ErrNoResult,
		},
		{
			name:     "no lines",
			query:    "p",
			wantCode: argerrors.ErrCodeNoResult,
			wantErr:  ErrNoResult,
		},
		{
			name:     "empty query",
			lines:    tweety,
			query:    "  ",
			wantCode: argerrors.ErrCodeInvalidInput,
		},
		{
			name:     "result on last line",
			lines:    []string{"RESULT: p holds."},
			query:    "p",
			wantCode: argerrors.ErrCodeMalformedTree,
			wantErr:  ErrMalformedTree,
		},
		{
			name:     "sibling of root",
			lines:    []string{"RESULT: p holds.", "r1: p", "|r2: a.", "|  x", "|  y"},
			query:    "p",
			wantCode: argerrors.ErrCodeMalformedTree,
			wantErr:  ErrMalformedTree,
		},
		{
			name: "climb past root",
			lines: []string{
				"RESULT: p holds.", "r1: p",
				"      |r2: a.", "      |  x", "      |  y",
				"   |r3: b.", "   |  x", "   |  y",
			},
			query:    "p",
			wantCode: argerrors.ErrCodeMalformedTree,
			wantErr:  ErrMalformedTree,
		},
		{
			name: "line shorter than open column",
			lines: []string{
				"RESULT: p holds.", "r1: p",
				"          |r2: a.", "          |  x", "          |  y",
				" |r3",
			},
			query:    "p",
			wantCode: argerrors.ErrCodeMalformedTree,
			wantErr:  ErrMalformedTree,
		},
		{
			name:     "untitled record",
			lines:    []string{"RESULT: p holds.", "r1: p", "  |(x): a.", "  |  x", "  |  y"},
			query:    "p",
			wantCode: argerrors.ErrCodeMalformedTree,
			wantErr:  ErrMalformedTree,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Translate(tt.lines, tt.query, Options{})
			if err == nil {
				t.Fatalf("Translate() = %+v, want error", res)
			}
			if res != nil {
				t.Errorf("Translate() returned a partial result")
			}
			if got := argerrors.GetCode(err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error %v does not wrap %v", err, tt.wantErr)
			}
		})
	}
}

func TestTranslateDeterministic(t *testing.T) {
	first, err := Translate(tweety, "fly(tweety)", Options{})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Translate(tweety, "fly(tweety)", Options{})
		if err != nil {
			t.Fatalf("Translate() error = %v", err)
		}
		if diff := cmp.Diff(snap(first.Graph), snap(again.Graph)); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		line    string
		rule    string
		literal string
	}{
		{"   |r2(tweety): attacked by penguin(tweety).", "r2", "penguin(tweety)"},
		{"|r3: counter attacked by not p.", "r3", "not p"},
		{"  |nr_1(X, Y): x y z:", "nr_1", "z"},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			rule, err := ruleName(tt.line)
			if err != nil || rule != tt.rule {
				t.Errorf("ruleName(%q) = %q, %v, want %q", tt.line, rule, err, tt.rule)
			}
			literal, err := literalName(tt.line)
			if err != nil || literal != tt.literal {
				t.Errorf("literalName(%q) = %q, %v, want %q", tt.line, literal, err, tt.literal)
			}
		})
	}

	if got, err := literalName("  |r2: attacked by pingüé"); err != nil || got != "pingü" {
		t.Errorf("literalName(non-ASCII) = %q, %v, want %q", got, err, "pingü")
	}
	if _, err := literalName("  |  "); err == nil {
		t.Error("literalName(blank) error = nil")
	}
	if got := positionalName("  r1(a): b"); got != "r1" {
		t.Errorf("positionalName() = %q, want r1", got)
	}
	if got := afterMarker("no marker"); got != "no marker" {
		t.Errorf("afterMarker() = %q", got)
	}
	if !strings.HasPrefix(afterMarker("a|b|c"), "b|") {
		t.Errorf("afterMarker() must split at the first marker")
	}
}
