package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/argviz/pkg/cache"
	"github.com/matzehuels/argviz/pkg/config"
	"github.com/matzehuels/argviz/pkg/graph"
	"github.com/matzehuels/argviz/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(fc, nil, nil, logger)
	opts := pipeline.FromSettings(config.Default())
	opts.Program = "should-be-cleared.pl"
	srv := httptest.NewServer(newServer(runner, opts, logger).routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServeHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("response lacks a request ID")
	}
}

func TestServeLayout(t *testing.T) {
	srv := newTestServer(t)
	down := false
	resp := post(t, srv, "/v1/layout", map[string]any{
		"query":      "fly(tweety)",
		"transcript": tweetyTranscript,
		"downward":   down,
	})
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var l graph.Layout
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		t.Fatal(err)
	}
	if l.Root != "r1" || l.Downward {
		t.Errorf("layout root, downward = %q, %v", l.Root, l.Downward)
	}
	for _, n := range l.Nodes {
		if n.ID == "r3" && n.Y <= 0 {
			t.Errorf("upward tree placed r3 at y=%v", n.Y)
		}
	}
}

func TestServeRender(t *testing.T) {
	srv := newTestServer(t)
	req := map[string]any{"query": "fly(tweety)", "transcript": tweetyTranscript, "format": "dot"}

	first := post(t, srv, "/v1/render", req)
	if first.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", first.StatusCode)
	}
	if ct := first.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(first.Body)
	if !strings.Contains(string(body), "digraph") {
		t.Errorf("body is not DOT:\n%s", body)
	}

	second := post(t, srv, "/v1/render", req)
	if got := second.Header.Get("X-Cache"); got != "hit" {
		t.Errorf("second render X-Cache = %q, want hit", got)
	}
}

func TestServeRenderLayout(t *testing.T) {
	srv := newTestServer(t)
	l := graph.Layout{
		Query: "D", Title: "Argument D Holds", Root: "D", Holds: true,
		Nodes: []graph.LayoutNode{{ID: "D"}},
	}
	resp := post(t, srv, "/v1/render", map[string]any{"layout": l, "format": "dot"})
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
}

func TestServeErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name string
		path string
		body any
		want int
		code string
	}{
		{"no transcript", "/v1/layout", map[string]any{"query": "fly(tweety)"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad query", "/v1/layout", map[string]any{"query": "fly(", "transcript": tweetyTranscript}, http.StatusBadRequest, "INVALID_QUERY"},
		{"unknown field", "/v1/layout", map[string]any{"program": "x.pl"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"no result", "/v1/layout", map[string]any{"query": "q", "transcript": "nothing\n"}, http.StatusUnprocessableEntity, "NO_RESULT"},
		{"bad format", "/v1/render", map[string]any{"query": "fly(tweety)", "transcript": tweetyTranscript, "format": "gif"}, http.StatusBadRequest, "INVALID_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.path, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			var e errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatal(err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", e.Code, tt.code, e.Error)
			}
		})
	}
}
