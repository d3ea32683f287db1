// Package pkg provides the core libraries for argviz, a visualizer for
// Gorgias argumentation proofs.
//
// # Overview
//
// Gorgias, running on SWI-Prolog, answers a query by printing a dialectical
// tree: the argument supporting the query, the arguments attacking it, the
// counter-arguments attacking those, and so on. argviz reads that transcript,
// rebuilds the attack graph and draws it as a tree.
//
// # Architecture
//
// The data flow through argviz:
//
//	Prolog program + query
//	         ↓
//	    [engine] package (run swipl, capture the transcript)
//	         ↓
//	    [transcript] package (normalize lines)
//	         ↓
//	    [translate] package (rebuild the attack graph)
//	         ↓
//	    [layout] package (tidy tree positions)
//	         ↓
//	    [render/nodelink] + [render] packages (DOT, SVG, PNG, PDF)
//
// [pipeline] strings these stages together with caching and is shared by the
// CLI and the HTTP API.
//
// # Quick Start
//
//	lines := transcript.Normalize(raw)
//	res, _ := translate.Translate(lines, "fly(tweety)", translate.Options{})
//	pos, _ := layout.Hierarchy(res.Graph.Reverse(), res.Root, layout.DefaultOptions())
//
// # Main Packages
//
// [dag] - Insertion-ordered directed graph holding arguments and attacks.
//
// [graph] - JSON node-link format for graphs and positioned layouts.
//
// [cache] - File, Redis and no-op caches for transcripts and artifacts.
//
// [config] - TOML settings mirroring the legacy config.ini keys.
//
// [observability] - Lifecycle hooks for the pipeline, cache and HTTP server.
//
// [demo] - Built-in sample trees for trying the renderer without an engine.
//
// [errors] - Coded errors and input validation.
//
// [dag]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/dag
// [graph]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/graph
// [cache]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/observability
// [demo]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/demo
// [errors]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/errors
// [engine]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/engine
// [transcript]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/transcript
// [translate]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/translate
// [layout]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/argviz/pkg/pipeline
package pkg
