package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/argviz/pkg/cache"
	"github.com/matzehuels/argviz/pkg/engine"
	argerrors "github.com/matzehuels/argviz/pkg/errors"
	"github.com/matzehuels/argviz/pkg/graph"
	"github.com/matzehuels/argviz/pkg/observability"
	"github.com/matzehuels/argviz/pkg/translate"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so the caching rules live in one place.
//
// The Runner is stateless except for its collaborators; it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Engine *engine.Runner
	Logger *log.Logger
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If eng is nil, an engine with default settings is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, eng *engine.Runner, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if eng == nil {
		eng = engine.New(engine.Config{Logger: logger})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Engine: eng,
		Logger: logger,
	}
}

// Execute runs the complete engine → parse → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Engine
	engineStart := time.Now()
	raw, hit, err := r.TranscriptWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Raw = raw
	result.Stats.EngineTime = time.Since(engineStart)
	result.CacheInfo.TranscriptHit = hit

	// Stage 2: Parse
	parseStart := time.Now()
	lines, res, dumps, err := r.Parse(ctx, raw, opts)
	result.Lines = lines
	result.Dumps = dumps
	if err != nil {
		return result, err
	}
	result.Translation = res
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = res.Graph.NodeCount()
	result.Stats.EdgeCount = res.Graph.EdgeCount()

	r.Logger.Info("translated transcript",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"holds", res.Holds,
		"duration", result.Stats.ParseTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	l, err := r.ComputeLayout(ctx, res, opts)
	if err != nil {
		return result, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return result, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// TranscriptWithCacheInfo returns the engine output for opts and whether it
// came from cache. A transcript given in opts is returned unchanged. Only
// successful engine runs are cached.
func (r *Runner) TranscriptWithCacheInfo(ctx context.Context, opts Options) (string, bool, error) {
	if opts.Transcript != "" {
		return opts.Transcript, false, nil
	}
	r.applyLogger(&opts)

	program, err := os.ReadFile(opts.Program)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, argerrors.Wrap(argerrors.ErrCodeFileNotFound, err, "program %s not found", opts.Program)
		}
		return "", false, argerrors.Wrap(argerrors.ErrCodeInternal, err, "read program %s", opts.Program)
	}
	cfg := r.Engine.Config()
	cacheKey := r.Keyer.TranscriptKey(cache.Hash(program), opts.Query, TranscriptKeyOpts(cfg.QueryFunction, cfg.ResultVariable))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "transcript")
			return string(data), true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "transcript")
	}

	hooks := observability.Pipeline()
	hooks.OnEngineStart(ctx, opts.Program, opts.Query)
	start := time.Now()
	raw, err := RunEngine(ctx, r.Engine, opts)
	hooks.OnEngineComplete(ctx, opts.Query, time.Since(start), err)
	if err != nil {
		return "", false, err
	}

	if err := r.Cache.Set(ctx, cacheKey, []byte(raw), cache.TranscriptTTL); err != nil {
		r.Logger.Warn("cache transcript", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "transcript", len(raw))
	}
	return raw, false, nil
}

// Parse normalizes and translates raw engine output.
func (r *Runner) Parse(ctx context.Context, raw string, opts Options) ([]string, *translate.Result, []string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForParse(); err != nil {
		return nil, nil, nil, err
	}
	start := time.Now()
	lines, res, dumps, err := Parse(raw, opts)
	nodes := 0
	if res != nil {
		nodes = res.Graph.NodeCount()
	}
	observability.Pipeline().OnTranslateComplete(ctx, opts.Query, nodes, time.Since(start), err)
	return lines, res, dumps, err
}

// ComputeLayout positions a translated graph.
func (r *Runner) ComputeLayout(ctx context.Context, res *translate.Result, opts Options) (graph.Layout, error) {
	opts.SetLayoutDefaults()
	hooks := observability.Pipeline()
	nodes := 0
	if res != nil && res.Graph != nil {
		nodes = res.Graph.NodeCount()
	}
	hooks.OnLayoutStart(ctx, nodes)
	start := time.Now()
	l, err := GenerateLayout(res, opts.Query, opts.Layout)
	hooks.OnLayoutComplete(ctx, time.Since(start), err)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns whether
// every requested format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderFromLayout(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
