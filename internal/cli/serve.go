package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/argviz/pkg/buildinfo"
	"github.com/matzehuels/argviz/pkg/cache"
	argerrors "github.com/matzehuels/argviz/pkg/errors"
	"github.com/matzehuels/argviz/pkg/graph"
	"github.com/matzehuels/argviz/pkg/observability"
	"github.com/matzehuels/argviz/pkg/pipeline"
	"github.com/matzehuels/argviz/pkg/render"
)

const (
	// maxRequestBytes bounds request bodies; transcripts are small.
	maxRequestBytes = 1 << 20

	requestIDHeader = "X-Request-ID"
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command, which exposes the pipeline over
// HTTP. The API accepts transcripts only; it never runs the engine.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		redisCfg    cache.RedisConfig
		cachePrefix string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve translation and rendering over HTTP",
		Long: `Serve translation and rendering over HTTP.

Endpoints:
  GET  /healthz     liveness and version
  POST /v1/layout   {"query", "transcript", ...} -> layout document
  POST /v1/render   {"query", "transcript" | "layout", "format"} -> artifact

Artifacts are cached in Redis when --redis-addr is set, otherwise in the local
cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				store cache.Cache
				keyer cache.Keyer
				err   error
			)
			if redisCfg.Addr != "" {
				store, err = cache.NewRedisCache(ctx, redisCfg)
				keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), cachePrefix)
			} else {
				store, err = newCache(c.NoCache)
			}
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(store, keyer, c.newEngine(), c.Logger)
			defer runner.Close()

			srv := newServer(runner, c.options(), c.Logger)
			return srv.listen(ctx, cmd.OutOrStdout(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisCfg.Addr, "redis-addr", "", "Redis address (host:port) for the artifact cache")
	cmd.Flags().StringVar(&redisCfg.Password, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&redisCfg.DB, "redis-db", 0, "Redis database")
	cmd.Flags().StringVar(&cachePrefix, "cache-prefix", appName, "key prefix in Redis")

	return cmd
}

// =============================================================================
// Server
// =============================================================================

type server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
}

func newServer(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *server {
	defaults.Program = ""
	defaults.DumpDir = ""
	defaults.PrintRaw = false
	defaults.PrintCompact = false
	return &server{runner: runner, defaults: defaults, logger: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestContext)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	return r
}

func (s *server) listen(ctx context.Context, w io.Writer, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	printSuccess(w, "Listening on %s", StyleHighlight.Render(addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// requestContext assigns a request ID, attaches a request logger to the
// context and reports the request to the HTTP hooks.
func (s *server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := withLogger(r.Context(), s.logger.With("request_id", id))
		hooks := observability.HTTP()
		hooks.OnRequest(ctx, id, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))
		hooks.OnResponse(ctx, id, r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

// treeRequest selects a transcript and the tree options. Unset options take
// the server's settings.
type treeRequest struct {
	Query      string   `json:"query"`
	Transcript string   `json:"transcript"`
	NamedNodes *bool    `json:"named_nodes,omitempty"`
	Width      *float64 `json:"width,omitempty"`
	VertGap    *float64 `json:"vert_gap,omitempty"`
	Downward   *bool    `json:"downward,omitempty"`
}

type renderRequest struct {
	treeRequest
	Layout *graph.Layout `json:"layout,omitempty"`
	Format string        `json:"format"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req treeRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts := s.options(req)
	opts.Formats = []string{render.FormatJSON}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Layout)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	format := req.Format
	if format == "" {
		format = render.FormatSVG
	}
	opts := s.options(req.treeRequest)
	opts.Formats = []string{format}

	var (
		artifacts map[string][]byte
		hit       bool
		err       error
	)
	if req.Layout != nil {
		artifacts, hit, err = s.runner.RenderWithCacheInfo(r.Context(), *req.Layout, opts)
	} else {
		var result *pipeline.Result
		result, err = s.runner.Execute(r.Context(), opts)
		if err == nil {
			artifacts, hit = result.Artifacts, result.CacheInfo.RenderHit
		}
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *server) options(req treeRequest) pipeline.Options {
	opts := s.defaults
	opts.Query = req.Query
	opts.Transcript = req.Transcript
	if req.NamedNodes != nil {
		opts.NamedNodes = *req.NamedNodes
	}
	if req.Width != nil {
		opts.Layout.Width = *req.Width
	}
	if req.VertGap != nil {
		opts.Layout.VertGap = *req.VertGap
	}
	if req.Downward != nil {
		opts.Layout.Downward = *req.Downward
	}
	return opts
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.fail(w, r, argerrors.Wrap(argerrors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := loggerFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
	} else {
		logger.Debug("request rejected", "status", status, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: argerrors.UserMessage(err), Code: string(argerrors.GetCode(err))})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch argerrors.GetCode(err) {
	case argerrors.ErrCodeInvalidInput, argerrors.ErrCodeInvalidQuery, argerrors.ErrCodeInvalidPath, argerrors.ErrCodeInvalidFormat, argerrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case argerrors.ErrCodeNoResult, argerrors.ErrCodeMalformedTree, argerrors.ErrCodeNotATree, argerrors.ErrCodeNotFound:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func contentType(format string) string {
	switch format {
	case render.FormatSVG:
		return "image/svg+xml"
	case render.FormatPNG:
		return "image/png"
	case render.FormatPDF:
		return "application/pdf"
	case render.FormatJSON:
		return "application/json"
	}
	return "text/vnd.graphviz"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
