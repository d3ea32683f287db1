// Package engine runs Gorgias queries on SWI-Prolog.
//
// A [Runner] consults a program file and proves one goal of the form
//
//	extended_prove_with_tree([fly(tweety)],A)
//
// printing the proof transcript on stdout. The goal predicate and result
// variable are configurable. The process is bounded by a timeout; its outcome
// is classified as follows:
//
//   - stdout has text: the transcript, returned even if stderr is not empty
//   - no answer within the timeout: ENGINE_TIMEOUT, wrapping [errors.TimeoutError]
//   - blank stdout and blank stderr: EMPTY_OUTPUT
//   - blank stdout and stderr text: ENGINE_FAILED carrying stderr
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	argerrors "github.com/matzehuels/argviz/pkg/errors"
)

// Default goal template and timeout.
const (
	DefaultSwiplPath      = "swipl"
	DefaultQueryFunction  = "extended_prove_with_tree"
	DefaultResultVariable = "A"
	DefaultTimeout        = 15 * time.Second
)

// Config configures a [Runner].
type Config struct {
	SwiplPath      string
	QueryFunction  string
	ResultVariable string
	Timeout        time.Duration
	Logger         *log.Logger // Nil discards
}

// DefaultConfig returns the configuration used without a settings file.
func DefaultConfig() Config {
	return Config{
		SwiplPath:      DefaultSwiplPath,
		QueryFunction:  DefaultQueryFunction,
		ResultVariable: DefaultResultVariable,
		Timeout:        DefaultTimeout,
	}
}

// Output is what the engine printed.
type Output struct {
	Stdout  string
	Stderr  string
	Elapsed time.Duration
}

// Runner invokes SWI-Prolog. It is safe for concurrent use; every Run starts
// its own process.
type Runner struct {
	cfg    Config
	logger *log.Logger
}

// New creates a Runner. Zero fields of cfg take their defaults.
func New(cfg Config) *Runner {
	def := DefaultConfig()
	if cfg.SwiplPath == "" {
		cfg.SwiplPath = def.SwiplPath
	}
	if cfg.QueryFunction == "" {
		cfg.QueryFunction = def.QueryFunction
	}
	if cfg.ResultVariable == "" {
		cfg.ResultVariable = def.ResultVariable
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Config returns the effective configuration.
func (r *Runner) Config() Config { return r.cfg }

// Goal builds the goal proved for query.
func (r *Runner) Goal(query string) string {
	return fmt.Sprintf("%s([%s],%s)", r.cfg.QueryFunction, strings.TrimSpace(query), r.cfg.ResultVariable)
}

// Args returns the SWI-Prolog arguments that consult program and prove the
// goal for query on every solution, then halt.
func (r *Runner) Args(program, query string) []string {
	return []string{
		"-q",
		"-g", fmt.Sprintf("consult('%s')", ProgramPath(program)),
		"-g", fmt.Sprintf("forall(%s, true)", r.Goal(query)),
		"-t", "halt",
	}
}

// ProgramPath normalizes Windows separators to forward slashes, which
// SWI-Prolog accepts on every platform.
func ProgramPath(program string) string {
	return strings.ReplaceAll(program, `\`, "/")
}

// Run proves query against program.
func (r *Runner) Run(ctx context.Context, program, query string) (Output, error) {
	program = ProgramPath(program)
	if err := argerrors.ValidateProgramPath(program); err != nil {
		return Output{}, err
	}
	if err := argerrors.ValidateQuery(query); err != nil {
		return Output{}, err
	}

	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	args := r.Args(program, query)
	cmd := exec.CommandContext(runCtx, r.cfg.SwiplPath, args...)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running engine", "swipl", r.cfg.SwiplPath, "goal", r.Goal(query), "program", program)
	start := time.Now()
	runErr := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String(), Elapsed: time.Since(start)}
	r.logger.Debug("engine finished", "elapsed", out.Elapsed, "stdout", stdout.Len(), "stderr", stderr.Len())

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		timeout := &argerrors.TimeoutError{After: r.cfg.Timeout, Program: program}
		return Output{}, argerrors.Wrap(argerrors.ErrCodeEngineTimeout, timeout, "engine did not answer within %s", r.cfg.Timeout)
	}
	if ctx.Err() != nil {
		return Output{}, ctx.Err()
	}
	if errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, fs.ErrNotExist) {
		return Output{}, argerrors.Wrap(argerrors.ErrCodeEngineFailed, runErr, "SWI-Prolog not found at %q", r.cfg.SwiplPath)
	}

	if strings.TrimSpace(out.Stdout) != "" {
		if runErr != nil || strings.TrimSpace(out.Stderr) != "" {
			r.logger.Warn("engine reported problems", "err", runErr, "stderr", strings.TrimSpace(out.Stderr))
		}
		return out, nil
	}
	if msg := strings.TrimSpace(out.Stderr); msg != "" {
		return out, argerrors.New(argerrors.ErrCodeEngineFailed, "engine error: %s", msg)
	}
	if runErr != nil {
		r.logger.Debug("engine exited silently", "err", runErr)
	}
	return out, argerrors.New(argerrors.ErrCodeEmptyOutput, "response was empty, check your input values")
}
