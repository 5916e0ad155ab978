package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/scribe/internal/query"
	"github.com/roach88/scribe/internal/testutil"
	"github.com/roach88/scribe/internal/world"
)

// Harness runs scenarios. The zero value is not usable; use New.
type Harness struct {
	logger *slog.Logger
	opts   []query.Option
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger passed to the runner. Defaults to a logger
// that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// WithRunnerOptions adds options applied to every runner after the
// harness defaults.
func WithRunnerOptions(opts ...query.Option) Option {
	return func(h *Harness) { h.opts = append(h.opts, opts...) }
}

// New returns a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{logger: testutil.DiscardLogger()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes scenario in dir with a default harness.
func Run(ctx context.Context, scenario *Scenario, dir string) (*Result, error) {
	return New().Run(ctx, scenario, dir)
}

// Run executes scenario in dir, which should be empty. The document and
// its files are written there, the output path is resolved against it
// and a fresh runner with a fixed run ID drives the pipeline.
//
// The returned error reports harness failures only. A run that fails as
// the scenario expects yields a passing Result.
func (h *Harness) Run(ctx context.Context, scenario *Scenario, dir string) (*Result, error) {
	if err := materialize(scenario, dir); err != nil {
		return nil, err
	}
	opts, err := scenario.queryOptions(dir)
	if err != nil {
		return nil, err
	}
	w, err := world.NewSystem(dir)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}

	runnerOpts := append([]query.Option{
		query.WithLogger(h.logger),
		query.WithRunIDs(testutil.NewFixedRunIDGenerator(scenario.RunID)),
	}, h.opts...)
	runner := query.NewRunner(runnerOpts...)

	report, runErr := runner.Run(ctx, w, opts)
	result := NewResult()
	if err := collect(result, report, runErr, opts.Output); err != nil {
		return nil, err
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"status", result.Status,
		"state", result.State,
		"error_kind", result.ErrorKind,
	)

	for _, msg := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

// materialize writes the scenario's document and files into dir.
func materialize(scenario *Scenario, dir string) error {
	write := func(name string, data []byte) error {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", name, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		return nil
	}
	if err := write(testutil.SourceFile, []byte(scenario.Document)); err != nil {
		return err
	}
	for name, data := range scenario.Files {
		if err := write(name, []byte(data)); err != nil {
			return err
		}
	}
	return nil
}

// collect fills result from a finished run. Errors other than query
// errors, such as a canceled context, are returned as harness failures.
func collect(result *Result, report *query.Report, runErr error, output string) error {
	result.Report = report
	result.Matches = report.Matches
	result.Element = report.Element
	result.Location = report.Location
	result.Pages = report.Pages
	result.State = report.State

	switch {
	case runErr == nil && report.Skipped:
		result.Status = StatusSkipped
	case runErr == nil:
		result.Status = StatusDone
	default:
		var qe *query.Error
		if !errors.As(runErr, &qe) {
			return fmt.Errorf("run: %w", runErr)
		}
		result.Status = StatusAborted
		result.State = qe.State
		result.ErrorKind = qe.Kind
		result.Message = qe.Error()
	}

	data, err := os.ReadFile(output)
	switch {
	case err == nil:
		result.Output = data
		result.FileWritten = true
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("read output: %w", err)
	}
	return nil
}
