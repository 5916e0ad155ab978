package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/roach88/scribe/internal/memo"
	"github.com/roach88/scribe/internal/query"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
}

// QueryResult is the JSON payload of a query run.
type QueryResult struct {
	*query.Report
	Cache memo.Stats `json:"cache"`

	// Stored counts persistent cache rows per element kind.
	Stored map[string]int `json:"stored,omitempty"`
}

// staticRunID hands the command's run ID to the runner.
type staticRunID string

func (s staticRunID) Generate() string { return string(s) }

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <document-dir> <selector>",
		Short: "Render the element matched by a selector to SVG",
		Long: `Compile the document, evaluate the selector, and lay out the first
matching element again on its own, using the compiled document's styles
and cross-references. The first page of that layout is written as SVG.

Selectors are CUE expressions over the element kinds:

  heading
  heading & {where: level: 1}
  {label: "intro"}
  {or: [heading, figure]}

Example:
  scribe query ./report 'figure & {where: caption: "Setup"}' -o setup.svg
  scribe query ./report '{label: "intro"}' --match exactly-one`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringP("output", "o", "", "output SVG file (default output.svg)")
	cmd.Flags().String("match", "", "multiple-match policy (first|exactly-one)")
	cmd.Flags().String("on-empty", "", "empty-match policy (fail|skip)")
	addPipelineFlags(cmd)

	return cmd
}

// addPipelineFlags adds the flags shared by commands that compile.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("cache", "", "SQLite file for the persistent layout cache")
	cmd.Flags().Int("max-passes", 0, "maximum layout passes")
	cmd.Flags().Int("cache-size", 0, "in-memory layout cache entries")
	cmd.Flags().Int("cache-keep", 0, "rows the persistent layout cache keeps (default 4096)")
}

func runQuery(opts *QueryOptions, dir, expr string, cmd *cobra.Command) error {
	runID := opts.runIDs().Generate()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
		TraceID:   runID,
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	w, files, err := OpenDocument(dir)
	if err != nil {
		return commandError(formatter, err)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", files, dir)

	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return commandError(formatter, err)
	}
	if cfg.File != "" {
		formatter.VerboseLog("Using config %s", cfg.File)
	}

	p, err := newPipeline(cfg, logger.With("run_id", runID))
	if err != nil {
		return commandError(formatter, err)
	}
	defer p.Close(logger)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	runner := query.NewRunner(
		query.WithCompiler(p.compiler),
		query.WithLayouter(p.layouter),
		query.WithRunIDs(staticRunID(runID)),
		query.WithLogger(logger),
	)
	report, err := runner.Run(ctx, w, query.Options{
		Selector: expr,
		Output:   cfg.Output,
		Match:    cfg.Match,
		OnEmpty:  cfg.OnEmpty,
	})
	stats := p.cache.Stats()
	formatter.VerboseLog("Layout cache: %s hit(s), %s miss(es), %s invalidation(s)",
		humanize.Comma(stats.Hits+stats.StoreHits), humanize.Comma(stats.Misses), humanize.Comma(stats.Invalidations))
	stored := p.settle(ctx, logger)
	if stored != nil {
		formatter.VerboseLog("Layout cache rows: %s", storedText(stored))
	}

	if err != nil {
		_ = formatter.Error(describeError(err))
		var qe *query.Error
		if errors.As(err, &qe) {
			return WrapExitError(ExitFailure, string(qe.Kind), err)
		}
		return WrapExitError(ExitFailure, "query aborted", err)
	}

	formatter.Warnings(report.Diagnostics)
	return formatter.Success(QueryResult{Report: report, Cache: stats, Stored: stored}, queryText(report))
}

// storedText lists row counts by kind in kind order.
func storedText(counts map[string]int) string {
	kinds := make([]string, 0, len(counts))
	total := 0
	for k, n := range counts {
		kinds = append(kinds, k)
		total += n
	}
	sort.Strings(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s %s", humanize.Comma(int64(counts[k])), k)
	}
	if len(parts) == 0 {
		return "none"
	}
	return fmt.Sprintf("%s (%s)", humanize.Comma(int64(total)), strings.Join(parts, ", "))
}

func queryText(r *query.Report) string {
	if r.Skipped {
		return fmt.Sprintf("✓ No elements matched %s; nothing written", r.Selector)
	}
	s := fmt.Sprintf("✓ Rendered %s at location %d to %s (%s, %s)",
		r.Element, r.Location, r.Output,
		humanize.Bytes(uint64(r.Bytes)), english.Plural(r.Pages, "page", ""))
	if r.Matches > 1 {
		s += fmt.Sprintf("\n  %s matched; rendered the first", english.Plural(r.Matches, "element", ""))
	}
	return s
}

// commandError reports a setup failure (bad path, config or cache).
func commandError(formatter *OutputFormatter, err error) error {
	e := describeError(err)
	_ = formatter.Error(e)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", e.Code, e.Message), nil)
}
