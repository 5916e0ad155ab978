package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/engine"
	"github.com/roach88/scribe/internal/memo"
	"github.com/roach88/scribe/internal/model"
	"github.com/roach88/scribe/internal/selector"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
}

// LabelInfo locates a labelled element.
type LabelInfo struct {
	Label    string           `json:"label"`
	Kind     content.Kind     `json:"kind"`
	Location content.Location `json:"location"`
	Page     int              `json:"page"`
}

// CompileSummary describes a compiled document.
type CompileSummary struct {
	Files       int                  `json:"files"`
	Pages       int                  `json:"pages"`
	Elements    map[content.Kind]int `json:"elements"`
	Labels      []LabelInfo          `json:"labels"`
	Diagnostics []engine.Diagnostic  `json:"diagnostics,omitempty"`
	Cache       memo.Stats           `json:"cache"`
	Stored      map[string]int       `json:"stored,omitempty"`
}

var locatableKinds = []content.Kind{
	content.KindHeading,
	content.KindFigure,
	content.KindOutline,
	content.KindRef,
	content.KindMetadata,
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <document-dir>",
		Short: "Compile a document and summarize it",
		Long: `Compile the CUE document in a directory and print its page count,
the elements the introspector knows, and every label with its page.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}
	addPipelineFlags(cmd)

	return cmd
}

func runCompile(opts *CompileOptions, dir string, cmd *cobra.Command) error {
	runID := opts.runIDs().Generate()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   runID,
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose).With("run_id", runID)

	w, files, err := OpenDocument(dir)
	if err != nil {
		return commandError(formatter, err)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", files, dir)

	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return commandError(formatter, err)
	}

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return commandError(formatter, err)
	}
	defer p.Close(logger)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	tracer := engine.NewTracer()
	doc, err := p.compiler.CompileContext(ctx, w, tracer)
	if err != nil {
		_ = formatter.Error(describeError(err))
		return WrapExitError(ExitFailure, "compilation failed", err)
	}

	summary := summarize(doc)
	summary.Files = files
	summary.Diagnostics = tracer.Diagnostics()
	summary.Cache = p.cache.Stats()
	summary.Stored = p.settle(ctx, logger)

	formatter.Warnings(summary.Diagnostics)
	return formatter.Success(summary, compileText(summary))
}

func summarize(doc *model.Document) CompileSummary {
	s := CompileSummary{
		Pages:    len(doc.Pages),
		Elements: map[content.Kind]int{},
		Labels:   []LabelInfo{},
	}
	in := doc.Introspector
	for _, k := range locatableKinds {
		if n := len(in.Query(selector.MustLocatable(selector.Elem{Kind: k}))); n > 0 {
			s.Elements[k] = n
		}
	}
	for _, label := range in.Labels() {
		c, err := in.QueryLabel(label)
		if err != nil {
			continue
		}
		page, _ := in.Page(c.Location())
		s.Labels = append(s.Labels, LabelInfo{Label: label, Kind: c.Kind(), Location: c.Location(), Page: page})
	}
	return s
}

func compileText(s CompileSummary) string {
	var b strings.Builder
	total := 0
	for _, n := range s.Elements {
		total += n
	}
	fmt.Fprintf(&b, "✓ Compiled %s, %s\n", english.Plural(s.Pages, "page", ""), english.Plural(total, "element", ""))

	if len(s.Elements) > 0 {
		kinds := make([]string, 0, len(s.Elements))
		for k := range s.Elements {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		fmt.Fprintln(&b, "\nElements:")
		for _, k := range kinds {
			fmt.Fprintf(&b, "  %s: %s\n", k, humanize.Comma(int64(s.Elements[content.Kind(k)])))
		}
	}

	if len(s.Labels) > 0 {
		fmt.Fprintln(&b, "\nLabels:")
		for _, l := range s.Labels {
			fmt.Fprintf(&b, "  <%s> %s on page %d\n", l.Label, l.Kind, l.Page)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
