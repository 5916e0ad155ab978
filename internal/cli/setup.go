package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/scribe/internal/compiler"
	"github.com/roach88/scribe/internal/config"
	"github.com/roach88/scribe/internal/layout"
	"github.com/roach88/scribe/internal/memo"
	"github.com/roach88/scribe/internal/store"
)

// newLogger returns a text logger on w, at debug level when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// commandContext returns the command's context, canceled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// loadConfig reads configuration for the document in dir, with the
// command's flags taking precedence.
func loadConfig(cmd *cobra.Command, dir string) (*config.Config, error) {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v, dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeConfig, Message: err.Error()}
	}
	return cfg, nil
}

// pipeline holds the compiler and layouter shared by a command, both
// backed by one layout cache.
type pipeline struct {
	compiler *compiler.Compiler
	layouter *layout.Layouter
	cache    *memo.Cache
	store    *store.Store
	keep     int
}

func newPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	p := &pipeline{keep: cfg.CacheKeep}
	opts := []memo.Option{memo.WithLogger(logger)}
	if cfg.Cache != "" {
		st, err := store.Open(cfg.Cache)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeCache, Message: err.Error()}
		}
		p.store = st
		opts = append(opts, memo.WithStore(st))
		logger.Debug("layout cache opened", "path", cfg.Cache)
	}

	cache, err := memo.New(cfg.CacheSize, opts...)
	if err != nil {
		p.Close(logger)
		return nil, &LoadError{Code: ErrCodeCache, Message: err.Error()}
	}
	p.cache = cache
	p.layouter = layout.New(layout.WithCache(cache), layout.WithLogger(logger))
	p.compiler = compiler.New(
		compiler.WithLayouter(p.layouter),
		compiler.WithMaxPasses(cfg.MaxPasses),
		compiler.WithLogger(logger),
	)
	return p, nil
}

// settle prunes the persistent cache tier to its configured size and
// returns the remaining row counts per kind. It runs after interrupts too,
// so it ignores ctx cancellation. Failures are logged and yield nil.
func (p *pipeline) settle(ctx context.Context, logger *slog.Logger) map[string]int {
	if p.store == nil {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	n, err := p.cache.Prune(ctx, p.keep)
	if err != nil {
		logger.Warn("layout cache prune failed", "error", err)
	} else if n > 0 {
		logger.Debug("layout cache pruned", "rows", n, "keep", p.keep)
	}
	counts, err := p.cache.Stored(ctx)
	if err != nil {
		logger.Warn("layout cache count failed", "error", err)
		return nil
	}
	return counts
}

// Close releases the persistent cache tier, if any.
func (p *pipeline) Close(logger *slog.Logger) {
	if p.store == nil {
		return
	}
	if err := p.store.Close(); err != nil {
		logger.Error("error closing layout cache", "error", err)
	}
}
