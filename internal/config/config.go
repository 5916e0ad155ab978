// Package config loads command settings.
//
// Settings come from, in increasing priority: built-in defaults, an
// optional scribe.yaml in the document directory, SCRIBE_* environment
// variables, and command-line flags bound to the viper instance.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/scribe/internal/compiler"
	"github.com/roach88/scribe/internal/memo"
	"github.com/roach88/scribe/internal/query"
)

// Keys.
const (
	KeyOutput    = "output"
	KeyMatch     = "match"
	KeyOnEmpty   = "on_empty"
	KeyCache     = "cache"
	KeyMaxPasses = "max_passes"
	KeyCacheSize = "cache_size"
	KeyCacheKeep = "cache_keep"
)

// DefaultCacheKeep is the number of rows the persistent layout cache keeps
// after a command.
const DefaultCacheKeep = 4096

// FileName is the config file looked up in the document directory, without
// extension.
const FileName = "scribe"

// EnvPrefix prefixes environment variables: SCRIBE_MAX_PASSES.
const EnvPrefix = "SCRIBE"

// Config is the validated configuration.
type Config struct {
	Output  string
	Match   query.MatchPolicy
	OnEmpty query.EmptyPolicy

	// Cache is the SQLite file backing the layout cache; empty disables
	// the persistent tier.
	Cache string

	MaxPasses int
	CacheSize int

	// CacheKeep bounds the persistent tier; older rows are pruned after
	// each command.
	CacheKeep int

	// File is the config file that was read, if any.
	File string
}

// raw mirrors the keys for unmarshalling.
type raw struct {
	Output    string `mapstructure:"output"`
	Match     string `mapstructure:"match"`
	OnEmpty   string `mapstructure:"on_empty"`
	Cache     string `mapstructure:"cache"`
	MaxPasses int    `mapstructure:"max_passes"`
	CacheSize int    `mapstructure:"cache_size"`
	CacheKeep int    `mapstructure:"cache_keep"`
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyOutput, query.DefaultOutput)
	v.SetDefault(KeyMatch, string(query.MatchFirst))
	v.SetDefault(KeyOnEmpty, string(query.EmptyFail))
	v.SetDefault(KeyCache, "")
	v.SetDefault(KeyMaxPasses, compiler.DefaultMaxPasses)
	v.SetDefault(KeyCacheSize, memo.DefaultSize)
	v.SetDefault(KeyCacheKeep, DefaultCacheKeep)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag in fs whose name matches a key (with dashes
// for underscores) so that a set flag overrides other sources.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range []string{KeyOutput, KeyMatch, KeyOnEmpty, KeyCache, KeyMaxPasses, KeyCacheSize, KeyCacheKeep} {
		f := fs.Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	}
	return nil
}

// Load reads the optional config file from dir and returns the validated
// configuration.
func Load(v *viper.Viper, dir string) (*Config, error) {
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	var file string
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		file = v.ConfigFileUsed()
	}

	var r raw
	if err := v.Unmarshal(&r); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg, err := r.validate()
	if err != nil {
		if file != "" {
			return nil, fmt.Errorf("%s: %w", filepath.Base(file), err)
		}
		return nil, err
	}
	cfg.File = file
	return cfg, nil
}

func (r raw) validate() (*Config, error) {
	var errs []error

	match, err := query.ParseMatchPolicy(r.Match)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyMatch, err))
	}
	onEmpty, err := query.ParseEmptyPolicy(r.OnEmpty)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyOnEmpty, err))
	}
	if r.Output == "" {
		errs = append(errs, fmt.Errorf("%s: must not be empty", KeyOutput))
	}
	if r.MaxPasses < 1 {
		errs = append(errs, fmt.Errorf("%s: must be at least 1, got %d", KeyMaxPasses, r.MaxPasses))
	}
	if r.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("%s: must be at least 1, got %d", KeyCacheSize, r.CacheSize))
	}
	if r.CacheKeep < 1 {
		errs = append(errs, fmt.Errorf("%s: must be at least 1, got %d", KeyCacheKeep, r.CacheKeep))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		Output:    r.Output,
		Match:     match,
		OnEmpty:   onEmpty,
		Cache:     r.Cache,
		MaxPasses: r.MaxPasses,
		CacheSize: r.CacheSize,
		CacheKeep: r.CacheKeep,
	}, nil
}
