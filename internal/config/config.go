// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads dexplot settings.
//
// Settings are layered, with later sources overriding earlier ones:
// built-in defaults, a YAML config file, DEXPLOT_* environment
// variables, and explicitly set command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/aclements/dexplot/internal/dex"
	"github.com/aclements/dexplot/internal/export"
	"github.com/aclements/dexplot/internal/report"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultFile is the config file read if none is named explicitly.
const DefaultFile = "dexplot.yaml"

// EnvPrefix is the prefix of environment variables that set config
// keys. DEXPLOT_OUT_DIR sets out_dir.
const EnvPrefix = "DEXPLOT_"

// Config is the complete dexplot configuration.
type Config struct {
	// Data is the path of the creature statistics CSV.
	Data string `koanf:"data"`
	// NA lists the strings read as missing values.
	NA []string `koanf:"na"`
	// Missing replaces missing values in the Type 2 column.
	Missing string `koanf:"missing"`

	// OutDir is where charts are written.
	OutDir  string  `koanf:"out_dir"`
	Format  string  `koanf:"format"`
	Width   float64 `koanf:"width"`
	Height  float64 `koanf:"height"`
	DPI     float64 `koanf:"dpi"`
	Quality int     `koanf:"quality"`

	// Style is the console table style.
	Style string `koanf:"style"`

	// Jobs bounds how many charts render at once.
	Jobs int    `koanf:"jobs"`
	Seed uint64 `koanf:"seed"`

	Verbose bool `koanf:"verbose"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

func defaults() map[string]interface{} {
	o := export.DefaultOptions()
	return map[string]interface{}{
		"data":    "Pokemon.csv",
		"na":      dex.DefaultNA,
		"missing": dex.DefaultMissing,
		"out_dir": "plots",
		"format":  string(o.Format),
		"width":   o.Width,
		"height":  o.Height,
		"dpi":     o.DPI,
		"quality": o.Quality,
		"style":   string(report.Auto),
		"jobs":    4,
		"seed":    1,
		"verbose": false,
	}
}

// Load builds the configuration. path names the config file; if it
// is empty, DefaultFile is read if it exists. flags may be nil; only
// flags that were set on the command line override other sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	used := path
	if used == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			used = DefaultFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	// A list in the environment is comma-separated.
	if s, ok := k.Get("na").(string); ok {
		if err := k.Set("na", strings.Split(s, ",")); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = used
	return &cfg, nil
}

// Validate checks that c is usable.
func (c *Config) Validate() error {
	if c.Data == "" {
		return fmt.Errorf("config: data path is empty")
	}
	if _, err := report.ParseStyle(c.Style); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("config: jobs must be at least 1, got %d", c.Jobs)
	}
	if err := c.ExportOptions().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LoadOptions returns the dataset loading options.
func (c *Config) LoadOptions() dex.LoadOptions {
	return dex.LoadOptions{NA: c.NA, Missing: c.Missing}
}

// ExportOptions returns the chart output options.
func (c *Config) ExportOptions() export.Options {
	f := export.Format(c.Format)
	if p, err := export.ParseFormat(c.Format); err == nil {
		f = p
	}
	return export.Options{
		Format:  f,
		Width:   c.Width,
		Height:  c.Height,
		DPI:     c.DPI,
		Quality: c.Quality,
	}
}
