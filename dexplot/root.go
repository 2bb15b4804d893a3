// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/aclements/dexplot/internal/config"
	"github.com/aclements/dexplot/internal/dex"
	"github.com/aclements/dexplot/internal/export"
	"github.com/aclements/dexplot/internal/report"
	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = "devel"

// app is the state shared by every subcommand of one invocation.
type app struct {
	cfgFile string
	cfg     *config.Config
	style   report.Style
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := new(app)
	cmd := &cobra.Command{
		Use:   "dexplot",
		Short: "Explore and plot creature base statistics",
		Long: `dexplot loads a CSV of creature base statistics and prints
transformed tables or renders charts of it.

Run "dexplot walk" for the full tour.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	d := export.DefaultOptions()
	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "read settings from `file` (default "+config.DefaultFile+" if present)")
	pf.String("data", "", "creature statistics CSV `file`")
	pf.StringSlice("na", dex.DefaultNA, "strings read as missing values")
	pf.String("missing", dex.DefaultMissing, "`label` for a missing Type 2")
	pf.String("out-dir", "", "write charts to `dir`")
	pf.String("format", "", "chart format: svg, png, or jpeg")
	pf.Float64("width", d.Width, "chart width in inches")
	pf.Float64("height", d.Height, "chart height in inches")
	pf.Float64("dpi", d.DPI, "raster resolution in dots per inch")
	pf.Int("quality", d.Quality, "JPEG quality, 1 to 100")
	pf.String("style", string(report.Auto), "table style: auto, plain, box, markdown, csv, or yaml")
	pf.Int("jobs", 0, "render up to `n` charts at once")
	pf.Uint64("seed", 0, "jitter seed")
	pf.BoolP("verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newHeadCmd(a),
		newSelectCmd(a),
		newFilterCmd(a),
		newArrangeCmd(a),
		newSummaryCmd(a),
		newCountCmd(a),
		newTotalCmd(a),
		newLongerCmd(a),
		newFitCmd(a),
		newChartsCmd(),
		newPlotCmd(a),
		newWalkCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.style, _ = report.ParseStyle(cfg.Style)

	zc := zap.NewProductionConfig()
	if cfg.Verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zc.EncoderConfig),
		zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())),
		zc.Level,
	)
	a.log = zap.New(core).Named("dexplot")
	gg.Warning = zap.NewStdLog(a.log.Named("gg"))
	if cfg.File != "" {
		a.log.Debug("read config", zap.String("file", cfg.File))
	}
	return nil
}

// load reads the configured data file.
func (a *app) load() (*table.Table, error) {
	tab, err := dex.LoadFile(a.cfg.Data, a.cfg.LoadOptions())
	if err != nil {
		return nil, err
	}
	a.log.Debug("loaded data", zap.String("file", a.cfg.Data), zap.Int("rows", tab.Len()))
	return tab, nil
}

// printTable loads the data, applies f, and prints the result.
func (a *app) printTable(cmd *cobra.Command, f func(g table.Grouping) (table.Grouping, error)) error {
	tab, err := a.load()
	if err != nil {
		return err
	}
	res, err := f(tab)
	if err != nil {
		return err
	}
	return report.Print(cmd.OutOrStdout(), res, a.style)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dexplot version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "dexplot %s\n", version)
			return nil
		},
	}
}
