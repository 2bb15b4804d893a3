// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/aclements/dexplot/internal/charts"
	"github.com/aclements/dexplot/internal/dex"
	"github.com/aclements/dexplot/internal/export"
	"github.com/aclements/dexplot/internal/walk"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newChartsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "charts",
		Short: "List the chart names accepted by plot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range charts.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (a *app) walkOptions(cmd *cobra.Command) walk.Options {
	return walk.Options{
		Out:    cmd.OutOrStdout(),
		Style:  a.style,
		OutDir: a.cfg.OutDir,
		Export: a.cfg.ExportOptions(),
		Jobs:   a.cfg.Jobs,
		Seed:   a.cfg.Seed,
		Logger: a.log,
	}
}

func newPlotCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "plot chart...",
		Short: "Render charts",
		Long: `Plot renders each named chart into the output directory. With
-o, plot renders a single chart to the given file and takes the format
from its extension unless --format is set.

Run "dexplot charts" for the list of charts.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := a.load()
			if err != nil {
				return err
			}
			if out == "" {
				opts := a.walkOptions(cmd)
				opts.Charts = args
				_, err := walk.Render(cmd.Context(), tab, opts)
				return err
			}

			if len(args) != 1 {
				return fmt.Errorf("-o requires exactly one chart, got %d", len(args))
			}
			c, err := charts.Lookup(args[0])
			if err != nil {
				return err
			}
			if j, ok := c.(charts.Jitter); ok {
				j.Seed = a.cfg.Seed
				c = j
			}
			start := time.Now()
			p, err := c.Plot(dex.WithTotal(tab))
			if err != nil {
				return err
			}
			eo := a.cfg.ExportOptions()
			if !cmd.Flags().Changed("format") {
				eo.Format = ""
			}
			if err := export.Save(out, p, eo); err != nil {
				return err
			}
			a.log.Info("wrote chart",
				zap.String("chart", args[0]),
				zap.String("path", out),
				zap.Duration("elapsed", time.Since(start)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the chart to `file`")
	return cmd
}

func newWalkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "walk",
		Short: "Print every table step and render every chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := a.load()
			if err != nil {
				return err
			}
			files, err := walk.Run(cmd.Context(), tab, a.walkOptions(cmd))
			if err != nil {
				return err
			}
			a.log.Info("walk complete", zap.Int("charts", len(files)), zap.String("dir", a.cfg.OutDir))
			return nil
		},
	}
}
