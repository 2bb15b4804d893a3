// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package walk runs the complete dexplot walkthrough: a sequence of
// table transformations printed in order, followed by every chart
// written to disk.
package walk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aclements/dexplot/internal/charts"
	"github.com/aclements/dexplot/internal/dex"
	"github.com/aclements/dexplot/internal/export"
	"github.com/aclements/dexplot/internal/frame"
	"github.com/aclements/dexplot/internal/regress"
	"github.com/aclements/dexplot/internal/report"
	"github.com/aclements/go-gg/table"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options control a walkthrough.
type Options struct {
	// Out receives the printed tables. If nil, tables are
	// discarded.
	Out   io.Writer
	Style report.Style

	// OutDir is the directory charts are written to. It is
	// created if necessary.
	OutDir string
	Export export.Options

	// Charts names the charts to render. If nil, all registered
	// charts are rendered.
	Charts []string

	// Jobs bounds the number of charts rendered concurrently.
	Jobs int

	// Seed seeds the jitter chart.
	Seed uint64

	Logger *zap.Logger
}

// A Step is one table transformation of the walkthrough.
type Step struct {
	Title string
	Do    func(g table.Grouping) (table.Grouping, error)
}

// headRows is how many rows long tables are cut to.
const headRows = 10

// Steps returns the table steps of the walkthrough in order.
func Steps() []Step {
	return []Step{
		{"First rows", func(g table.Grouping) (table.Grouping, error) {
			return frame.Head(g, 6), nil
		}},
		{"Name, types, and attack", func(g table.Grouping) (table.Grouping, error) {
			g, err := frame.Select(g, dex.Name, dex.Type1, dex.Type2, dex.Attack)
			if err != nil {
				return nil, err
			}
			return frame.Head(g, headRows), nil
		}},
		{"Attack > 100", func(g table.Grouping) (table.Grouping, error) {
			p, err := frame.ParsePredicate(dex.Attack + " > 100")
			if err != nil {
				return nil, err
			}
			if g, err = frame.Filter(g, p); err != nil {
				return nil, err
			}
			if g, err = frame.Select(g, dex.Name, dex.Type1, dex.Attack, dex.Generation); err != nil {
				return nil, err
			}
			return frame.Head(g, headRows), nil
		}},
		{"Attack by primary type", func(g table.Grouping) (table.Grouping, error) {
			return frame.Summarize(g, []string{dex.Type1}, dex.Attack)
		}},
		{"Highest total stats", func(g table.Grouping) (table.Grouping, error) {
			g, err := frame.Select(dex.WithTotal(g), dex.Name, dex.Type1, dex.Total)
			if err != nil {
				return nil, err
			}
			if g, err = frame.Arrange(g, frame.SortKey{Col: dex.Total, Desc: true}); err != nil {
				return nil, err
			}
			return frame.Head(g, headRows), nil
		}},
		{"Stats in long form", func(g table.Grouping) (table.Grouping, error) {
			g, err := frame.Select(frame.Head(g, 2), append([]string{dex.Name}, dex.Stats...)...)
			if err != nil {
				return nil, err
			}
			return frame.Longer(g, "stat", "value", dex.Stats...)
		}},
		{"Defense against attack by generation", func(g table.Grouping) (table.Grouping, error) {
			return regress.FitGroups(g, []string{dex.Generation}, dex.Attack, dex.Defense, 1)
		}},
	}
}

// Run prints every table step to opts.Out in order and then renders
// the charts. It returns the paths of the written charts in chart
// order.
func Run(ctx context.Context, data table.Grouping, opts Options) ([]string, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	for i, step := range Steps() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := step.Do(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Title, err)
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "## %s\n\n", step.Title)
		if err := report.Print(out, res, opts.Style); err != nil {
			return nil, err
		}
		log.Debug("printed table", zap.String("step", step.Title), zap.Int("rows", rowCount(res)))
	}

	return Render(ctx, data, opts)
}

func rowCount(g table.Grouping) int {
	n := 0
	for _, gid := range g.Tables() {
		n += g.Table(gid).Len()
	}
	return n
}

// Render writes each chart in opts.Charts to opts.OutDir, up to
// opts.Jobs at a time. The first failure cancels charts that have not
// started and is returned.
func Render(ctx context.Context, data table.Grouping, opts Options) ([]string, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	names := opts.Charts
	if names == nil {
		names = charts.Names()
	}
	eo := opts.Export
	if eo.Format == "" {
		eo.Format = export.SVG
	}
	if err := eo.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutDir, 0o777); err != nil {
		return nil, err
	}

	data = dex.WithTotal(data)
	files := make([]string, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Jobs))
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := charts.Lookup(name)
			if err != nil {
				return err
			}
			if j, ok := c.(charts.Jitter); ok {
				j.Seed = opts.Seed
				c = j
			}

			start := time.Now()
			p, err := c.Plot(data)
			if err != nil {
				return fmt.Errorf("chart %s: %w", name, err)
			}
			path := filepath.Join(opts.OutDir, name+eo.Format.Ext())
			if err := export.Save(path, p, eo); err != nil {
				return fmt.Errorf("chart %s: %w", name, err)
			}
			log.Info("wrote chart",
				zap.String("chart", name),
				zap.String("path", path),
				zap.Duration("elapsed", time.Since(start)))
			files[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
