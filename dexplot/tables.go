// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/aclements/dexplot/internal/dex"
	"github.com/aclements/dexplot/internal/frame"
	"github.com/aclements/dexplot/internal/regress"
	"github.com/aclements/go-gg/table"
	"github.com/spf13/cobra"
)

func newHeadCmd(a *app) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "head",
		Short: "Print the first rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printTable(cmd, func(g table.Grouping) (table.Grouping, error) {
				return frame.Head(g, n), nil
			})
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 6, "print `n` rows")
	return cmd
}

func newSelectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select column...",
		Short: "Print only the named columns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printTable(cmd, func(g table.Grouping) (table.Grouping, error) {
				return frame.Select(g, args...)
			})
		},
	}
}

func newFilterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "filter expr...",
		Short: "Print the rows matching every predicate",
		Long: `Filter prints the rows for which every predicate holds. A
predicate has the form "column op value" where op is one of
== != < <= > >=. Quote names containing spaces:

	dexplot filter "'Type 1' == Fire" "Attack > 100"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preds := make([]frame.Predicate, len(args))
			for i, arg := range args {
				p, err := frame.ParsePredicate(arg)
				if err != nil {
					return err
				}
				preds[i] = p
			}
			return a.printTable(cmd, func(g table.Grouping) (table.Grouping, error) {
				return frame.Filter(g, preds...)
			})
		},
	}
}

func newArrangeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "arrange key...",
		Short: "Print the rows sorted by the given columns",
		Long: `Arrange sorts rows by each key in turn. A key is a column name,
optionally prefixed with "-" for descending order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := make([]frame.SortKey, len(args))
			for i, arg := range args {
				keys[i] = frame.ParseSortKey(arg)
			}
			return a.printTable(cmd, func(g table.Grouping) (table.Grouping, error) {
				return frame.Arrange(dex.AddTotal(g), keys...)
			})
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	var by []string
	cmd := &cobra.Command{
		Use:   "summary column",
		Short: "Summarize a numeric column, optionally by group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printTable(cmd, func(g table.Grouping) (table.Grouping, error) {
				return frame.Summarize(dex.AddTotal(g), by, args[0])
			})
		},
	}
	cmd.Flags().StringSliceVar(&by, "by", nil, "group by `columns`")
	return cmd
}

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count column...",
		Short: "Count rows for each combination of values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printTable(cmd, func(g table.Grouping) (table.Grouping, error) {
				return frame.Count(g, args...)
			})
		},
	}
}

func newTotalCmd(a *app) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "total",
		Short: "Print creatures ranked by the sum of their base stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printTable(cmd, func(g table.Grouping) (table.Grouping, error) {
				g, err := frame.Select(dex.AddTotal(g), dex.Name, dex.Type1, dex.Type2, dex.Total)
				if err != nil {
					return nil, err
				}
				if g, err = frame.Arrange(g, frame.SortKey{Col: dex.Total, Desc: true}); err != nil {
					return nil, err
				}
				if n > 0 {
					g = frame.Head(g, n)
				}
				return g, nil
			})
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 0, "print only the top `n` rows")
	return cmd
}

func newLongerCmd(a *app) *cobra.Command {
	var key, value string
	cmd := &cobra.Command{
		Use:   "longer [column...]",
		Short: "Reshape stat columns into key/value rows",
		Long: `Longer gathers the named columns (by default the six base stats)
into two columns, one naming the source column and one holding its
value. Every other column is repeated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cols := args
			if len(cols) == 0 {
				cols = dex.Stats
			}
			return a.printTable(cmd, func(g table.Grouping) (table.Grouping, error) {
				g, err := frame.Select(g, append([]string{dex.Name}, cols...)...)
				if err != nil {
					return nil, err
				}
				return frame.Longer(g, key, value, cols...)
			})
		},
	}
	cmd.Flags().StringVar(&key, "key", "stat", "name of the key column")
	cmd.Flags().StringVar(&value, "value", "value", "name of the value column")
	return cmd
}

func newFitCmd(a *app) *cobra.Command {
	var (
		by     []string
		x, y   string
		degree int
	)
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a least-squares polynomial within each group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printTable(cmd, func(g table.Grouping) (table.Grouping, error) {
				return regress.FitGroups(dex.AddTotal(g), by, x, y, degree)
			})
		},
	}
	cmd.Flags().StringSliceVar(&by, "by", []string{dex.Generation}, "fit separately for each value of `columns`")
	cmd.Flags().StringVar(&x, "x", dex.Attack, "predictor `column`")
	cmd.Flags().StringVar(&y, "y", dex.Defense, "response `column`")
	cmd.Flags().IntVar(&degree, "degree", 1, "polynomial degree")
	return cmd
}
