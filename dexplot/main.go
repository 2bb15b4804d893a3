// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dexplot explores a table of creature base statistics.
//
// dexplot reads a CSV with one row per creature and the columns
//
//	Name, Type 1, Type 2, HP, Attack, Defense, Sp. Atk, Sp. Def, Speed,
//	Generation, Legendary
//
// Table subcommands (head, select, filter, arrange, summary, count,
// total, longer, fit) print a transformed table to stdout. The plot
// subcommand renders one chart and walk runs the whole tour: every
// table step in order followed by every chart.
//
// Settings come from dexplot.yaml (or the file named by --config),
// DEXPLOT_* environment variables, and flags, in increasing order of
// precedence. For example,
//
//	DEXPLOT_DPI=150 dexplot --data Pokemon.csv plot scatter -o scatter.png
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dexplot: %v\n", err)
		os.Exit(1)
	}
}
