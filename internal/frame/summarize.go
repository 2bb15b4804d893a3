// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"fmt"
	"math"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
)

// groups flattens g and splits it into one table per distinct
// combination of by.
func groups(g table.Grouping, by []string) (*table.Table, []*table.Table) {
	flat := table.Flatten(g)
	if len(by) == 0 {
		return flat, []*table.Table{flat}
	}
	grouped := table.GroupBy(flat, by...)
	var ts []*table.Table
	for _, gid := range grouped.Tables() {
		if t := grouped.Table(gid); t.Len() > 0 {
			ts = append(ts, t)
		}
	}
	return flat, ts
}

// keyColumns adds the first value of each by column of each table to
// b, keeping the original column types.
func keyColumns(b *table.Builder, flat *table.Table, ts []*table.Table, by []string) {
	first := []int{0}
	for _, col := range by {
		// Start with an empty slice of the right type so the
		// column survives even if there are no groups.
		parts := []slice.T{slice.Select(flat.MustColumn(col), []int{})}
		for _, t := range ts {
			parts = append(parts, slice.Select(t.MustColumn(col), first))
		}
		b.Add(col, slice.Concat(parts...))
	}
}

func errNotNumeric(col string) error {
	return fmt.Errorf("column %q is not numeric", col)
}

// Summarize computes summary statistics of column value for each
// distinct combination of the by columns.
//
// The result has one row per combination, sorted by the by columns,
// and the columns
//
//	by... n "mean <value>" "sd <value>" "min <value>" "median <value>" "max <value>"
//
// The standard deviation is the sample standard deviation; it is 0
// for groups of one row.
func Summarize(g table.Grouping, by []string, value string) (table.Grouping, error) {
	if err := checkCols(g, append([]string{value}, by...)...); err != nil {
		return nil, err
	}
	if !isNumeric(g, value) {
		return nil, errNotNumeric(value)
	}

	flat, ts := groups(g, by)
	ns := []int{}
	means, sds, mins, meds, mxs := []float64{}, []float64{}, []float64{}, []float64{}, []float64{}
	for _, t := range ts {
		var xs []float64
		slice.Convert(&xs, t.MustColumn(value))
		// Convert aliases []float64 columns. Sorting must not
		// reorder the caller's data.
		xs = append([]float64(nil), xs...)
		ns = append(ns, len(xs))
		if len(xs) == 0 {
			nan := math.NaN()
			means, sds, mins, meds, mxs = append(means, nan), append(sds, nan), append(mins, nan), append(meds, nan), append(mxs, nan)
			continue
		}
		sample := stats.Sample{Xs: xs}
		sample.Sort()
		lo, hi := sample.Bounds()
		sd := 0.0
		if len(xs) > 1 {
			sd = stats.StdDev(xs)
		}
		means = append(means, stats.Mean(xs))
		sds = append(sds, sd)
		mins = append(mins, lo)
		meds = append(meds, sample.Quantile(0.5))
		mxs = append(mxs, hi)
	}

	b := table.NewBuilder(nil)
	keyColumns(b, flat, ts, by)
	b.Add("n", ns)
	b.Add("mean "+value, means)
	b.Add("sd "+value, sds)
	b.Add("min "+value, mins)
	b.Add("median "+value, meds)
	b.Add("max "+value, mxs)
	return Arrange(b.Done(), Asc(by...)...)
}

// Count counts the rows of g for each distinct combination of cols.
// The result is sorted by cols and has a column "n".
func Count(g table.Grouping, cols ...string) (table.Grouping, error) {
	if err := checkCols(g, cols...); err != nil {
		return nil, err
	}
	flat, ts := groups(g, cols)
	ns := make([]int, len(ts))
	for i, t := range ts {
		ns[i] = t.Len()
	}
	b := table.NewBuilder(nil)
	keyColumns(b, flat, ts, cols)
	b.Add("n", ns)
	return Arrange(b.Done(), Asc(cols...)...)
}
