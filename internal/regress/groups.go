// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regress

import (
	"fmt"
	"math"

	"github.com/aclements/dexplot/internal/frame"
	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// coefName returns the column name for the coefficient of x^i.
func coefName(i int) string {
	switch i {
	case 0:
		return "intercept"
	case 1:
		return "slope"
	}
	return fmt.Sprintf("c%d", i)
}

// FitGroups fits a polynomial of the given degree to (x, y) within each
// distinct combination of the by columns.
//
// The result has one row per combination, sorted by the by columns,
// with columns by..., n, intercept, slope, c2..., r2. Groups whose fit
// is underdetermined get NaN coefficients.
func FitGroups(g table.Grouping, by []string, x, y string, degree int) (table.Grouping, error) {
	if degree < 1 {
		degree = 1
	}
	have := make(map[string]bool)
	for _, col := range g.Columns() {
		have[col] = true
	}
	for _, col := range append([]string{x, y}, by...) {
		if !have[col] {
			return nil, fmt.Errorf("%w %q", frame.ErrUnknownColumn, col)
		}
	}

	flat := table.Flatten(g)
	var ts []*table.Table
	if len(by) == 0 {
		ts = []*table.Table{flat}
	} else {
		grouped := table.GroupBy(flat, by...)
		for _, gid := range grouped.Tables() {
			ts = append(ts, grouped.Table(gid))
		}
	}

	ns := make([]int, len(ts))
	coefs := make([][]float64, degree+1)
	for i := range coefs {
		coefs[i] = make([]float64, len(ts))
	}
	r2s := make([]float64, len(ts))
	var xs, ys []float64
	for gi, t := range ts {
		slice.Convert(&xs, t.MustColumn(x))
		slice.Convert(&ys, t.MustColumn(y))
		ns[gi] = len(xs)
		cs, err := PolynomialFit(xs, ys, nil, degree)
		if err != nil {
			for i := range coefs {
				coefs[i][gi] = math.NaN()
			}
			r2s[gi] = math.NaN()
			continue
		}
		for i, c := range cs {
			coefs[i][gi] = c
		}
		r2s[gi] = RSquared(cs, xs, ys)
	}

	b := table.NewBuilder(nil)
	for _, col := range by {
		parts := []slice.T{slice.Select(flat.MustColumn(col), []int{})}
		for _, t := range ts {
			parts = append(parts, slice.Select(t.MustColumn(col), []int{0}))
		}
		b.Add(col, slice.Concat(parts...))
	}
	b.Add("n", ns)
	for i, c := range coefs {
		b.Add(coefName(i), c)
	}
	b.Add("r2", r2s)
	return frame.Arrange(b.Done(), frame.Asc(by...)...)
}
