// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"fmt"
	"reflect"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// Longer reshapes g from wide to long form. Each input row becomes
// len(cols) output rows: column key holds the name of one of cols and
// column value holds that column's value. Other columns are repeated.
//
// All of cols must have the same type.
func Longer(g table.Grouping, key, value string, cols ...string) (table.Grouping, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("longer: no columns to gather")
	}
	if err := checkCols(g, cols...); err != nil {
		return nil, err
	}
	typ := table.ColType(g, cols[0])
	for _, col := range cols[1:] {
		if ct := table.ColType(g, col); ct != typ {
			return nil, fmt.Errorf("longer: column %q is %v, but %q is %v", col, ct, cols[0], typ)
		}
	}
	return table.Unpivot(g, key, value, cols...), nil
}

// Sum adds a float64 column out to g holding the row-wise sum of
// cols, which must be numeric.
func Sum(g table.Grouping, out string, cols ...string) (table.Grouping, error) {
	if err := checkCols(g, cols...); err != nil {
		return nil, err
	}
	for _, col := range cols {
		if !isNumeric(g, col) {
			return nil, errNotNumeric(col)
		}
	}
	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		sum := make([]float64, t.Len())
		var xs []float64
		for _, col := range cols {
			slice.Convert(&xs, t.MustColumn(col))
			for i, x := range xs {
				sum[i] += x
			}
		}
		return table.NewBuilder(t).Add(out, sum).Done()
	}), nil
}

// Convert replaces each of cols in g with a column of type typ.
// Values are converted as by slice.Convert.
func Convert(g table.Grouping, typ reflect.Type, cols ...string) (table.Grouping, error) {
	if err := checkCols(g, cols...); err != nil {
		return nil, err
	}
	st := reflect.SliceOf(typ)
	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		b := table.NewBuilder(t)
		for _, col := range cols {
			nv := reflect.New(st)
			slice.Convert(nv.Interface(), t.MustColumn(col))
			b.Add(col, nv.Elem().Interface())
		}
		return b.Done()
	}), nil
}
