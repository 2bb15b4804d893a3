// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame implements data frame verbs over go-gg tables.
//
// Every verb takes a table.Grouping and returns a new Grouping,
// leaving its input unchanged. Verbs that operate on rows (Filter,
// Arrange, Head) apply independently to each group.
package frame

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// ErrUnknownColumn is returned when a verb names a column that is not
// in its input.
var ErrUnknownColumn = errors.New("unknown column")

// checkCols returns an error if any of cols is not a column of g.
func checkCols(g table.Grouping, cols ...string) error {
	have := make(map[string]bool)
	for _, col := range g.Columns() {
		have[col] = true
	}
	for _, col := range cols {
		if !have[col] {
			return fmt.Errorf("%w %q", ErrUnknownColumn, col)
		}
	}
	return nil
}

// Select returns g with only the named columns, in the order given.
func Select(g table.Grouping, cols ...string) (table.Grouping, error) {
	if err := checkCols(g, cols...); err != nil {
		return nil, err
	}
	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		b := table.NewBuilder(nil)
		for _, col := range cols {
			b.Add(col, t.MustColumn(col))
		}
		return b.Done()
	}), nil
}

// Head returns the first n rows of each group of g.
func Head(g table.Grouping, n int) table.Grouping {
	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		if t.Len() <= n {
			return t
		}
		idxs := make([]int, n)
		for i := range idxs {
			idxs[i] = i
		}
		return selectRows(t, idxs)
	})
}

// Labels replaces column col of g with its values formatted as
// strings. This turns a column into something that can drive a
// discrete aesthetic like color.
func Labels(g table.Grouping, col string) (table.Grouping, error) {
	if err := checkCols(g, col); err != nil {
		return nil, err
	}
	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		cv := reflect.ValueOf(t.MustColumn(col))
		labels := make([]string, cv.Len())
		for i := range labels {
			labels[i] = fmt.Sprint(cv.Index(i).Interface())
		}
		return table.NewBuilder(t).Add(col, labels).Done()
	}), nil
}

// selectRows returns a table consisting of rows idxs of t.
func selectRows(t *table.Table, idxs []int) *table.Table {
	b := table.NewBuilder(nil)
	for _, col := range t.Columns() {
		b.Add(col, slice.Select(t.MustColumn(col), idxs))
	}
	return b.Done()
}

// isNumeric reports whether column col of g holds numbers.
func isNumeric(g table.Grouping, col string) bool {
	switch table.ColType(g, col).Elem().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// values is a column reduced to one of three comparable forms.
type values struct {
	nums  []float64
	strs  []string
	bools []bool
}

func columnValues(t *table.Table, col string, numeric bool) values {
	var v values
	data := t.MustColumn(col)
	switch {
	case numeric:
		slice.Convert(&v.nums, data)
	default:
		switch data := data.(type) {
		case []bool:
			v.bools = data
		case []string:
			v.strs = data
		default:
			dv := reflect.ValueOf(data)
			v.strs = make([]string, dv.Len())
			for i := range v.strs {
				v.strs[i] = fmt.Sprint(dv.Index(i).Interface())
			}
		}
	}
	return v
}

// cmp compares rows i and j.
func (v values) cmp(i, j int) int {
	switch {
	case v.nums != nil:
		return cmpFloat(v.nums[i], v.nums[j])
	case v.bools != nil:
		return cmpBool(v.bools[i], v.bools[j])
	}
	return cmpString(v.strs[i], v.strs[j])
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
