// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"sort"
	"strings"

	"github.com/aclements/go-gg/table"
)

// A SortKey orders rows by column Col, descending if Desc is set.
type SortKey struct {
	Col  string
	Desc bool
}

// ParseSortKey parses "col" or "-col", where a leading "-" requests
// descending order.
func ParseSortKey(s string) SortKey {
	if strings.HasPrefix(s, "-") {
		return SortKey{s[1:], true}
	}
	return SortKey{Col: s}
}

// Asc returns ascending sort keys for cols.
func Asc(cols ...string) []SortKey {
	keys := make([]SortKey, len(cols))
	for i, col := range cols {
		keys[i] = SortKey{Col: col}
	}
	return keys
}

// Arrange sorts the rows of each group of g by keys. Earlier keys take
// precedence and ties keep their input order.
//
// Numeric columns compare by value, bool columns order false before
// true, and all other columns compare by their string form.
func Arrange(g table.Grouping, keys ...SortKey) (table.Grouping, error) {
	numeric := make([]bool, len(keys))
	for i, k := range keys {
		if err := checkCols(g, k.Col); err != nil {
			return nil, err
		}
		numeric[i] = isNumeric(g, k.Col)
	}

	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		vals := make([]values, len(keys))
		for i, k := range keys {
			vals[i] = columnValues(t, k.Col, numeric[i])
		}
		idxs := make([]int, t.Len())
		for i := range idxs {
			idxs[i] = i
		}
		sort.SliceStable(idxs, func(a, b int) bool {
			for i, k := range keys {
				c := vals[i].cmp(idxs[a], idxs[b])
				if k.Desc {
					c = -c
				}
				if c != 0 {
					return c < 0
				}
			}
			return false
		})
		return selectRows(t, idxs)
	}), nil
}
