// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/aclements/dexplot/internal/dex"
	"github.com/aclements/go-gg/table"
	"github.com/kballard/go-shellquote"
)

// ErrBadPredicate is returned for a predicate that cannot be parsed or
// applied.
var ErrBadPredicate = errors.New("bad predicate")

// A Predicate compares column Col against Value using Op.
//
// Value is interpreted according to the type of Col: as a number for
// numeric columns, as a boolean for bool columns, and as a string
// otherwise.
type Predicate struct {
	Col   string
	Op    string
	Value string
}

// ops is ordered so that longer operators are matched first.
var ops = []string{"==", "!=", "<=", ">=", "<", ">", "="}

func (p Predicate) String() string {
	return shellquote.Join(p.Col, p.Op, p.Value)
}

// ParsePredicate parses a predicate of the form "col op value".
//
// The expression is split using shell quoting rules, so a column or
// value containing spaces must be quoted, as in
//
//	'Type 1' == Fire
//
// If the expression is a single word, the operator may appear without
// surrounding spaces, as in "Attack>100".
func ParsePredicate(expr string) (Predicate, error) {
	words, err := shellquote.Split(expr)
	if err != nil {
		return Predicate{}, fmt.Errorf("%w %q: %v", ErrBadPredicate, expr, err)
	}
	if len(words) == 1 {
		for _, op := range ops {
			if i := strings.Index(words[0], op); i > 0 {
				words = []string{words[0][:i], op, words[0][i+len(op):]}
				break
			}
		}
	}
	if len(words) != 3 {
		return Predicate{}, fmt.Errorf("%w %q: want column, operator, and value", ErrBadPredicate, expr)
	}
	p := Predicate{words[0], words[1], words[2]}
	if p.Op == "=" {
		p.Op = "=="
	}
	if !validOp(p.Op) {
		return Predicate{}, fmt.Errorf("%w %q: unknown operator %q", ErrBadPredicate, expr, p.Op)
	}
	return p, nil
}

func validOp(op string) bool {
	for _, o := range ops {
		if op == o {
			return true
		}
	}
	return false
}

// test applies p's operator to the result of a three-way comparison.
func (p Predicate) test(c int) bool {
	switch p.Op {
	case "==", "=":
		return c == 0
	case "!=":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	panic("unknown operator " + p.Op)
}

// matcher returns a function reporting whether row i of a table
// satisfies p.
func (p Predicate) matcher(g table.Grouping) (func(v values, i int) bool, bool, error) {
	if !validOp(p.Op) {
		return nil, false, fmt.Errorf("%w %s: unknown operator %q", ErrBadPredicate, p, p.Op)
	}
	if isNumeric(g, p.Col) {
		x, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			return nil, false, fmt.Errorf("%w %s: column %q is numeric", ErrBadPredicate, p, p.Col)
		}
		return func(v values, i int) bool { return p.test(cmpFloat(v.nums[i], x)) }, true, nil
	}
	if table.ColType(g, p.Col).Elem().Kind() == reflect.Bool {
		x, err := dex.ParseBool(p.Value)
		if err != nil {
			return nil, false, fmt.Errorf("%w %s: column %q is boolean", ErrBadPredicate, p, p.Col)
		}
		return func(v values, i int) bool { return p.test(cmpBool(v.bools[i], x)) }, false, nil
	}
	return func(v values, i int) bool { return p.test(cmpString(v.strs[i], p.Value)) }, false, nil
}

// Filter returns the rows of g that satisfy every predicate.
func Filter(g table.Grouping, preds ...Predicate) (table.Grouping, error) {
	type compiled struct {
		col     string
		numeric bool
		match   func(v values, i int) bool
	}
	var cs []compiled
	for _, p := range preds {
		if err := checkCols(g, p.Col); err != nil {
			return nil, err
		}
		m, numeric, err := p.matcher(g)
		if err != nil {
			return nil, err
		}
		cs = append(cs, compiled{p.Col, numeric, m})
	}

	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		vals := make([]values, len(cs))
		for k, c := range cs {
			vals[k] = columnValues(t, c.col, c.numeric)
		}
		idxs := []int{}
	rows:
		for i := 0; i < t.Len(); i++ {
			for k, c := range cs {
				if !c.match(vals[k], i) {
					continue rows
				}
			}
			idxs = append(idxs, i)
		}
		return selectRows(t, idxs)
	}), nil
}
