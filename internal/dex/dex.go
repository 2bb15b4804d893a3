// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dex loads creature statistics tables into go-gg tables.
//
// A dex file is a comma-separated file with a header row. Each row
// describes one creature: its name, a primary and optional secondary
// type, six base stats, the generation it was introduced in, and
// whether it is legendary.
package dex

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
)

// Column names, as they appear in the header row.
const (
	Name       = "Name"
	Type1      = "Type 1"
	Type2      = "Type 2"
	HP         = "HP"
	Attack     = "Attack"
	Defense    = "Defense"
	SpAtk      = "Sp. Atk"
	SpDef      = "Sp. Def"
	Speed      = "Speed"
	Generation = "Generation"
	Legendary  = "Legendary"

	// Total is the derived sum of the six stats.
	Total = "Total"
)

// Stats lists the six base stat columns in display order.
var Stats = []string{HP, Attack, Defense, SpAtk, SpDef, Speed}

// Columns lists every required column in canonical order.
var Columns = append(append([]string{Name, Type1, Type2}, Stats...), Generation, Legendary)

// ErrSchema is returned when the input is missing a required column
// or a required value.
var ErrSchema = errors.New("dex: schema mismatch")

// DefaultNA are the cell values treated as missing.
var DefaultNA = []string{"", "NA"}

// DefaultMissing is the label substituted for a missing secondary
// type.
const DefaultMissing = "(missing)"

// LoadOptions controls how a dex file is parsed.
type LoadOptions struct {
	// NA lists cell values that mean "no value". If nil,
	// DefaultNA is used.
	NA []string

	// Missing replaces NA values in the Type 2 column. If empty,
	// DefaultMissing is used.
	Missing string
}

func (o LoadOptions) isNA(s string) bool {
	na := o.NA
	if na == nil {
		na = DefaultNA
	}
	s = strings.TrimSpace(s)
	for _, v := range na {
		if s == v {
			return true
		}
	}
	return false
}

func (o LoadOptions) missing() string {
	if o.Missing == "" {
		return DefaultMissing
	}
	return o.Missing
}

// LoadFile reads the dex file at path.
func LoadFile(path string, opts LoadOptions) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Load reads a dex file from r.
//
// The required columns are typed: stats and Generation are []int,
// Legendary is []bool, and the rest are []string. Any extra columns
// are kept after the required ones, as []float64 if every value
// parses as a number and as []string otherwise.
func Load(r io.Reader, opts LoadOptions) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrSchema)
	}
	header, rows := rows[0], rows[1:]

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, col)
		}
	}

	// cell returns row i's value for col, or ok=false if it is NA.
	cell := func(i int, col string) (string, bool) {
		v := strings.TrimSpace(rows[i][index[col]])
		return v, !opts.isNA(v)
	}
	// Line numbers in errors are 1-based and count the header.
	bad := func(i int, col, v string, err error) error {
		return fmt.Errorf("line %d: column %q: bad value %q: %w", i+2, col, v, err)
	}

	b := table.NewBuilder(nil)
	for _, col := range []string{Name, Type1, Type2} {
		vals := make([]string, len(rows))
		for i := range rows {
			v, ok := cell(i, col)
			switch {
			case ok:
				vals[i] = v
			case col == Type2:
				vals[i] = opts.missing()
			default:
				return nil, fmt.Errorf("line %d: %w: missing %s", i+2, ErrSchema, col)
			}
		}
		b.Add(col, vals)
	}
	for _, col := range append(append([]string{}, Stats...), Generation) {
		vals := make([]int, len(rows))
		for i := range rows {
			v, ok := cell(i, col)
			if !ok {
				return nil, fmt.Errorf("line %d: %w: missing %s", i+2, ErrSchema, col)
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, bad(i, col, v, err)
			}
			vals[i] = n
		}
		b.Add(col, vals)
	}
	legendary := make([]bool, len(rows))
	for i := range rows {
		v, ok := cell(i, Legendary)
		if !ok {
			return nil, fmt.Errorf("line %d: %w: missing %s", i+2, ErrSchema, Legendary)
		}
		f, err := ParseBool(v)
		if err != nil {
			return nil, bad(i, Legendary, v, err)
		}
		legendary[i] = f
	}
	b.Add(Legendary, legendary)

	// Carry extra columns through.
	required := make(map[string]bool)
	for _, col := range Columns {
		required[col] = true
	}
	for ci, h := range header {
		h = strings.TrimSpace(h)
		if required[h] || h == "" {
			continue
		}
		strs := make([]string, len(rows))
		nums := make([]float64, len(rows))
		numeric := true
		for i, row := range rows {
			strs[i] = strings.TrimSpace(row[ci])
			if !numeric {
				continue
			}
			if opts.isNA(strs[i]) {
				numeric = false
				continue
			}
			nums[i], err = strconv.ParseFloat(strs[i], 64)
			numeric = err == nil
		}
		if numeric {
			b.Add(h, nums)
		} else {
			b.Add(h, strs)
		}
	}
	return b.Done(), nil
}

// ParseBool accepts the spellings of booleans found in spreadsheets
// as well as those accepted by strconv.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// AddTotal adds a Total column to each table in g giving the sum of
// the six base stats.
func AddTotal(g table.Grouping) table.Grouping {
	return table.MapCols(g,
		func(hp, atk, def, spa, spd, spe, total []int) {
			for i := range total {
				total[i] = hp[i] + atk[i] + def[i] + spa[i] + spd[i] + spe[i]
			}
		}, Stats...)(Total)
}

// WithTotal is AddTotal, except that it returns g unchanged if g
// already has a Total column.
func WithTotal(g table.Grouping) table.Grouping {
	for _, col := range g.Columns() {
		if col == Total {
			return g
		}
	}
	return AddTotal(g)
}
