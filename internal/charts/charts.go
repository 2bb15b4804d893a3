// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package charts builds go-gg plots of creature statistics.
//
// Each chart type describes which columns to draw and how. Calling
// Plot with a table returns a *gg.Plot ready to be rendered.
package charts

import (
	"fmt"
	"image/color"
	"reflect"
	"sort"

	"github.com/aclements/dexplot/internal/dex"
	"github.com/aclements/dexplot/internal/frame"
	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-gg/table"
)

// A Chart builds a plot from a table.
type Chart interface {
	Plot(g table.Grouping) (*gg.Plot, error)
}

// Theme colors. Constant colors that share a scale in one plot must
// have the same type, so all of these are color.RGBA.
var (
	boxFill   = color.RGBA{0xbb, 0xcc, 0xee, 0xff}
	pointGray = color.RGBA{0x60, 0x60, 0x60, 0xff}
	fitColor  = color.RGBA{0xc4, 0x4e, 0x52, 0xff}
)

var registry = map[string]func() Chart{
	"scatter": func() Chart {
		return Scatter{X: dex.Attack, Y: dex.Defense, Color: dex.Legendary, Title: "Attack vs. defense"}
	},
	"box": func() Chart {
		return Box{Group: dex.Type1, Value: dex.Attack, Flip: true, Title: "Attack by primary type"}
	},
	"jitter": func() Chart {
		return Jitter{
			Box:    Box{Group: dex.Type1, Value: dex.Attack, Flip: true, Title: "Attack by primary type"},
			Color:  dex.Legendary,
			Seed:   1,
			Spread: 0.25,
		}
	},
	"facet": func() Chart {
		return FacetFit{Facet: dex.Generation, X: dex.Attack, Y: dex.Defense, Title: "Attack vs. defense by generation"}
	},
	"bar": func() Chart {
		return StackedBar{Group: dex.Type1, Fill: dex.Generation, Flip: true, Title: "Creatures by type and generation"}
	},
	"density": func() Chart {
		return Density{X: dex.Total, Group: dex.Legendary, Title: "Distribution of total stats"}
	},
	"stats": func() Chart {
		return StatBox{Title: "Base stats"}
	},
}

// Names returns the names of the registered charts, in walkthrough
// order.
func Names() []string {
	return []string{"scatter", "box", "jitter", "facet", "bar", "density", "stats"}
}

// Lookup returns the registered chart called name, configured for the
// creature statistics table.
func Lookup(name string) (Chart, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown chart %q", name)
	}
	return f(), nil
}

// need returns an error if g lacks any of the non-empty cols.
func need(g table.Grouping, cols ...string) error {
	have := make(map[string]bool)
	for _, col := range g.Columns() {
		have[col] = true
	}
	for _, col := range cols {
		if col != "" && !have[col] {
			return fmt.Errorf("%w %q", frame.ErrUnknownColumn, col)
		}
	}
	return nil
}

// levels returns the distinct values of column col of t in sorted
// order, formatted as strings, and the level index of each row.
func levels(t *table.Table, col string) ([]string, []int) {
	data := t.MustColumn(col)
	uniq := slice.Nub(data)
	uv := reflect.ValueOf(uniq)
	if uv.Type().Elem().Kind() == reflect.Bool {
		// false before true.
		sort.Slice(uniq, func(i, j int) bool {
			return !uv.Index(i).Bool() && uv.Index(j).Bool()
		})
	} else {
		slice.Sort(uniq)
	}

	names := make([]string, uv.Len())
	index := make(map[interface{}]int)
	for i := range names {
		v := uv.Index(i).Interface()
		names[i] = fmt.Sprint(v)
		index[v] = i
	}

	dv := reflect.ValueOf(data)
	rows := make([]int, dv.Len())
	for i := range rows {
		rows[i] = index[dv.Index(i).Interface()]
	}
	return names, rows
}

// reorder applies an explicit level order. Levels not named in order
// keep their sorted position after the named ones.
func reorder(names []string, rows []int, order []string) ([]string, []int) {
	if len(order) == 0 {
		return names, rows
	}
	rank := make(map[string]int)
	for i, n := range order {
		rank[n] = i
	}
	perm := make([]int, len(names))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ra, oka := rank[names[perm[a]]]
		rb, okb := rank[names[perm[b]]]
		switch {
		case oka && okb:
			return ra < rb
		case oka != okb:
			return oka
		}
		return false
	})
	newNames := make([]string, len(names))
	newIndex := make([]int, len(names))
	for newi, oldi := range perm {
		newNames[newi] = names[oldi]
		newIndex[oldi] = newi
	}
	newRows := make([]int, len(rows))
	for i, r := range rows {
		newRows[i] = newIndex[r]
	}
	return newNames, newRows
}

// discretePalette returns n colors evenly spaced along viridis.
func discretePalette(n int) []color.Color {
	if n <= 1 {
		return []color.Color{palette.Viridis.Map(0.5)}
	}
	cs := make([]color.Color, n)
	for i := range cs {
		cs[i] = palette.Viridis.Map(float64(i) / float64(n-1))
	}
	return cs
}

// discreteScale returns an ordinal scale that maps n levels to
// distinct colors.
func discreteScale(n int) gg.Scaler {
	s := gg.NewOrdinalScale()
	s.Ranger(gg.NewColorRanger(discretePalette(n)))
	return s
}

func title(p *gg.Plot, t string) {
	if t != "" {
		p.Add(gg.Title(t))
	}
}
