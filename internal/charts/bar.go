// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package charts

import (
	"fmt"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
)

// barHalfWidth is half the width of a bar, in level units.
const barHalfWidth = 0.4

// StackedBar draws one bar per distinct value of Group whose length is
// the number of rows in that group. Each bar is divided into segments
// by the distinct values of Fill.
type StackedBar struct {
	Group, Fill string

	// Order optionally gives the order of the groups along the
	// axis. By default groups are sorted.
	Order []string

	// Flip draws horizontal bars.
	Flip bool

	Title string
}

// barCounts is the number of rows for each group and fill level.
type barCounts struct {
	groups, fills []string
	n             [][]int // [group][fill]
}

func (s StackedBar) count(g table.Grouping) (*barCounts, error) {
	if err := need(g, s.Group, s.Fill); err != nil {
		return nil, err
	}
	t := table.Flatten(g)
	c := new(barCounts)
	var grows, frows []int
	c.groups, grows = levels(t, s.Group)
	c.groups, grows = reorder(c.groups, grows, s.Order)
	if s.Fill == "" {
		c.fills, frows = []string{""}, make([]int, len(grows))
	} else {
		c.fills, frows = levels(t, s.Fill)
	}
	c.n = make([][]int, len(c.groups))
	for i := range c.n {
		c.n[i] = make([]int, len(c.fills))
	}
	for i, gl := range grows {
		c.n[gl][frows[i]]++
	}
	return c, nil
}

func (s StackedBar) Plot(g table.Grouping) (*gg.Plot, error) {
	c, err := s.count(g)
	if err != nil {
		return nil, err
	}

	// Each segment is its own group so LayerArea draws it as a
	// separate rectangle.
	var gb table.GroupingBuilder
	for gl, row := range c.n {
		lv := float64(gl)
		base := 0
		for fl, n := range row {
			if n == 0 {
				continue
			}
			tb := new(table.Builder)
			lo, hi := float64(base), float64(base+n)
			if s.Flip {
				tb.Add("x", []float64{lo, hi})
				tb.Add("upper", []float64{lv + barHalfWidth, lv + barHalfWidth})
				tb.Add("lower", []float64{lv - barHalfWidth, lv - barHalfWidth})
			} else {
				tb.Add("x", []float64{lv - barHalfWidth, lv + barHalfWidth})
				tb.Add("upper", []float64{hi, hi})
				tb.Add("lower", []float64{lo, lo})
			}
			tb.AddConst("fill", c.fills[fl])
			gid := table.RootGroupID.Extend(c.groups[gl]).Extend(c.fills[fl])
			gb.Add(gid, tb.Done())
			base += n
		}
	}

	levelAxis, countAxis := "x", "y"
	if s.Flip {
		levelAxis, countAxis = "y", "x"
	}
	p := gg.NewPlot(gb.Done())
	p.SetScale(levelAxis, newCategoryScale(c.groups))
	if s.Fill == "" {
		p.Add(gg.LayerArea{X: "x", Upper: "upper", Lower: "lower", Fill: p.Const(boxFill)})
	} else {
		p.SetScale("fill", discreteScale(len(c.fills)))
		p.Add(gg.LayerArea{X: "x", Upper: "upper", Lower: "lower", Fill: "fill"})
	}

	p.Add(gg.AxisLabel(levelAxis, s.Group))
	if s.Fill != "" {
		p.Add(gg.AxisLabel(countAxis, fmt.Sprintf("count (fill: %s)", s.Fill)))
	} else {
		p.Add(gg.AxisLabel(countAxis, "count"))
	}
	title(p, s.Title)
	return p, nil
}
