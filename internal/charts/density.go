// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package charts

import (
	"fmt"

	"github.com/aclements/dexplot/internal/frame"
	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
)

// Density draws a kernel density estimate of X, with one curve per
// distinct value of Group.
type Density struct {
	X string

	// Group optionally splits the data into separately estimated
	// curves.
	Group string

	Title string
}

func (d Density) Plot(g table.Grouping) (*gg.Plot, error) {
	if err := need(g, d.X, d.Group); err != nil {
		return nil, err
	}
	if d.Group != "" {
		var err error
		if g, err = frame.Labels(g, d.Group); err != nil {
			return nil, err
		}
		g = table.GroupBy(g, d.Group)
	}

	// Estimate each group, then make sure every estimate carries
	// its group label for the color aesthetic.
	est := ggstat.Density{X: d.X}.F(g)
	if d.Group != "" {
		est = table.MapTables(est, func(gid table.GroupID, t *table.Table) *table.Table {
			if _, ok := t.Const(d.Group); ok {
				return t
			}
			return table.NewBuilder(t).AddConst(d.Group, fmt.Sprint(gid.Label())).Done()
		})
	}

	p := gg.NewPlot(est)
	if d.Group == "" {
		p.Add(gg.LayerLines{X: d.X, Y: "probability density", Color: p.Const(fitColor)})
	} else {
		p.Add(gg.LayerLines{X: d.X, Y: "probability density", Color: d.Group})
		p.Add(gg.AxisLabel("y", "probability density (color: "+d.Group+")"))
	}
	title(p, d.Title)
	return p, nil
}
