// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package charts

import (
	"github.com/aclements/dexplot/internal/frame"
	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
)

// Scatter plots Y against X, one point per row.
type Scatter struct {
	X, Y string

	// Color optionally names a column whose values color the
	// points. Values are treated as discrete labels.
	Color string

	Title string
}

func (s Scatter) Plot(g table.Grouping) (*gg.Plot, error) {
	if err := need(g, s.X, s.Y, s.Color); err != nil {
		return nil, err
	}
	if s.Color != "" {
		var err error
		if g, err = frame.Labels(g, s.Color); err != nil {
			return nil, err
		}
	}

	p := gg.NewPlot(g)
	p.Add(gg.LayerPoints{X: s.X, Y: s.Y, Color: s.Color})
	if s.Color != "" {
		p.Add(gg.AxisLabel("y", s.Y+" (color: "+s.Color+")"))
	}
	title(p, s.Title)
	return p, nil
}
