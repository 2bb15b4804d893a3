// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package charts

import (
	"fmt"
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
)

// FacetFit draws one scatter plot of Y against X for each distinct
// value of Facet, arranged in a grid with shared scales, and overlays
// a least squares polynomial fit on each.
type FacetFit struct {
	Facet, X, Y string

	// Degree is the degree of the fit polynomial. If 0, it is
	// treated as 1.
	Degree int

	// Cols is the number of columns in the grid. If 0, a
	// reasonable number is chosen.
	Cols int

	Title string
}

func (f FacetFit) Plot(g table.Grouping) (*gg.Plot, error) {
	if err := need(g, f.Facet, f.X, f.Y); err != nil {
		return nil, err
	}
	degree := f.Degree
	if degree <= 0 {
		degree = 1
	}

	p := gg.NewPlot(table.Flatten(g))
	p.Add(gg.FacetWrap{
		Col:  f.Facet,
		Cols: f.Cols,
		Labeler: func(v interface{}) string {
			return fmt.Sprintf("%s %v", f.Facet, v)
		},
	})
	p.Add(gg.LayerPoints{X: f.X, Y: f.Y, Color: p.Const(pointGray)})

	// Fit each facet separately over its own X range.
	p.Stat(ggstat.LeastSquares{X: f.X, Y: f.Y, Degree: degree, SplitGroups: true, Widen: 1})
	p.Add(gg.LayerLines{X: f.X, Y: f.Y, Color: p.Const(fitColor)})

	title(p, f.Title)
	return p, nil
}

// Grid returns the number of rows and columns FacetFit will lay out
// for g, so callers can size the output.
func (f FacetFit) Grid(g table.Grouping) (rows, cols int) {
	n := float64(len(table.GroupBy(table.Flatten(g), f.Facet).Tables()))
	if f.Cols > 0 {
		cols = f.Cols
		rows = int(math.Ceil(n / float64(cols)))
		return
	}
	rows = int(math.Ceil(math.Sqrt(n)))
	if rows == 0 {
		return 0, 0
	}
	cols = int(math.Ceil(n / float64(rows)))
	return
}
