// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package charts

import (
	"math"
	"math/rand/v2"

	"github.com/aclements/dexplot/internal/dex"
	"github.com/aclements/dexplot/internal/frame"
	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
)

// boxHalfWidth is half the width of a box, in level units.
const boxHalfWidth = 0.35

// Box draws a box-and-whisker plot of Value for each distinct value
// of Group.
//
// The box spans the first to third quartile with a line at the
// median. Whiskers extend to the furthest points within 1.5 times the
// interquartile range of the box, and points beyond the whiskers are
// drawn individually.
type Box struct {
	Group, Value string

	// Order optionally gives the order of the groups along the
	// axis. By default groups are sorted.
	Order []string

	// Flip puts the groups on the Y axis.
	Flip bool

	Title string
}

// BoxStats summarizes one group of a box plot.
type BoxStats struct {
	Q1, Median, Q3 float64
	// Lo and Hi are the whisker ends.
	Lo, Hi   float64
	Outliers []float64
}

// Summary computes box plot statistics for xs.
func Summary(xs []float64) BoxStats {
	if len(xs) == 0 {
		nan := math.NaN()
		return BoxStats{nan, nan, nan, nan, nan, nil}
	}
	s := stats.Sample{Xs: append([]float64(nil), xs...)}
	s.Sort()
	b := BoxStats{
		Q1:     s.Quantile(0.25),
		Median: s.Quantile(0.5),
		Q3:     s.Quantile(0.75),
	}
	iqr := b.Q3 - b.Q1
	lo, hi := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.Lo, b.Hi = b.Q1, b.Q3
	for _, x := range s.Xs {
		if x < lo || x > hi {
			b.Outliers = append(b.Outliers, x)
			continue
		}
		b.Lo = math.Min(b.Lo, x)
		b.Hi = math.Max(b.Hi, x)
	}
	return b
}

// boxData is the layout of a box plot in level coordinates.
type boxData struct {
	names []string
	rows  []int // Level of each input row
	vals  []float64
	stats []BoxStats
}

func (b Box) layout(g table.Grouping) (*boxData, error) {
	if err := need(g, b.Group, b.Value); err != nil {
		return nil, err
	}
	t := table.Flatten(g)
	d := new(boxData)
	d.names, d.rows = levels(t, b.Group)
	d.names, d.rows = reorder(d.names, d.rows, b.Order)
	slice.Convert(&d.vals, t.MustColumn(b.Value))

	byLevel := make([][]float64, len(d.names))
	for i, l := range d.rows {
		byLevel[l] = append(byLevel[l], d.vals[i])
	}
	d.stats = make([]BoxStats, len(d.names))
	for l, xs := range byLevel {
		d.stats[l] = Summary(xs)
	}
	return d, nil
}

// axes returns the names of the level and value axes.
func (b Box) axes() (level, value string) {
	if b.Flip {
		return "y", "x"
	}
	return "x", "y"
}

// xy orients a (level, value) point.
func (b Box) xy(level, value float64) (x, y float64) {
	if b.Flip {
		return value, level
	}
	return level, value
}

func (b Box) Plot(g table.Grouping) (*gg.Plot, error) {
	d, err := b.layout(g)
	if err != nil {
		return nil, err
	}
	return b.plot(d), nil
}

func (b Box) plot(d *boxData) *gg.Plot {
	// Boxes are filled areas, one group per box. A flipped box
	// swaps which pair of edges is "upper" and "lower".
	var gb table.GroupingBuilder
	for l, st := range d.stats {
		if math.IsNaN(st.Q1) {
			continue
		}
		lv := float64(l)
		tb := new(table.Builder)
		if b.Flip {
			tb.Add("x", []float64{st.Q1, st.Q3})
			tb.Add("upper", []float64{lv + boxHalfWidth, lv + boxHalfWidth})
			tb.Add("lower", []float64{lv - boxHalfWidth, lv - boxHalfWidth})
		} else {
			tb.Add("x", []float64{lv - boxHalfWidth, lv + boxHalfWidth})
			tb.Add("upper", []float64{st.Q3, st.Q3})
			tb.Add("lower", []float64{st.Q1, st.Q1})
		}
		gb.Add(table.RootGroupID.Extend(d.names[l]), tb.Done())
	}

	// Medians and whiskers are one path broken by NaNs.
	var xs, ys []float64
	seg := func(l0, v0, l1, v1 float64) {
		x0, y0 := b.xy(l0, v0)
		x1, y1 := b.xy(l1, v1)
		xs = append(xs, x0, x1, math.NaN())
		ys = append(ys, y0, y1, math.NaN())
	}
	var ox, oy []float64
	for l, st := range d.stats {
		if math.IsNaN(st.Q1) {
			continue
		}
		lv := float64(l)
		seg(lv-boxHalfWidth, st.Median, lv+boxHalfWidth, st.Median)
		seg(lv, st.Lo, lv, st.Q1)
		seg(lv, st.Q3, lv, st.Hi)
		seg(lv-boxHalfWidth/2, st.Lo, lv+boxHalfWidth/2, st.Lo)
		seg(lv-boxHalfWidth/2, st.Hi, lv+boxHalfWidth/2, st.Hi)
		for _, o := range st.Outliers {
			x, y := b.xy(lv, o)
			ox, oy = append(ox, x), append(oy, y)
		}
	}

	levelAxis, valueAxis := b.axes()
	p := gg.NewPlot(gb.Done())
	p.SetScale(levelAxis, newCategoryScale(d.names))
	p.Add(gg.LayerArea{X: "x", Upper: "upper", Lower: "lower", Fill: p.Const(boxFill)})

	p.SetData(new(table.Builder).Add("x", xs).Add("y", ys).Done())
	// Strokes use the layers' default black so the stroke scale
	// is left free for point colors added on top.
	p.Add(gg.LayerPaths{X: "x", Y: "y"})

	if len(ox) > 0 {
		p.SetData(new(table.Builder).Add("x", ox).Add("y", oy).Done())
		p.Add(gg.LayerPoints{X: "x", Y: "y"})
	}

	p.Add(gg.AxisLabel(levelAxis, b.Group), gg.AxisLabel(valueAxis, b.Value))
	title(p, b.Title)
	return p
}

// Jitter draws a box plot with every data point overlaid, each
// displaced along the group axis by a random amount so that equal
// values do not hide each other.
type Jitter struct {
	Box

	// Color optionally names a column whose values color the
	// points.
	Color string

	// Seed seeds the jitter so plots are reproducible.
	Seed uint64

	// Spread is the maximum displacement, in units of the spacing
	// between groups. If 0, it defaults to 0.25.
	Spread float64
}

func (j Jitter) Plot(g table.Grouping) (*gg.Plot, error) {
	if err := need(g, j.Color); err != nil {
		return nil, err
	}
	d, err := j.Box.layout(g)
	if err != nil {
		return nil, err
	}
	p := j.Box.plot(d)

	spread := j.Spread
	if spread == 0 {
		spread = 0.25
	}
	rng := rand.New(rand.NewPCG(j.Seed, j.Seed^0x9e3779b97f4a7c15))
	xs := make([]float64, len(d.vals))
	ys := make([]float64, len(d.vals))
	for i, v := range d.vals {
		off := (rng.Float64()*2 - 1) * spread
		xs[i], ys[i] = j.xy(float64(d.rows[i])+off, v)
	}
	tb := new(table.Builder).Add("x", xs).Add("y", ys)
	if j.Color == "" {
		p.SetData(tb.Done())
		p.Add(gg.LayerPoints{X: "x", Y: "y", Color: p.Const(pointGray)})
		return p, nil
	}

	labeled, err := frame.Labels(table.Flatten(g), j.Color)
	if err != nil {
		return nil, err
	}
	colors := table.Flatten(labeled).MustColumn(j.Color).([]string)
	tb.Add(j.Color, colors)
	p.SetData(tb.Done())
	p.SetScale("stroke", discreteScale(len(slice.Nub(colors).([]string))))
	p.Add(gg.LayerPoints{X: "x", Y: "y", Color: j.Color})
	return p, nil
}

// StatBox reshapes the six base stats into long form and draws a box
// plot of each.
type StatBox struct {
	Flip  bool
	Title string
}

func (s StatBox) Plot(g table.Grouping) (*gg.Plot, error) {
	long, err := frame.Select(g, dex.Stats...)
	if err != nil {
		return nil, err
	}
	long, err = frame.Longer(long, "stat", "value", dex.Stats...)
	if err != nil {
		return nil, err
	}
	return Box{Group: "stat", Value: "value", Order: dex.Stats, Flip: s.Flip, Title: s.Title}.Plot(long)
}

