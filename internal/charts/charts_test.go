// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package charts

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/aclements/dexplot/internal/dex"
	"github.com/aclements/dexplot/internal/frame"
	"github.com/aclements/go-gg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCreatures(t *testing.T) table.Grouping {
	t.Helper()
	tab, err := dex.LoadFile("../dex/testdata/creatures.csv", dex.LoadOptions{})
	require.NoError(t, err)
	return dex.AddTotal(tab)
}

func TestSummary(t *testing.T) {
	b := Summary([]float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 100})
	assert.Equal(t, 10.0, b.Q1)
	assert.Equal(t, 10.0, b.Median)
	assert.Equal(t, 10.0, b.Q3)
	assert.Equal(t, 10.0, b.Lo)
	assert.Equal(t, 10.0, b.Hi)
	assert.Equal(t, []float64{100}, b.Outliers)

	b = Summary([]float64{9, 1, 8, 2, 7, 3, 6, 4, 5})
	assert.Equal(t, 5.0, b.Median)
	assert.Equal(t, 1.0, b.Lo)
	assert.Equal(t, 9.0, b.Hi)
	assert.Empty(t, b.Outliers)
	assert.True(t, b.Lo <= b.Q1 && b.Q1 <= b.Median && b.Median <= b.Q3 && b.Q3 <= b.Hi, "%+v", b)

	b = Summary(nil)
	assert.True(t, math.IsNaN(b.Median))
}

func TestSummaryDoesNotSortInput(t *testing.T) {
	xs := []float64{3, 1, 2}
	Summary(xs)
	assert.Equal(t, []float64{3, 1, 2}, xs)
}

func TestLevels(t *testing.T) {
	tab := new(table.Builder).Add("k", []string{"b", "a", "b", "c"}).Done()
	names, rows := levels(tab, "k")
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Equal(t, []int{1, 0, 1, 2}, rows)

	names, rows = reorder(names, rows, []string{"c", "a"})
	assert.Equal(t, []string{"c", "a", "b"}, names)
	assert.Equal(t, []int{2, 1, 2, 0}, rows)

	ints := new(table.Builder).Add("n", []int{10, 2, 10}).Done()
	names, rows = levels(ints, "n")
	assert.Equal(t, []string{"2", "10"}, names, "numeric levels sort numerically")
	assert.Equal(t, []int{1, 0, 1}, rows)
}

func TestCategoryScaleTicks(t *testing.T) {
	names := strings.Split("a b c d e f g h i j", " ")
	s := newCategoryScale(names)

	major, minor, labels := s.Ticks(0, nil)
	assert.Len(t, major, 10)
	assert.Empty(t, minor)
	assert.Equal(t, names, labels)

	major, _, labels = s.Ticks(0, func(m []float64, _ []string) bool { return len(m) <= 4 })
	assert.Equal(t, []float64{0, 3, 6, 9}, major)
	assert.Equal(t, []string{"a", "d", "g", "j"}, labels)

	c := s.CloneScaler()
	_, _, labels = c.Ticks(2, nil)
	assert.Len(t, labels, 2)
}

func TestStackedBarCounts(t *testing.T) {
	g := loadCreatures(t)
	c, err := StackedBar{Group: dex.Generation, Fill: dex.Legendary}.count(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, c.groups)
	assert.Equal(t, []string{"false", "true"}, c.fills)

	var perGen []int
	total := 0
	for _, row := range c.n {
		n := 0
		for _, x := range row {
			n += x
		}
		perGen = append(perGen, n)
		total += n
	}
	assert.Equal(t, []int{18, 8, 8, 6, 5, 4}, perGen)
	assert.Equal(t, 49, total)
}

func TestFacetGrid(t *testing.T) {
	g := loadCreatures(t)
	rows, cols := FacetFit{Facet: dex.Generation}.Grid(g)
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)

	rows, cols = FacetFit{Facet: dex.Generation, Cols: 4}.Grid(g)
	assert.Equal(t, 2, rows)
	assert.Equal(t, 4, cols)
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		c, err := Lookup(name)
		require.NoError(t, err, name)
		assert.NotNil(t, c, name)
	}
	_, err := Lookup("pie")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	g := loadCreatures(t)
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, err := Lookup(name)
			require.NoError(t, err)
			p, err := c.Plot(g)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, p.WriteSVG(&buf, 600, 400))
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}

func TestRenderUngrouped(t *testing.T) {
	g := loadCreatures(t)
	charts := []Chart{
		Box{Group: dex.Generation, Value: dex.Speed},
		Jitter{Box: Box{Group: dex.Generation, Value: dex.Speed}},
		StackedBar{Group: dex.Type1},
		Density{X: dex.HP},
	}
	for _, c := range charts {
		p, err := c.Plot(g)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, p.WriteSVG(&buf, 400, 300))
	}
}

func TestRenderVariants(t *testing.T) {
	g := loadCreatures(t)
	charts := []Chart{
		Box{Group: dex.Legendary, Value: dex.Attack},
		Jitter{Box: Box{Group: dex.Legendary, Value: dex.Attack}, Color: dex.Generation},
		StackedBar{Group: dex.Type1, Fill: dex.Legendary},
		StackedBar{Group: dex.Legendary, Fill: dex.Generation, Flip: true},
		FacetFit{Facet: dex.Generation, X: dex.Attack, Y: dex.Defense, Degree: 2, Cols: 3},
	}
	for _, c := range charts {
		p, err := c.Plot(g)
		require.NoError(t, err, "%#v", c)
		var buf bytes.Buffer
		require.NoError(t, p.WriteSVG(&buf, 400, 300), "%#v", c)
	}
}

func TestBoolLevels(t *testing.T) {
	tab := new(table.Builder).Add("k", []bool{true, false, true}).Done()
	names, rows := levels(tab, "k")
	assert.Equal(t, []string{"false", "true"}, names)
	assert.Equal(t, []int{1, 0, 1}, rows)
}

func TestUnknownColumn(t *testing.T) {
	g := loadCreatures(t)
	charts := []Chart{
		Scatter{X: "Luck", Y: dex.Defense},
		Box{Group: dex.Type1, Value: "Luck"},
		Jitter{Box: Box{Group: dex.Type1, Value: dex.Attack}, Color: "Luck"},
		FacetFit{Facet: "Region", X: dex.Attack, Y: dex.Defense},
		StackedBar{Group: dex.Type1, Fill: "Region"},
		Density{X: "Luck"},
	}
	for _, c := range charts {
		_, err := c.Plot(g)
		assert.True(t, errors.Is(err, frame.ErrUnknownColumn), "%T: %v", c, err)
	}
}
