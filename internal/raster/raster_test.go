// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `<?xml version="1.0"?>
<svg width="10" height="10" font-size="14px" xmlns="http://www.w3.org/2000/svg">
%s
</svg>`

func render(t *testing.T, body string, scale float64) *image.RGBA {
	t.Helper()
	img, err := Render(strings.NewReader(strings.Replace(doc, "%s", body, 1)), scale)
	require.NoError(t, err)
	return img
}

// near reports whether two colors are within tol in every channel.
func near(a, b color.RGBA, tol int) bool {
	d := func(x, y uint8) bool {
		v := int(x) - int(y)
		return -tol <= v && v <= tol
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

var (
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	red   = color.RGBA{0xff, 0, 0, 0xff}
	blue  = color.RGBA{0, 0, 0xff, 0xff}
	black = color.RGBA{0, 0, 0, 0xff}
)

func assertColor(t *testing.T, img *image.RGBA, x, y int, want color.RGBA) {
	t.Helper()
	got := img.RGBAAt(x, y)
	assert.True(t, near(got, want, 2), "pixel (%d,%d) = %v, want %v", x, y, got, want)
}

func TestRect(t *testing.T) {
	img := render(t, `<rect x="2" y="2" width="4" height="4" style="fill:#f00"/>`, 1)
	assert.Equal(t, image.Rect(0, 0, 10, 10), img.Bounds())
	assertColor(t, img, 0, 0, white)
	assertColor(t, img, 3, 3, red)
	assertColor(t, img, 7, 7, white)

	img = render(t, `<rect x="2" y="2" width="4" height="4" fill="red"/>`, 2)
	assert.Equal(t, image.Rect(0, 0, 20, 20), img.Bounds())
	assertColor(t, img, 9, 9, red)
	assertColor(t, img, 13, 13, white)
}

func TestClip(t *testing.T) {
	img := render(t, `<clipPath id="c"><rect x="0" y="0" width="5" height="10"/></clipPath>
<g clip-path="url(#c)"><rect x="0" y="0" width="10" height="10" style="fill:#00f"/></g>
<rect x="8" y="8" width="2" height="2" fill="red"/>`, 1)
	assertColor(t, img, 2, 5, blue)
	assertColor(t, img, 7, 5, white)
	// The clip ends with the group and the clip rect itself is
	// not drawn.
	assertColor(t, img, 9, 9, red)
	assertColor(t, img, 0, 0, blue)
}

func TestStroke(t *testing.T) {
	img := render(t, `<path d="M0 5H10" style="stroke:#000; fill:none; stroke-width:2"/>`, 1)
	assertColor(t, img, 5, 4, black)
	assertColor(t, img, 5, 5, black)
	assertColor(t, img, 5, 1, white)
	assertColor(t, img, 5, 8, white)
}

func TestOpacity(t *testing.T) {
	img := render(t, `<circle cx="5" cy="5" r="4" style="fill:#000;fill-opacity:0.5"/>`, 1)
	got := img.RGBAAt(5, 5)
	assert.InDelta(t, 0x80, int(got.R), 3, "%v", got)
	assertColor(t, img, 0, 0, white)
}

func TestHidden(t *testing.T) {
	img := render(t, `<rect x="0" y="0" width="10" height="10" display="none"/>`, 1)
	assertColor(t, img, 5, 5, white)

	// Hidden groups and unknown elements take their children
	// with them.
	img = render(t, `<g style="display:none"><rect x="0" y="0" width="5" height="5" fill="red"/></g>
<marker><rect x="5" y="5" width="5" height="5" fill="red"/></marker>
<rect x="0" y="5" width="5" height="5" fill="blue"/>`, 1)
	assertColor(t, img, 2, 2, white)
	assertColor(t, img, 7, 7, white)
	assertColor(t, img, 2, 7, blue)
}

func TestGroupAttributes(t *testing.T) {
	img := render(t, `<g fill="blue"><g><rect x="0" y="0" width="4" height="4"/></g></g>
<text x="5" y="5"> </text>
<g fill="red"><rect x="5" y="5" width="4" height="4"/></g>`, 1)
	assertColor(t, img, 2, 2, blue)
	assertColor(t, img, 7, 7, red)
}

// inked returns the bounding box of non-white pixels.
func inked(img *image.RGBA) image.Rectangle {
	var r image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := img.RGBAAt(x, y); c != white {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

func TestText(t *testing.T) {
	const svg = `<svg width="200" height="200" font-size="20px">
<text x="100" y="100" text-anchor="%s">Hello, world</text></svg>`
	var boxes []image.Rectangle
	for _, anchor := range []string{"start", "middle", "end"} {
		img, err := Render(strings.NewReader(strings.Replace(svg, "%s", anchor, 1)), 1)
		require.NoError(t, err)
		box := inked(img)
		require.False(t, box.Empty(), anchor)
		assert.Greater(t, box.Dx(), box.Dy(), anchor)
		assert.LessOrEqual(t, box.Max.Y, 106, "%s: text sits on the baseline", anchor)
		boxes = append(boxes, box)
	}
	assert.GreaterOrEqual(t, boxes[0].Min.X, 99)
	assert.Less(t, boxes[1].Min.X, 100)
	assert.Greater(t, boxes[1].Max.X, 100)
	assert.LessOrEqual(t, boxes[2].Max.X, 101)
}

func TestRotatedText(t *testing.T) {
	const svg = `<svg width="200" height="200" font-size="20px">
<text x="100" y="100" text-anchor="middle" dy=".3em" transform="rotate(-90 100 100)">Hello, world</text></svg>`
	img, err := Render(strings.NewReader(svg), 1)
	require.NoError(t, err)
	box := inked(img)
	require.False(t, box.Empty())
	assert.Greater(t, box.Dy(), box.Dx())
	assert.True(t, box.Min.Y < 100 && box.Max.Y > 100, "%v", box)
}

func TestPaintOrder(t *testing.T) {
	const svg = `<svg width="200" height="200" font-size="20px">
<rect x="0" y="0" width="200" height="200" fill="red"/>
<text x="100" y="40" text-anchor="middle">Covered</text>
<rect x="0" y="0" width="200" height="60" fill="blue"/>
<text x="100" y="150" text-anchor="middle">Shown</text>
</svg>`
	img, err := Render(strings.NewReader(svg), 1)
	require.NoError(t, err)

	// Text drawn before a shape is covered by it.
	for y := 0; y < 60; y++ {
		for x := 0; x < 200; x++ {
			if !near(img.RGBAAt(x, y), blue, 2) {
				t.Fatalf("pixel (%d,%d) = %v, want blue", x, y, img.RGBAAt(x, y))
			}
		}
	}
	// Text drawn after a shape is on top of it.
	dark := 0
	for y := 120; y < 160; y++ {
		for x := 0; x < 200; x++ {
			if img.RGBAAt(x, y).R < 0x40 {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 10)
}

func TestErrors(t *testing.T) {
	_, err := Render(strings.NewReader(`<html></html>`), 1)
	assert.True(t, errors.Is(err, ErrNotSVG), "%v", err)

	_, err = Render(strings.NewReader(``), 1)
	assert.True(t, errors.Is(err, ErrNotSVG), "%v", err)

	_, err = Render(strings.NewReader(`<svg width="10" height="10"><rect></svg>`), 1)
	assert.Error(t, err)

	_, err = Render(strings.NewReader(strings.Replace(doc, "%s", `<rect x="a" width="1" height="1"/><text x="b">t</text>`, 1)), 1)
	assert.Error(t, err)

	_, err = Render(strings.NewReader(strings.Replace(doc, "%s", "", 1)), 0)
	assert.Error(t, err)

	_, err = Render(strings.NewReader(`<svg width="0" height="10"></svg>`), 1)
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, c)

	c, err = parseColor(" #12a4B6 ")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0x12, 0xa4, 0xb6, 0xff}, c)

	c, err = parseColor("rgb(1, 2, 3)")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{1, 2, 3, 0xff}, c)

	c, err = parseColor("none")
	require.NoError(t, err)
	assert.Nil(t, c)

	for _, bad := range []string{"#12", "#ggg", "rgb(1,2)", "rgb(1,2,300)", "chartreuse"} {
		_, err := parseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestStyle(t *testing.T) {
	st := defaultState(image.Rect(0, 0, 1, 1))
	st.setStyle("stroke: #888; fill:none; text-anchor:end;bogus")
	assert.Nil(t, st.fill)
	assert.Equal(t, "end", st.anchor)
	st.setStyle("fill:#888")
	assert.Equal(t, color.NRGBA{0x88, 0x88, 0x88, 0xff}, st.fill)

	st.set("font-size", "14px")
	st.set("dy", "1em")
	assert.Equal(t, 14.0, st.dy)

	assert.Equal(t, &rotation{-90, 3, 4}, parseRotate("rotate(-90 3 4)"))
	assert.Equal(t, &rotation{90, 1, 2}, parseRotate("rotate(90,1,2)"))
	assert.Equal(t, &rotation{deg: 45}, parseRotate("rotate(45)"))
	assert.Nil(t, parseRotate("rotate(45 1)"))
	assert.Nil(t, parseRotate("translate(1 2)"))
}

func TestRenderPlot(t *testing.T) {
	tab := new(table.Builder).
		Add("x", []float64{1, 2, 3, 4}).
		Add("y", []float64{2, 1, 4, 3}).
		Done()
	p := gg.NewPlot(tab)
	p.Add(gg.LayerPoints{X: "x", Y: "y"})
	p.Add(gg.LayerLines{X: "x", Y: "y"})
	p.Add(gg.Title("points"))

	var buf bytes.Buffer
	require.NoError(t, p.WriteSVG(&buf, 300, 200))
	img, err := Render(&buf, 2)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 600, 400), img.Bounds())

	// The plot background is light gray.
	grays := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 4 {
		for x := b.Min.X; x < b.Max.X; x += 4 {
			if img.RGBAAt(x, y) == (color.RGBA{0xee, 0xee, 0xee, 0xff}) {
				grays++
			}
		}
	}
	assert.Greater(t, grays, 100)
}
