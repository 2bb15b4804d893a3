// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raster

import (
	"image"
	"image/draw"
	"math"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// All text is drawn in Go Regular regardless of the requested font
// family.
var regular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// face returns a face for pixel size px.
func (r *renderer) face(px float64) (font.Face, error) {
	if f, ok := r.faces[px]; ok {
		return f, nil
	}
	fnt, err := regular()
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	r.faces[px] = f
	return f, nil
}

func (r *renderer) closeFaces() {
	for _, f := range r.faces {
		f.Close()
	}
}

// clipped returns the part of the destination inside clip.
func (r *renderer) clipped(clip image.Rectangle) draw.Image {
	return r.dst.SubImage(clip).(*image.RGBA)
}

func (r *renderer) drawText(t *textElt) {
	st := &t.st
	s := strings.Join(strings.Fields(t.buf.String()), " ")
	if s == "" || st.hidden || st.fill == nil || st.fontSize <= 0 {
		return
	}
	face, err := r.face(st.fontSize * r.scale)
	if err != nil {
		// Text is decoration. A plot without labels is
		// better than no plot.
		return
	}
	src := image.NewUniform(fade(st.fill, st.opacity*st.fillOpacity))

	// Position of the start of the baseline, in pixels, before
	// rotation.
	w := float64(font.MeasureString(face, s)) / 64
	x, y := t.x*r.scale, (t.y+st.dy)*r.scale
	switch st.anchor {
	case "middle":
		x -= w / 2
	case "end":
		x -= w
	}

	if st.rotate == nil {
		d := font.Drawer{
			Dst:  r.clipped(st.clip),
			Src:  src,
			Face: face,
			Dot:  fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))},
		}
		d.DrawString(s)
		return
	}

	// Draw unrotated into a scratch image, then transform it into
	// place.
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	tmp := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(w))+2, ascent+descent+2))
	d := font.Drawer{Dst: tmp, Src: src, Face: face, Dot: fixed.P(1, ascent+1)}
	d.DrawString(s)

	// Scratch pixel (0, 0) is at (x0, y0) in the unrotated page.
	x0, y0 := x-1, y-float64(ascent)-1
	rot := r.toPixels(st.rotate)
	// Rotation about the pixel-space center, applied to the
	// scratch origin.
	s2d := f64.Aff3{
		rot[0] / r.scale, rot[1] / r.scale, rot[0]/r.scale*x0 + rot[1]/r.scale*y0 + rot[2],
		rot[3] / r.scale, rot[4] / r.scale, rot[3]/r.scale*x0 + rot[4]/r.scale*y0 + rot[5],
	}
	xdraw.ApproxBiLinear.Transform(r.clipped(st.clip), s2d, tmp, tmp.Bounds(), xdraw.Over, nil)
}
