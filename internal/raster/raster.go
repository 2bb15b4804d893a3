// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package raster draws SVG documents produced by go-gg onto images.
//
// Shapes are drawn by oksvg. oksvg has neither text nor clip paths,
// so the document is cut into runs of shapes that share one clip
// rectangle, and each run is drawn by oksvg into its clip. Text
// elements are drawn here, in document order between runs. Clip
// paths must be a single rect, which is what gg emits. Elements
// other than groups, shapes and text are skipped with their children.
package raster

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
)

// ErrNotSVG is returned if the document's root element is not svg.
var ErrNotSVG = errors.New("raster: not an SVG document")

var shapes = map[string]bool{
	"rect": true, "circle": true, "ellipse": true, "line": true,
	"polyline": true, "polygon": true, "path": true,
}

type renderer struct {
	dst        *image.RGBA
	scale      float64
	docW, docH float64

	stack []state
	clips map[string]image.Rectangle

	// open holds the enclosing groups of the current element,
	// stripped for re-encoding.
	open []xml.StartElement

	// skip is the depth into an element that is not drawn.
	skip int
	// clipDef is the id of the clipPath being skipped, if any.
	clipDef string

	// run is the pending run of shapes. enc is nil if there is
	// none.
	run     bytes.Buffer
	enc     *xml.Encoder
	runClip image.Rectangle

	// text is the pending text element, if any.
	text *textElt

	faces map[float64]font.Face
}

type textElt struct {
	x, y float64
	st   state
	buf  strings.Builder
}

// Render decodes the SVG document read from r and draws it onto a new
// image with a white background. The image size is the document's
// width and height multiplied by scale.
func Render(r io.Reader, scale float64) (*image.RGBA, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("raster: scale must be positive, got %v", scale)
	}
	rd := &renderer{
		scale: scale,
		clips: make(map[string]image.Rectangle),
		faces: make(map[float64]font.Face),
	}
	defer rd.closeFaces()

	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("raster: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := rd.start(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if err := rd.end(t); err != nil {
				return nil, err
			}
		case xml.CharData:
			if rd.text != nil && rd.skip == 0 {
				rd.text.buf.Write(t)
			}
		}
	}
	if rd.dst == nil {
		return nil, ErrNotSVG
	}
	if err := rd.flush(); err != nil {
		return nil, err
	}
	return rd.dst, nil
}

func attr(e xml.StartElement, name string) (string, bool) {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// floats parses the named attributes of e as numbers. Missing
// attributes are 0.
func floats(e xml.StartElement, names ...string) ([]float64, error) {
	vs := make([]float64, len(names))
	for i, name := range names {
		s, ok := attr(e, name)
		if !ok {
			continue
		}
		v, err := parseLength(s, 0)
		if err != nil {
			return nil, fmt.Errorf("raster: <%s> attribute %s: %w", e.Name.Local, name, err)
		}
		vs[i] = v
	}
	return vs, nil
}

// strip returns e without namespaces or clip paths, in the form oksvg
// reads.
func strip(e xml.StartElement) xml.StartElement {
	s := xml.StartElement{Name: xml.Name{Local: e.Name.Local}}
	for _, a := range e.Attr {
		if a.Name.Space != "" || a.Name.Local == "xmlns" || a.Name.Local == "clip-path" {
			continue
		}
		s.Attr = append(s.Attr, xml.Attr{Name: xml.Name{Local: a.Name.Local}, Value: a.Value})
	}
	return s
}

func (r *renderer) top() *state {
	return &r.stack[len(r.stack)-1]
}

// push derives the state of element e from its parent.
func (r *renderer) push(e xml.StartElement) *state {
	st := *r.top()
	st.dy, st.rotate, st.clipPathRef = 0, nil, ""
	for _, a := range e.Attr {
		if a.Name.Local != "style" {
			st.set(a.Name.Local, a.Value)
		}
	}
	if style, ok := attr(e, "style"); ok {
		st.setStyle(style)
	}
	if st.clipPathRef != "" {
		if c, ok := r.clips[st.clipPathRef]; ok {
			st.clip = st.clip.Intersect(c)
		}
	}
	r.stack = append(r.stack, st)
	return r.top()
}

func (r *renderer) pop() {
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

func (r *renderer) start(e xml.StartElement) error {
	if r.dst == nil {
		if e.Name.Local != "svg" {
			return ErrNotSVG
		}
		return r.startDoc(e)
	}

	if r.skip > 0 {
		r.skip++
		if r.clipDef != "" && e.Name.Local == "rect" {
			v, err := floats(e, "x", "y", "width", "height")
			if err != nil {
				return err
			}
			r.clips[r.clipDef] = r.pixelRect(v[0], v[1], v[2], v[3])
		}
		return nil
	}

	name := e.Name.Local
	switch {
	case name == "clipPath":
		id, _ := attr(e, "id")
		// Unnamed clip paths still must not be drawn.
		if id == "" {
			id = "-"
		}
		r.clipDef, r.skip = id, 1
		return nil
	case name != "g" && name != "text" && !shapes[name]:
		r.skip = 1
		return nil
	}

	st := r.push(e)
	if st.hidden {
		r.pop()
		r.skip = 1
		return nil
	}
	switch name {
	case "g":
		g := strip(e)
		r.open = append(r.open, g)
		if r.enc != nil {
			return r.enc.EncodeToken(g)
		}

	case "text":
		if err := r.flush(); err != nil {
			return err
		}
		v, err := floats(e, "x", "y")
		if err != nil {
			return err
		}
		r.text = &textElt{x: v[0], y: v[1], st: *st}

	default:
		// Shapes are drawn whole. Anything nested in one is
		// dropped.
		clip := st.clip
		r.pop()
		r.skip = 1
		return r.shape(strip(e), clip)
	}
	return nil
}

func (r *renderer) startDoc(e xml.StartElement) error {
	v, err := floats(e, "width", "height")
	if err != nil {
		return err
	}
	if v[0] <= 0 || v[1] <= 0 {
		return fmt.Errorf("raster: bad document size %vx%v", v[0], v[1])
	}
	r.docW, r.docH = v[0], v[1]
	w := int(math.Ceil(v[0] * r.scale))
	h := int(math.Ceil(v[1] * r.scale))
	r.dst = image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(r.dst, r.dst.Bounds(), image.White, image.Point{}, draw.Src)

	r.stack = []state{defaultState(r.dst.Bounds())}
	r.push(e)
	return nil
}

func (r *renderer) end(e xml.EndElement) error {
	if r.skip > 0 {
		r.skip--
		if r.skip == 0 {
			r.clipDef = ""
		}
		return nil
	}
	switch e.Name.Local {
	case "g":
		if len(r.open) > 0 {
			g := r.open[len(r.open)-1]
			r.open = r.open[:len(r.open)-1]
			if r.enc != nil {
				if err := r.enc.EncodeToken(g.End()); err != nil {
					return err
				}
			}
		}
	case "text":
		if r.text != nil {
			r.drawText(r.text)
			r.text = nil
		}
	}
	r.pop()
	return nil
}

// shape adds e to the pending run, first drawing the run if its clip
// differs.
func (r *renderer) shape(e xml.StartElement, clip image.Rectangle) error {
	if r.enc != nil && clip != r.runClip {
		if err := r.flush(); err != nil {
			return err
		}
	}
	if r.enc == nil {
		if err := r.begin(clip); err != nil {
			return err
		}
	}
	if err := r.enc.EncodeToken(e); err != nil {
		return err
	}
	return r.enc.EncodeToken(e.End())
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// runHeader returns the elements that open every run: a document of
// the same size and a group resetting oksvg's default stroke width to
// SVG's.
func (r *renderer) runHeader() []xml.StartElement {
	a := func(name, val string) xml.Attr {
		return xml.Attr{Name: xml.Name{Local: name}, Value: val}
	}
	w, h := ftoa(r.docW), ftoa(r.docH)
	return []xml.StartElement{
		{Name: xml.Name{Local: "svg"}, Attr: []xml.Attr{a("width", w), a("height", h), a("viewBox", "0 0 "+w+" "+h)}},
		{Name: xml.Name{Local: "g"}, Attr: []xml.Attr{a("stroke-width", "1")}},
	}
}

// begin starts a run clipped to clip, reopening the enclosing groups
// so the run's shapes inherit their presentation attributes.
func (r *renderer) begin(clip image.Rectangle) error {
	r.run.Reset()
	r.enc = xml.NewEncoder(&r.run)
	r.runClip = clip
	for _, e := range append(r.runHeader(), r.open...) {
		if err := r.enc.EncodeToken(e); err != nil {
			return err
		}
	}
	return nil
}

// flush draws the pending run, if any.
func (r *renderer) flush() error {
	if r.enc == nil {
		return nil
	}
	enc := r.enc
	r.enc = nil
	open := append(r.runHeader(), r.open...)
	for i := len(open) - 1; i >= 0; i-- {
		if err := enc.EncodeToken(open[i].End()); err != nil {
			return err
		}
	}
	if err := enc.Flush(); err != nil {
		return err
	}

	icon, err := oksvg.ReadIconStream(&r.run, oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	icon.ViewBox.X, icon.ViewBox.Y = 0, 0
	icon.ViewBox.W, icon.ViewBox.H = r.docW, r.docH

	clip := r.runClip.Intersect(r.dst.Bounds())
	if clip.Empty() {
		return nil
	}
	w, h := r.docW*r.scale, r.docH*r.scale
	if clip == r.dst.Bounds() {
		icon.SetTarget(0, 0, w, h)
		icon.Draw(dasher(r.dst), 1)
		return nil
	}
	tmp := image.NewRGBA(image.Rect(0, 0, clip.Dx(), clip.Dy()))
	icon.SetTarget(-float64(clip.Min.X), -float64(clip.Min.Y), w, h)
	icon.Draw(dasher(tmp), 1)
	draw.Draw(r.dst, clip, tmp, image.Point{}, draw.Over)
	return nil
}

func dasher(dst *image.RGBA) *rasterx.Dasher {
	b := dst.Bounds()
	return rasterx.NewDasher(b.Dx(), b.Dy(), rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b))
}

// pixelRect converts a rectangle in document units to image pixels.
func (r *renderer) pixelRect(x, y, w, h float64) image.Rectangle {
	s := r.scale
	return image.Rect(
		int(math.Floor(x*s)), int(math.Floor(y*s)),
		int(math.Ceil((x+w)*s)), int(math.Ceil((y+h)*s)),
	)
}

// toPixels returns the transform from document units to pixels,
// including rot if it is non-nil.
func (r *renderer) toPixels(rot *rotation) f64.Aff3 {
	s := r.scale
	if rot == nil {
		return f64.Aff3{s, 0, 0, 0, s, 0}
	}
	sin, cos := math.Sincos(rot.deg * math.Pi / 180)
	return f64.Aff3{
		s * cos, -s * sin, s * (rot.cx - cos*rot.cx + sin*rot.cy),
		s * sin, s * cos, s * (rot.cy - sin*rot.cx - cos*rot.cy),
	}
}
