// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raster

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
	"unicode"
)

var namedColors = map[string]color.Color{
	"black": color.Black,
	"white": color.White,
	"gray":  color.NRGBA{0x80, 0x80, 0x80, 0xff},
	"grey":  color.NRGBA{0x80, 0x80, 0x80, 0xff},
	"red":   color.NRGBA{0xff, 0, 0, 0xff},
	"green": color.NRGBA{0, 0x80, 0, 0xff},
	"blue":  color.NRGBA{0, 0, 0xff, 0xff},
}

// parseColor parses a CSS color. It returns nil for "none".
func parseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "none" || s == "transparent":
		return nil, nil
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			break
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			break
		}
		return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		parts := strings.Split(s[4:len(s)-1], ",")
		if len(parts) != 3 {
			break
		}
		var c [3]uint8
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || v < 0 || v > 255 {
				return nil, fmt.Errorf("bad color %q", s)
			}
			c[i] = uint8(v)
		}
		return color.NRGBA{c[0], c[1], c[2], 0xff}, nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("bad color %q", s)
}

// fade scales the alpha of c by a.
func fade(c color.Color, a float64) color.Color {
	if a >= 1 {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*a + 0.5)
	return n
}

// parseLength parses a length attribute in pixels or ems. em is the
// current font size.
func parseLength(s string, em float64) (float64, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "em"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "em"), 64)
		return v * em, err
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	}
	return strconv.ParseFloat(s, 64)
}

// state is the inherited presentation state of an element, as far as
// text and clipping need it.
type state struct {
	fill        color.Color
	opacity     float64
	fillOpacity float64
	fontSize    float64
	anchor      string
	clip        image.Rectangle
	hidden      bool
	dy          float64
	rotate      *rotation
	clipPathRef string
}

type rotation struct {
	deg, cx, cy float64
}

func defaultState(clip image.Rectangle) state {
	return state{
		fill:        color.Black,
		opacity:     1,
		fillOpacity: 1,
		fontSize:    16,
		anchor:      "start",
		clip:        clip,
	}
}

// set applies one presentation property. Unknown properties and
// unparseable values are ignored, as a browser would. Stroke
// properties are left to oksvg.
func (s *state) set(prop, val string) {
	val = strings.TrimSpace(val)
	switch strings.TrimSpace(prop) {
	case "fill":
		if c, err := parseColor(val); err == nil {
			s.fill = c
		}
	case "opacity":
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			s.opacity *= v
		}
	case "fill-opacity":
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			s.fillOpacity = v
		}
	case "font-size":
		if v, err := parseLength(val, s.fontSize); err == nil {
			s.fontSize = v
		}
	case "text-anchor":
		s.anchor = val
	case "display":
		if val == "none" {
			s.hidden = true
		}
	case "dy":
		if v, err := parseLength(val, s.fontSize); err == nil {
			s.dy = v
		}
	case "clip-path":
		if strings.HasPrefix(val, "url(#") && strings.HasSuffix(val, ")") {
			s.clipPathRef = val[len("url(#") : len(val)-1]
		}
	case "transform":
		s.rotate = parseRotate(val)
	}
}

// setStyle applies a CSS declaration list such as "fill:#eee; stroke:none".
func (s *state) setStyle(style string) {
	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if ok {
			s.set(prop, val)
		}
	}
}

// parseRotate parses a transform of the form "rotate(a [cx cy])". It
// returns nil for any other transform.
func parseRotate(s string) *rotation {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "rotate(") || !strings.HasSuffix(s, ")") {
		return nil
	}
	args := strings.FieldsFunc(s[len("rotate("):len(s)-1], func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(args) != 1 && len(args) != 3 {
		return nil
	}
	var v [3]float64
	for i, a := range args {
		x, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil
		}
		v[i] = x
	}
	return &rotation{deg: v[0], cx: v[1], cy: v[2]}
}
