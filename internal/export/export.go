// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package export writes plots to SVG, PNG, and JPEG files.
//
// Sizes are given in inches. A plot is laid out at 72 pixels per inch
// regardless of format, so text and marks keep the same proportions
// in every output. Raster formats then scale the layout to the
// requested resolution.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/aclements/dexplot/internal/raster"
	"github.com/aclements/go-gg/gg"
	"golang.org/x/image/draw"
)

// A Format is an output file format.
type Format string

const (
	SVG  Format = "svg"
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// Formats lists the supported formats.
var Formats = []Format{SVG, PNG, JPEG}

// ErrFormat is returned for an unknown or missing output format.
var ErrFormat = errors.New("unknown output format")

// layoutDPI is the resolution plots are laid out at.
const layoutDPI = 72

// maxSupersample bounds the number of pixels rendered before
// downsampling a raster image.
const maxSupersample = 16 << 20

// ParseFormat parses a format name. "jpg" is accepted for JPEG.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case SVG, PNG, JPEG:
		return f, nil
	case "jpg":
		return JPEG, nil
	}
	return "", fmt.Errorf("%w %q", ErrFormat, s)
}

// FormatFromPath infers the format of path from its extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrFormat, path)
	}
	return ParseFormat(ext)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Options control the output size and encoding.
type Options struct {
	// Format is the output format. Save infers it from the file
	// name if it is empty.
	Format Format

	// Width and Height are the output size in inches.
	Width, Height float64

	// DPI is the resolution of raster output, in pixels per inch.
	DPI float64

	// Quality is the JPEG quality, from 1 to 100.
	Quality int
}

// DefaultOptions returns 7×5 inch options at 300 DPI.
func DefaultOptions() Options {
	return Options{Format: SVG, Width: 7, Height: 5, DPI: 300, Quality: 90}
}

// Validate checks that o describes a drawable output.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 || math.IsInf(o.Width, 0) || math.IsInf(o.Height, 0) {
		return fmt.Errorf("size must be positive, got %v×%v in", o.Width, o.Height)
	}
	if o.DPI <= 0 || math.IsInf(o.DPI, 0) {
		return fmt.Errorf("DPI must be positive, got %v", o.DPI)
	}
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("JPEG quality must be between 1 and 100, got %d", o.Quality)
	}
	if o.Format != "" {
		if _, err := ParseFormat(string(o.Format)); err != nil {
			return err
		}
	}
	return nil
}

// LayoutSize returns the size plots are laid out at, in pixels.
func (o Options) LayoutSize() (w, h int) {
	return px(o.Width, layoutDPI), px(o.Height, layoutDPI)
}

// PixelSize returns the size of raster output, in pixels.
func (o Options) PixelSize() (w, h int) {
	return px(o.Width, o.DPI), px(o.Height, o.DPI)
}

func px(inches, dpi float64) int {
	return max(1, int(math.Round(inches*dpi)))
}

// Write renders p to w in the format given by opts.
func Write(w io.Writer, p *gg.Plot, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	f, err := ParseFormat(string(opts.Format))
	if err != nil {
		return err
	}

	if f == SVG {
		lw, lh := opts.LayoutSize()
		return p.WriteSVG(w, lw, lh)
	}

	img, err := Rasterize(p, opts)
	if err != nil {
		return err
	}
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		q := opts.Quality
		if q == 0 {
			q = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	}
	panic("unreachable")
}

// Rasterize renders p to an image of opts.PixelSize.
//
// The plot is drawn at up to twice the target resolution and scaled
// down, which smooths text and thin lines.
func Rasterize(p *gg.Plot, opts Options) (*image.RGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	lw, lh := opts.LayoutSize()
	var buf bytes.Buffer
	if err := p.WriteSVG(&buf, lw, lh); err != nil {
		return nil, err
	}

	pw, ph := opts.PixelSize()
	super := 2.0
	if 4*pw*ph > maxSupersample {
		super = 1
	}
	src, err := raster.Render(&buf, opts.DPI/layoutDPI*super)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, pw, ph))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// Save renders p to the file path. If opts.Format is empty, it is
// inferred from the file extension.
func Save(path string, p *gg.Plot, opts Options) (err error) {
	if opts.Format == "" {
		if opts.Format, err = FormatFromPath(path); err != nil {
			return err
		}
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err2 := f.Close(); err == nil {
			err = err2
		}
	}()
	if err := Write(f, p, opts); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
