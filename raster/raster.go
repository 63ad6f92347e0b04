// Package raster provides the RGBA pixel buffer that sign pages are
// rendered into. It knows nothing about layout: callers address pixels by
// 0-based coordinates and compose glyphs or graphics at a position.
package raster

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// Raster is a width×height buffer of non-premultiplied RGBA pixels.
// Pixels that were never painted keep the alpha of the initial fill.
type Raster struct {
	img *image.NRGBA
}

// New returns a raster filled with clr.
func New(width, height int, clr [4]uint8) *Raster {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], clr[:])
	}
	return &Raster{img: img}
}

// FromImage converts img into a raster, e.g. a graphic decoded from PNG.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return &Raster{img: dst}
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int { return r.img.Rect.Dx() }

// Height returns the raster height in pixels.
func (r *Raster) Height() int { return r.img.Rect.Dy() }

// Pixel returns the RGBA value at (x, y).
func (r *Raster) Pixel(x, y int) [4]uint8 {
	i := r.img.PixOffset(x, y)
	var p [4]uint8
	copy(p[:], r.img.Pix[i:i+4])
	return p
}

// SetPixel sets (x, y) to clr; points outside the raster are ignored.
func (r *Raster) SetPixel(x, y int, clr [4]uint8) {
	if !(image.Point{X: x, Y: y}).In(r.img.Rect) {
		return
	}
	i := r.img.PixOffset(x, y)
	copy(r.img.Pix[i:i+4], clr[:])
}

// Lit reports whether (x, y) is set in a graphic or glyph bitmap: any
// pixel with non-zero alpha and a non-black color.
func (r *Raster) Lit(x, y int) bool {
	p := r.Pixel(x, y)
	return p[3] != 0 && (p[0] != 0 || p[1] != 0 || p[2] != 0)
}

// Fill paints the w×h rectangle at (x, y) with an opaque color.
func (r *Raster) Fill(x, y, w, h int, rgb [3]uint8) error {
	if err := r.check(x, y, w, h); err != nil {
		return err
	}
	clr := opaque(rgb)
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			r.SetPixel(xx, yy, clr)
		}
	}
	return nil
}

// Composite draws the lit pixels of src at (x, y) in the color fg.
// Unlit pixels leave the destination untouched.
func (r *Raster) Composite(src *Raster, x, y int, fg [3]uint8) error {
	if err := r.check(x, y, src.Width(), src.Height()); err != nil {
		return err
	}
	clr := opaque(fg)
	for yy := 0; yy < src.Height(); yy++ {
		for xx := 0; xx < src.Width(); xx++ {
			if src.Lit(xx, yy) {
				r.SetPixel(x+xx, y+yy, clr)
			}
		}
	}
	return nil
}

// Copy draws the opaque pixels of src at (x, y) in their own colors.
func (r *Raster) Copy(src *Raster, x, y int) error {
	if err := r.check(x, y, src.Width(), src.Height()); err != nil {
		return err
	}
	for yy := 0; yy < src.Height(); yy++ {
		for xx := 0; xx < src.Width(); xx++ {
			if p := src.Pixel(xx, yy); p[3] != 0 {
				r.SetPixel(x+xx, y+yy, [4]uint8{p[0], p[1], p[2], 0xff})
			}
		}
	}
	return nil
}

// Image exposes the raster as an image; the result shares pixel memory.
func (r *Raster) Image() image.Image { return r.img }

// Scaled returns an image magnified by factor using nearest-neighbour
// sampling, with untouched background pixels made opaque.
func (r *Raster) Scaled(factor int) *image.NRGBA {
	src := image.NewNRGBA(r.img.Rect)
	copy(src.Pix, r.img.Pix)
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 0xff
	}
	dst := image.NewNRGBA(image.Rect(0, 0, r.Width()*factor, r.Height()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func (r *Raster) check(x, y, w, h int) error {
	if x < 0 || y < 0 || x+w > r.Width() || y+h > r.Height() {
		return fmt.Errorf("raster: %dx%d at (%d,%d) outside %dx%d",
			w, h, x, y, r.Width(), r.Height())
	}
	return nil
}

func opaque(rgb [3]uint8) [4]uint8 {
	return [4]uint8{rgb[0], rgb[1], rgb[2], 0xff}
}
