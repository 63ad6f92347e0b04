// Package fonts provides the bitmap fonts a sign renders text with: glyph
// bitmaps, character and line spacing, and lookup by font number.
package fonts

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/multisign/multi"
	"github.com/ByLCY/multisign/raster"
)

// Glyph is the bitmap of one character. Lit pixels are opaque white.
type Glyph struct {
	Rune   rune
	Bitmap *raster.Raster
}

// Width returns the glyph width in pixels.
func (g *Glyph) Width() int { return g.Bitmap.Width() }

// Font is an immutable set of glyphs with a common height.
type Font struct {
	Number  uint8
	Version uint16
	Name    string

	height      int
	charSpacing int
	lineSpacing int
	glyphs      map[rune]*Glyph
}

// NewFont returns an empty font. Glyphs are added with AddGlyph before the
// font is shared.
func NewFont(number uint8, name string, height, charSpacing, lineSpacing int) *Font {
	return &Font{
		Number:      number,
		Name:        name,
		height:      height,
		charSpacing: charSpacing,
		lineSpacing: lineSpacing,
		glyphs:      map[rune]*Glyph{},
	}
}

// Height returns the glyph height in pixels.
func (f *Font) Height() int { return f.height }

// CharSpacing returns the default pixels between characters.
func (f *Font) CharSpacing() int { return f.charSpacing }

// LineSpacing returns the default pixels between lines.
func (f *Font) LineSpacing() int { return f.lineSpacing }

// AddGlyph adds the bitmap for r; its height must match the font height.
func (f *Font) AddGlyph(r rune, bitmap *raster.Raster) error {
	if bitmap.Height() != f.height {
		return fmt.Errorf("font %d: glyph %q height %d, want %d",
			f.Number, r, bitmap.Height(), f.height)
	}
	f.glyphs[r] = &Glyph{Rune: r, Bitmap: bitmap}
	return nil
}

// Glyph returns the glyph for r.
func (f *Font) Glyph(r rune) (*Glyph, error) {
	g, ok := f.glyphs[r]
	if !ok {
		return nil, fmt.Errorf("%w: font %d has no glyph for %q", multi.ErrOther, f.Number, r)
	}
	return g, nil
}

// Glyphs returns the glyphs of text after NFC normalization, so that a
// decomposed accent sequence maps to its precomposed glyph.
func (f *Font) Glyphs(text string) ([]*Glyph, error) {
	text = norm.NFC.String(text)
	out := make([]*Glyph, 0, len(text))
	for _, r := range text {
		g, err := f.Glyph(r)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// Width returns the pixel width of text with cs pixels between characters.
func (f *Font) Width(text string, cs int) (int, error) {
	glyphs, err := f.Glyphs(text)
	if err != nil {
		return 0, err
	}
	w := 0
	for i, g := range glyphs {
		if i > 0 {
			w += cs
		}
		w += g.Width()
	}
	return w, nil
}

// FromFace rasterizes runes from face into a bitmap font. Glyph cells are
// the face advance wide and ascent+descent high; mask pixels at or above
// half coverage are lit. Runes the face lacks are skipped.
func FromFace(number uint8, name string, face font.Face, charSpacing, lineSpacing int, runes []rune) (*Font, error) {
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	height := ascent + m.Descent.Ceil()
	if height <= 0 {
		return nil, fmt.Errorf("font %d: face has no height", number)
	}
	f := NewFont(number, name, height, charSpacing, lineSpacing)
	for _, r := range runes {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, ascent), r)
		if !ok {
			continue
		}
		w := advance.Round()
		cell := image.NewAlpha(image.Rect(0, 0, w, height))
		if mask != nil {
			xdraw.Draw(cell, dr, mask, maskp, xdraw.Over)
		}
		bm := raster.New(w, height, [4]uint8{})
		for y := 0; y < height; y++ {
			for x := 0; x < w; x++ {
				if cell.AlphaAt(x, y).A >= 0x80 {
					bm.SetPixel(x, y, [4]uint8{0xff, 0xff, 0xff, 0xff})
				}
			}
		}
		if err := f.AddGlyph(r, bm); err != nil {
			return nil, err
		}
	}
	return f, nil
}
