package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font/basicfont"

	"github.com/ByLCY/multisign/multi"
)

// Provider resolves the font selected by a [fo] tag or the sign default.
type Provider interface {
	Font(ref multi.FontRef) (*Font, error)
}

// Table is a Provider backed by fonts keyed by number.
type Table struct {
	fonts map[uint8]*Font
}

var _ Provider = (*Table)(nil)

// NewTable returns a table holding fonts; a later font replaces an
// earlier one with the same number.
func NewTable(fonts ...*Font) *Table {
	t := &Table{fonts: map[uint8]*Font{}}
	for _, f := range fonts {
		t.Add(f)
	}
	return t
}

// Add registers f under its number.
func (t *Table) Add(f *Font) {
	t.fonts[f.Number] = f
}

// Font returns the font numbered ref.Number. When the reference carries a
// version id it must match the font's version.
func (t *Table) Font(ref multi.FontRef) (*Font, error) {
	f, ok := t.fonts[ref.Number]
	if !ok {
		return nil, fmt.Errorf("%w: font %d not found", multi.ErrUnsupportedTagValue, ref.Number)
	}
	if ref.HasVer && ref.Version != f.Version {
		return nil, fmt.Errorf("%w: font %d version %04x, sign has %04x",
			multi.ErrUnsupportedTagValue, ref.Number, ref.Version, f.Version)
	}
	return f, nil
}

// printable ASCII
func asciiRunes() []rune {
	runes := make([]rune, 0, 0x7f-0x20)
	for r := rune(0x20); r < 0x7f; r++ {
		runes = append(runes, r)
	}
	return runes
}

// Builtin returns a shared table with font 1, a 7x13 fixed-pitch face
// covering printable ASCII. The table must not be modified.
func Builtin() *Table { return builtin() }

var builtin = sync.OnceValue(func() *Table {
	f, err := FromFace(1, "7x13", basicfont.Face7x13, 0, 2, asciiRunes())
	if err != nil {
		panic(fmt.Sprintf("builtin font: %v", err))
	}
	return NewTable(f)
})
