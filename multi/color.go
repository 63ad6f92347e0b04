package multi

import "fmt"

// ColorScheme is the dmsColorScheme of a sign.
type ColorScheme int

const (
	Monochrome1Bit ColorScheme = 1
	Monochrome8Bit ColorScheme = 2
	ColorClassic   ColorScheme = 3
	Color24Bit     ColorScheme = 4
)

func (s ColorScheme) String() string {
	switch s {
	case Monochrome1Bit:
		return "monochrome1bit"
	case Monochrome8Bit:
		return "monochrome8bit"
	case ColorClassic:
		return "colorClassic"
	case Color24Bit:
		return "color24bit"
	default:
		return fmt.Sprintf("colorScheme(%d)", int(s))
	}
}

// Color is either a legacy (classic or monochrome) color number or a 24-bit
// RGB triple. The zero value is Legacy(0).
type Color struct {
	rgb     bool
	legacy  uint8
	r, g, b uint8
}

// Legacy returns a classic color (0-9) or a monochrome level.
func Legacy(n uint8) Color { return Color{legacy: n} }

// RGB returns a 24-bit color.
func RGB(r, g, b uint8) Color { return Color{rgb: true, r: r, g: g, b: b} }

func (c Color) String() string {
	if c.rgb {
		return fmt.Sprintf("%d,%d,%d", c.r, c.g, c.b)
	}
	return fmt.Sprintf("%d", c.legacy)
}

// Equal reports whether c and o are the same color value.
func (c Color) Equal(o Color) bool { return c == o }

// MarshalText encodes c in its MULTI tag form.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Classic colors defined by NTCIP 1203 for colorClassic signs.
const (
	ClassicBlack uint8 = iota
	ClassicRed
	ClassicYellow
	ClassicGreen
	ClassicCyan
	ClassicBlue
	ClassicMagenta
	ClassicWhite
	ClassicOrange
	ClassicAmber
)

var classicRGB = [...][3]uint8{
	ClassicBlack:   {0, 0, 0},
	ClassicRed:     {255, 0, 0},
	ClassicYellow:  {255, 255, 0},
	ClassicGreen:   {0, 255, 0},
	ClassicCyan:    {0, 255, 255},
	ClassicBlue:    {0, 0, 255},
	ClassicMagenta: {255, 0, 255},
	ClassicWhite:   {255, 255, 255},
	ClassicOrange:  {255, 165, 0},
	ClassicAmber:   {255, 208, 0},
}

// monochrome signs are rendered as amber LEDs
var monochromeOn = classicRGB[ClassicAmber]

// RGB resolves c under the given color scheme. It reports false when the
// scheme cannot represent the color.
func (c Color) RGB(scheme ColorScheme) ([3]uint8, bool) {
	switch scheme {
	case Monochrome1Bit:
		if c.rgb {
			return [3]uint8{}, false
		}
		switch c.legacy {
		case 0:
			return [3]uint8{}, true
		case 1:
			return monochromeOn, true
		}
		return [3]uint8{}, false
	case Monochrome8Bit:
		if c.rgb {
			return [3]uint8{}, false
		}
		lvl := uint32(c.legacy)
		return [3]uint8{
			uint8(uint32(monochromeOn[0]) * lvl / 255),
			uint8(uint32(monochromeOn[1]) * lvl / 255),
			uint8(uint32(monochromeOn[2]) * lvl / 255),
		}, true
	case ColorClassic:
		if c.rgb || int(c.legacy) >= len(classicRGB) {
			return [3]uint8{}, false
		}
		return classicRGB[c.legacy], true
	case Color24Bit:
		if c.rgb {
			return [3]uint8{c.r, c.g, c.b}, true
		}
		if int(c.legacy) >= len(classicRGB) {
			return [3]uint8{}, false
		}
		return classicRGB[c.legacy], true
	}
	return [3]uint8{}, false
}
