// Package multi models NTCIP 1203 MULTI markup: the tag values a message is
// made of, the colors and rectangles they carry, and a lexer that turns raw
// markup into a stream of values.
package multi

import (
	"fmt"
	"strings"
)

// Value is one element of a MULTI message: either a tag or a run of text.
// The set of implementations is closed; callers switch on the concrete type.
type Value interface {
	// Tag returns the lower-case tag name ("cf", "/sc", ...), or "" for text.
	Tag() string
	// String renders the value back to MULTI markup.
	String() string

	isValue()
}

// ColorBackground is [cbX]; a nil Color restores the default.
type ColorBackground struct{ Color *Color }

// ColorForeground is [cfX]; a nil Color restores the default.
type ColorForeground struct{ Color *Color }

// ColorRectangle is [crx,y,w,h,c].
type ColorRectangle struct {
	Rect  Rectangle
	Color Color
}

// Field is [fN] or [fN,w]. Fields are filled in by the sign controller.
type Field struct {
	ID    int
	Width int
}

// Flash is [fltXoY]; the parameters are kept verbatim.
type Flash struct{ Params string }

// FlashEnd is [/fl].
type FlashEnd struct{}

// Font is [foN] or [foN,hhhh]; a nil Font restores the default.
type Font struct{ Font *FontRef }

// Graphic is [gN] or [gN,x,y] or [gN,x,y,hhhh].
type Graphic struct {
	Number uint8
	// Pos is nil when the graphic is placed at the text position.
	Pos     *Point
	Version uint16
	HasVer  bool
}

// HexadecimalCharacter is [hcN].
type HexadecimalCharacter struct{ Code uint16 }

// JustificationLine is [jlN]; nil restores the default.
type JustificationLine struct{ Just *LineJustification }

// JustificationPage is [jpN]; nil restores the default.
type JustificationPage struct{ Just *PageJustification }

// ManufacturerSpecific is [msX,...].
type ManufacturerSpecific struct{ Params string }

// ManufacturerSpecificEnd is [/msX,...].
type ManufacturerSpecificEnd struct{ Params string }

// MovingText is [mv...].
type MovingText struct{ Params string }

// NewLine is [nl] or [nlN]; Spacing is nil when absent.
type NewLine struct{ Spacing *int }

// NewPage is [np].
type NewPage struct{}

// PageBackground is [pbX]; a nil Color restores the default.
type PageBackground struct{ Color *Color }

// PageTime is [ptNoM] in deciseconds; absent sides are nil.
type PageTime struct{ On, Off *int }

// SpacingCharacter is [scN].
type SpacingCharacter struct{ Spacing int }

// SpacingCharacterEnd is [/sc].
type SpacingCharacterEnd struct{}

// TextRectangle is [trx,y,w,h].
type TextRectangle struct{ Rect Rectangle }

// Text is a literal run, with [[ and ]] already unescaped.
type Text struct{ Text string }

// Point is a 1-based pixel position.
type Point struct{ X, Y int }

// FontRef names a font by number and optional version id.
type FontRef struct {
	Number  uint8
	Version uint16
	// HasVer reports whether Version was given.
	HasVer bool
}

func (f FontRef) String() string {
	if f.HasVer {
		return fmt.Sprintf("%d,%04x", f.Number, f.Version)
	}
	return fmt.Sprintf("%d", f.Number)
}

func (ColorBackground) Tag() string         { return "cb" }
func (ColorForeground) Tag() string         { return "cf" }
func (ColorRectangle) Tag() string          { return "cr" }
func (Field) Tag() string                   { return "f" }
func (Flash) Tag() string                   { return "fl" }
func (FlashEnd) Tag() string                { return "/fl" }
func (Font) Tag() string                    { return "fo" }
func (Graphic) Tag() string                 { return "g" }
func (HexadecimalCharacter) Tag() string    { return "hc" }
func (JustificationLine) Tag() string       { return "jl" }
func (JustificationPage) Tag() string       { return "jp" }
func (ManufacturerSpecific) Tag() string    { return "ms" }
func (ManufacturerSpecificEnd) Tag() string { return "/ms" }
func (MovingText) Tag() string              { return "mv" }
func (NewLine) Tag() string                 { return "nl" }
func (NewPage) Tag() string                 { return "np" }
func (PageBackground) Tag() string          { return "pb" }
func (PageTime) Tag() string                { return "pt" }
func (SpacingCharacter) Tag() string        { return "sc" }
func (SpacingCharacterEnd) Tag() string     { return "/sc" }
func (TextRectangle) Tag() string           { return "tr" }
func (Text) Tag() string                    { return "" }

func (ColorBackground) isValue()         {}
func (ColorForeground) isValue()         {}
func (ColorRectangle) isValue()          {}
func (Field) isValue()                   {}
func (Flash) isValue()                   {}
func (FlashEnd) isValue()                {}
func (Font) isValue()                    {}
func (Graphic) isValue()                 {}
func (HexadecimalCharacter) isValue()    {}
func (JustificationLine) isValue()       {}
func (JustificationPage) isValue()       {}
func (ManufacturerSpecific) isValue()    {}
func (ManufacturerSpecificEnd) isValue() {}
func (MovingText) isValue()              {}
func (NewLine) isValue()                 {}
func (NewPage) isValue()                 {}
func (PageBackground) isValue()          {}
func (PageTime) isValue()                {}
func (SpacingCharacter) isValue()        {}
func (SpacingCharacterEnd) isValue()     {}
func (TextRectangle) isValue()           {}
func (Text) isValue()                    {}

func tagString(name string, params ...string) string {
	return "[" + name + strings.Join(params, "") + "]"
}

func optColor(c *Color) string {
	if c == nil {
		return ""
	}
	return c.String()
}

func (v ColorBackground) String() string { return tagString("cb", optColor(v.Color)) }
func (v ColorForeground) String() string { return tagString("cf", optColor(v.Color)) }
func (v PageBackground) String() string  { return tagString("pb", optColor(v.Color)) }

func (v ColorRectangle) String() string {
	return tagString("cr", v.Rect.String(), ",", v.Color.String())
}

func (v Field) String() string {
	if v.Width > 0 {
		return tagString("f", fmt.Sprintf("%d,%d", v.ID, v.Width))
	}
	return tagString("f", fmt.Sprintf("%d", v.ID))
}

func (v Flash) String() string      { return tagString("fl", v.Params) }
func (FlashEnd) String() string     { return "[/fl]" }
func (v MovingText) String() string { return tagString("mv", v.Params) }

func (v Font) String() string {
	if v.Font == nil {
		return "[fo]"
	}
	return tagString("fo", v.Font.String())
}

func (v Graphic) String() string {
	s := fmt.Sprintf("%d", v.Number)
	if v.Pos != nil {
		s += fmt.Sprintf(",%d,%d", v.Pos.X, v.Pos.Y)
		if v.HasVer {
			s += fmt.Sprintf(",%04x", v.Version)
		}
	}
	return tagString("g", s)
}

func (v HexadecimalCharacter) String() string { return tagString("hc", fmt.Sprintf("%x", v.Code)) }

func (v JustificationLine) String() string {
	if v.Just == nil {
		return "[jl]"
	}
	return tagString("jl", fmt.Sprintf("%d", *v.Just))
}

func (v JustificationPage) String() string {
	if v.Just == nil {
		return "[jp]"
	}
	return tagString("jp", fmt.Sprintf("%d", *v.Just))
}

func (v ManufacturerSpecific) String() string    { return tagString("ms", v.Params) }
func (v ManufacturerSpecificEnd) String() string { return tagString("/ms", v.Params) }

func (v NewLine) String() string {
	if v.Spacing == nil {
		return "[nl]"
	}
	return tagString("nl", fmt.Sprintf("%d", *v.Spacing))
}

func (NewPage) String() string { return "[np]" }

func (v PageTime) String() string {
	var b strings.Builder
	if v.On != nil {
		fmt.Fprintf(&b, "%d", *v.On)
	}
	if v.Off != nil {
		fmt.Fprintf(&b, "o%d", *v.Off)
	}
	return tagString("pt", b.String())
}

func (v SpacingCharacter) String() string  { return tagString("sc", fmt.Sprintf("%d", v.Spacing)) }
func (SpacingCharacterEnd) String() string { return "[/sc]" }
func (v TextRectangle) String() string     { return tagString("tr", v.Rect.String()) }

func (v Text) String() string {
	s := strings.ReplaceAll(v.Text, "[", "[[")
	return strings.ReplaceAll(s, "]", "]]")
}
