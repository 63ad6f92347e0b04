package multi

import "fmt"

// Rectangle is a 1-based pixel rectangle on the sign face.
type Rectangle struct {
	X, Y int
	W, H int
}

// NewRectangle returns the rectangle at (x, y) with size w×h.
func NewRectangle(x, y, w, h int) Rectangle {
	return Rectangle{X: x, Y: y, W: w, H: h}
}

// Contains reports whether o lies entirely inside r.
func (r Rectangle) Contains(o Rectangle) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

func (r Rectangle) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.W, r.H)
}

// LineJustification is the value of a [jl] tag.
type LineJustification int

const (
	LineOther  LineJustification = 1
	LineLeft   LineJustification = 2
	LineCenter LineJustification = 3
	LineRight  LineJustification = 4
	LineFull   LineJustification = 5
)

func (j LineJustification) String() string {
	switch j {
	case LineOther:
		return "other"
	case LineLeft:
		return "left"
	case LineCenter:
		return "center"
	case LineRight:
		return "right"
	case LineFull:
		return "full"
	default:
		return fmt.Sprintf("jl(%d)", int(j))
	}
}

// PageJustification is the value of a [jp] tag.
type PageJustification int

const (
	PageOther  PageJustification = 1
	PageTop    PageJustification = 2
	PageMiddle PageJustification = 3
	PageBottom PageJustification = 4
)

func (j PageJustification) String() string {
	switch j {
	case PageOther:
		return "other"
	case PageTop:
		return "top"
	case PageMiddle:
		return "middle"
	case PageBottom:
		return "bottom"
	default:
		return fmt.Sprintf("jp(%d)", int(j))
	}
}
