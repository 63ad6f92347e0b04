package layout

import "time"

// This file defines pixel spacing and timing helpers shared by the render
// state and the layout tree.

// Spacing is an optional pixel distance. When Set is false the font's
// default spacing applies.
type Spacing struct {
	Pixels int  `json:"pixels"`
	Set    bool `json:"set"`
}

// Pixels returns an explicit spacing of n pixels.
func Pixels(n int) Spacing { return Spacing{Pixels: n, Set: true} }

// Or returns the explicit spacing, or def when none is set.
func (s Spacing) Or(def int) int {
	if s.Set {
		return s.Pixels
	}
	return def
}

// averageSpacing returns the spacing between two neighbours whose own
// spacings differ: the average rounded to the nearest pixel, with halves
// rounded up (NTCIP 1203 fontCharSpacing / fontLineSpacing).
func averageSpacing(a, b int) int {
	return (a + b + 1) / 2
}

// cells returns how many cells of size c are needed to hold n pixels.
func cells(n, c int) int {
	return (n + c - 1) / c
}

// floorTo rounds n down to a multiple of c.
func floorTo(n, c int) int {
	return (n / c) * c
}

// Deciseconds converts a page time in tenths of a second to a duration.
func Deciseconds(ds int) time.Duration {
	return time.Duration(ds) * 100 * time.Millisecond
}
