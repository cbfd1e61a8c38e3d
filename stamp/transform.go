package stamp

import (
	internalpdf "github.com/digitorus/pdfink/internal/pdf"
)

// Rect is an axis aligned rectangle given by its origin and size.
type Rect struct {
	X, Y, Width, Height float64
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Scale is the ratio between PDF points and display pixels on each axis.
type Scale struct {
	X, Y float64
}

// ScaleFor returns the point-per-pixel scale of a page of size page rendered
// at size display.
func ScaleFor(page, display Size) Scale {
	return Scale{X: page.Width / display.Width, Y: page.Height / display.Height}
}

// ToPoints maps r, given in display pixels with a top-left origin, onto the
// page box in PDF points with a bottom-left origin.
func ToPoints(r Rect, box internalpdf.Box, display Size) Rect {
	page := Size{Width: box.Width(), Height: box.Height()}
	s := ScaleFor(page, display)
	return Rect{
		X:      box.LLX + r.X*s.X,
		Y:      box.LLY + page.Height - (r.Y+r.Height)*s.Y,
		Width:  r.Width * s.X,
		Height: r.Height * s.Y,
	}
}
