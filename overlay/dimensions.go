package overlay

// Size is a width/height pair. Its unit depends on context: display pixels
// for rendered pages, points for PDF pages.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// FallbackDisplay is used for pages whose raster never reported a size.
var FallbackDisplay = Size{Width: 600, Height: 800}

// Dimensions records the display size each page was rendered at.
type Dimensions map[int]Size

// Record stores the rendered size of page.
func (d Dimensions) Record(page int, width, height float64) {
	d[page] = Size{Width: width, Height: height}
}

// Lookup returns the rendered size of page, or FallbackDisplay when the page
// was never rendered or reported a degenerate size.
func (d Dimensions) Lookup(page int) Size {
	s, ok := d[page]
	if !ok || s.Width <= 0 || s.Height <= 0 {
		return FallbackDisplay
	}
	return s
}

// Clone returns an independent copy.
func (d Dimensions) Clone() Dimensions {
	c := make(Dimensions, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}
