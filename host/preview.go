package host

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register JPEG format
	"image/png"
	"math"

	"github.com/digitorus/pdfink/overlay"
	xdraw "golang.org/x/image/draw"
)

// outline is drawn around each placement.
var outline = color.RGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}

// Preview composites placements onto a copy of the page raster. Placements
// for other pages are ignored.
func Preview(page *Page, placements []overlay.Placement) (*image.RGBA, error) {
	out := image.NewRGBA(page.Raster.Bounds())
	xdraw.Copy(out, image.Point{}, page.Raster, page.Raster.Bounds(), xdraw.Src, nil)

	for _, p := range placements {
		if p.Page != page.Number {
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(p.Image))
		if err != nil {
			return nil, fmt.Errorf("page %d placement: %w", p.Page, err)
		}
		r := image.Rect(
			int(math.Round(p.X)), int(math.Round(p.Y)),
			int(math.Round(p.X+p.Width)), int(math.Round(p.Y+p.Height)),
		)
		xdraw.CatmullRom.Scale(out, r, img, img.Bounds(), xdraw.Over, nil)
		strokeRect(out, r)
	}
	return out, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func strokeRect(dst *image.RGBA, r image.Rectangle) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.Set(x, r.Min.Y, outline)
		dst.Set(x, r.Max.Y-1, outline)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.Set(r.Min.X, y, outline)
		dst.Set(r.Max.X-1, y, outline)
	}
}
