// Package pad is a freehand drawing surface for signatures.
//
// Strokes are recorded as polylines in canvas pixels and rasterised on demand
// into a transparent PNG with round caps and joins.
package pad

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/vector"
)

// ErrEmptySignature is returned when a signature is requested from a pad
// without strokes.
var ErrEmptySignature = errors.New("draw your signature first")

// Default canvas geometry.
const (
	DefaultWidth    = 500
	DefaultHeight   = 200
	DefaultPenWidth = 2.5
)

// Point is a position on the canvas in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pad records strokes. The zero value is not usable; call New.
type Pad struct {
	Width    int
	Height   int
	PenWidth float64
	Color    color.Color

	strokes [][]Point
	drawing bool
}

// New returns an empty pad of the given size with a black pen.
func New(width, height int, penWidth float64) *Pad {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if penWidth <= 0 {
		penWidth = DefaultPenWidth
	}
	return &Pad{Width: width, Height: height, PenWidth: penWidth, Color: color.Black}
}

// BeginStroke starts a new stroke at p.
func (d *Pad) BeginStroke(p Point) {
	d.strokes = append(d.strokes, []Point{p})
	d.drawing = true
}

// LineTo extends the current stroke. It is ignored outside a stroke.
func (d *Pad) LineTo(p Point) {
	if !d.drawing || len(d.strokes) == 0 {
		return
	}
	i := len(d.strokes) - 1
	d.strokes[i] = append(d.strokes[i], p)
}

// EndStroke finishes the current stroke.
func (d *Pad) EndStroke() {
	d.drawing = false
}

// AddStroke records a complete stroke.
func (d *Pad) AddStroke(points []Point) {
	if len(points) == 0 {
		return
	}
	d.strokes = append(d.strokes, append([]Point(nil), points...))
	d.drawing = false
}

// Clear removes all strokes.
func (d *Pad) Clear() {
	d.strokes = nil
	d.drawing = false
}

// IsEmpty reports whether nothing has been drawn.
func (d *Pad) IsEmpty() bool {
	return len(d.strokes) == 0
}

// Strokes returns the number of recorded strokes.
func (d *Pad) Strokes() int {
	return len(d.strokes)
}

// Image rasterises the strokes onto a transparent canvas.
func (d *Pad) Image() (*image.NRGBA, error) {
	if d.IsEmpty() {
		return nil, ErrEmptySignature
	}
	dst := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	src := image.NewUniform(d.Color)
	r := d.PenWidth / 2

	for _, stroke := range d.strokes {
		z := vector.NewRasterizer(d.Width, d.Height)
		z.DrawOp = draw.Over
		for i, p := range stroke {
			dot(z, p, r)
			if i > 0 {
				segment(z, stroke[i-1], p, r)
			}
		}
		z.Draw(dst, dst.Bounds(), src, image.Point{})
	}
	return dst, nil
}

// PNG returns the strokes as a PNG-encoded image.
func (d *Pad) PNG() ([]byte, error) {
	img, err := d.Image()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// All shapes are emitted clockwise so overlapping coverage accumulates
// instead of cancelling.

// segment adds a quad of half-width r around the segment a-b.
func segment(z *vector.Rasterizer, a, b Point, r float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*r, dx/l*r
	z.MoveTo(f32(a.X+nx), f32(a.Y+ny))
	z.LineTo(f32(b.X+nx), f32(b.Y+ny))
	z.LineTo(f32(b.X-nx), f32(b.Y-ny))
	z.LineTo(f32(a.X-nx), f32(a.Y-ny))
	z.ClosePath()
}

// dot adds a 16-sided disc of radius r at p.
func dot(z *vector.Rasterizer, p Point, r float64) {
	const n = 16
	z.MoveTo(f32(p.X+r), f32(p.Y))
	for i := 1; i < n; i++ {
		a := -2 * math.Pi * float64(i) / n
		z.LineTo(f32(p.X+r*math.Cos(a)), f32(p.Y+r*math.Sin(a)))
	}
	z.ClosePath()
}

func f32(v float64) float32 {
	return float32(v)
}
