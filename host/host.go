// Package host renders document pages for the editor and reports the size
// they were displayed at.
package host

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultDisplayWidth is the width pages are rendered at when the caller does
// not ask for one.
const DefaultDisplayWidth = 600

// ErrPageOutOfRange is returned when rendering a page the document lacks.
var ErrPageOutOfRange = errors.New("page out of range")

// Page is a rendered page.
type Page struct {
	Number int
	Raster *image.RGBA
	// Width and Height are the display size in pixels.
	Width  float64
	Height float64
}

// Renderer produces page rasters.
type Renderer interface {
	PageCount(rs io.ReadSeeker) (int, error)
	RenderPage(rs io.ReadSeeker, page int, displayWidth float64) (*Page, error)
}

// PDFCPU renders pages as blank canvases sized from the page geometry
// reported by pdfcpu. Page content is not rasterised.
type PDFCPU struct {
	conf       *model.Configuration
	Background color.Color
}

// NewPDFCPU returns a renderer using a relaxed pdfcpu configuration that
// never touches the user's pdfcpu config directory.
func NewPDFCPU() *PDFCPU {
	model.ConfigPath = "disable"
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCPU{conf: conf, Background: color.White}
}

// PageCount returns the number of pages in rs.
func (p *PDFCPU) PageCount(rs io.ReadSeeker) (int, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := api.PageCount(rs, p.conf)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

// RenderPage renders page (1-based) at displayWidth pixels wide, keeping the
// page aspect ratio.
func (p *PDFCPU) RenderPage(rs io.ReadSeeker, page int, displayWidth float64) (*Page, error) {
	if displayWidth <= 0 {
		displayWidth = DefaultDisplayWidth
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	dims, err := api.PageDims(rs, p.conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}
	if page < 1 || page > len(dims) {
		return nil, fmt.Errorf("render page %d of %d: %w", page, len(dims), ErrPageOutOfRange)
	}
	d := dims[page-1]
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("render page %d: degenerate page size %vx%v", page, d.Width, d.Height)
	}

	height := displayWidth * d.Height / d.Width
	raster := image.NewRGBA(image.Rect(0, 0, int(math.Round(displayWidth)), int(math.Round(height))))
	draw.Draw(raster, raster.Bounds(), image.NewUniform(p.Background), image.Point{}, draw.Src)

	return &Page{Number: page, Raster: raster, Width: displayWidth, Height: height}, nil
}
