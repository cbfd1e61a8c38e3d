// Package overlay holds signature placements in display space.
//
// A placement is expressed in the pixel space of the page raster as it is
// rendered on screen (top-left origin), independent of any zoom transform
// applied on top of it. The export step converts those coordinates to PDF
// point space; see the stamp package.
package overlay

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrPageOutOfRange is returned by Move when the target page does not exist.
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrNoPlacement is returned when an operation needs a placement that is absent.
	ErrNoPlacement = errors.New("no placement on page")
)

// Default placement geometry for a freshly saved signature.
const (
	DefaultX      = 50.0
	DefaultY      = 50.0
	DefaultWidth  = 150.0
	DefaultHeight = 75.0
)

// Placement is a signature image attached to one page.
type Placement struct {
	Page   int     `json:"page" yaml:"page"`
	Image  []byte  `json:"-" yaml:"-"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// NewPlacement returns a placement at the default position and size.
func NewPlacement(page int, image []byte) Placement {
	return Placement{
		Page:   page,
		Image:  image,
		X:      DefaultX,
		Y:      DefaultY,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// Limits bounds the geometry drag and resize may produce.
type Limits struct {
	MinWidth  float64
	MinHeight float64
}

// DefaultLimits are the floors used by the editor.
var DefaultLimits = Limits{MinWidth: 50, MinHeight: 25}

// Model maps page numbers to at most one placement each.
//
// The zero value is ready to use. A Model is not safe for concurrent use.
type Model struct {
	limits     Limits
	placements map[int]Placement
}

// New returns an empty model using the given limits.
func New(limits Limits) *Model {
	return &Model{limits: limits, placements: make(map[int]Placement)}
}

// Limits returns the geometry floors of the model.
func (m *Model) Limits() Limits {
	if m.limits == (Limits{}) {
		return DefaultLimits
	}
	return m.limits
}

// Set stores p under p.Page, replacing any existing placement wholesale.
func (m *Model) Set(p Placement) {
	if m.placements == nil {
		m.placements = make(map[int]Placement)
	}
	m.placements[p.Page] = p
}

// Get returns the placement on page.
func (m *Model) Get(page int) (Placement, bool) {
	p, ok := m.placements[page]
	return p, ok
}

// Remove deletes the placement on page, if any.
func (m *Model) Remove(page int) {
	delete(m.placements, page)
}

// Move relocates the placement on from to to, carrying all other fields.
// The model is left untouched when to is outside [1, pageCount] or when
// from holds no placement.
func (m *Model) Move(from, to, pageCount int) error {
	if to < 1 || to > pageCount {
		return fmt.Errorf("move to page %d of %d: %w", to, pageCount, ErrPageOutOfRange)
	}
	p, ok := m.placements[from]
	if !ok {
		return fmt.Errorf("move from page %d: %w", from, ErrNoPlacement)
	}
	delete(m.placements, from)
	p.Page = to
	m.placements[to] = p
	return nil
}

// Translate sets the position of the placement on page, clamping both
// coordinates to be non-negative. Size and image are preserved.
func (m *Model) Translate(page int, x, y float64) error {
	p, ok := m.placements[page]
	if !ok {
		return fmt.Errorf("translate page %d: %w", page, ErrNoPlacement)
	}
	p.X = max(0, x)
	p.Y = max(0, y)
	m.placements[page] = p
	return nil
}

// Resize sets the size of the placement on page, flooring it at the model
// limits. Position and image are preserved.
func (m *Model) Resize(page int, width, height float64) error {
	p, ok := m.placements[page]
	if !ok {
		return fmt.Errorf("resize page %d: %w", page, ErrNoPlacement)
	}
	l := m.Limits()
	p.Width = max(l.MinWidth, width)
	p.Height = max(l.MinHeight, height)
	m.placements[page] = p
	return nil
}

// Len returns the number of placements.
func (m *Model) Len() int {
	return len(m.placements)
}

// Pages returns the page numbers holding a placement in ascending order.
func (m *Model) Pages() []int {
	pages := make([]int, 0, len(m.placements))
	for page := range m.placements {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	return pages
}

// Each calls fn for every placement in ascending page order and stops at the
// first error.
func (m *Model) Each(fn func(Placement) error) error {
	for _, page := range m.Pages() {
		if err := fn(m.placements[page]); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent copy. Image bytes are shared; they are never
// modified in place.
func (m *Model) Clone() *Model {
	c := &Model{limits: m.limits, placements: make(map[int]Placement, len(m.placements))}
	for page, p := range m.placements {
		c.placements[page] = p
	}
	return c
}
