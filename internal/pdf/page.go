// Package pdf holds page-level helpers on top of github.com/digitorus/pdf.
package pdf

import (
	"errors"
	"fmt"

	pdflib "github.com/digitorus/pdf"
)

// ErrPageNotFound is returned when a page number does not resolve to a page
// dictionary.
var ErrPageNotFound = errors.New("page not found")

// maxInheritDepth bounds the /Parent walk on malformed page trees.
const maxInheritDepth = 64

// Letter is the page size used when no MediaBox can be found.
var Letter = Box{URX: 612, URY: 792}

// Box is a PDF rectangle in points.
type Box struct {
	LLX, LLY, URX, URY float64
}

// Width returns the horizontal extent of b.
func (b Box) Width() float64 { return b.URX - b.LLX }

// Height returns the vertical extent of b.
func (b Box) Height() float64 { return b.URY - b.LLY }

// Page returns the dictionary of page n (1-based).
func Page(r *pdflib.Reader, n int) (pdflib.Value, error) {
	if n < 1 || n > r.NumPage() {
		return pdflib.Value{}, fmt.Errorf("page %d out of range (1-%d): %w", n, r.NumPage(), ErrPageNotFound)
	}
	page := r.Page(n)
	if page.V.IsNull() || page.V.Kind() != pdflib.Dict {
		return pdflib.Value{}, fmt.Errorf("page %d: %w", n, ErrPageNotFound)
	}
	return page.V, nil
}

// Inherited looks key up on page and then on its ancestors in the page tree.
func Inherited(page pdflib.Value, key string) pdflib.Value {
	v := page
	for i := 0; i < maxInheritDepth && v.Kind() == pdflib.Dict; i++ {
		if r := v.Key(key); !r.IsNull() {
			return r
		}
		v = v.Key("Parent")
	}
	return pdflib.Value{}
}

// MediaBox returns the inherited media box of page, normalised so that the
// lower-left corner comes first. Letter is returned when none is present.
func MediaBox(page pdflib.Value) Box {
	mb := Inherited(page, "MediaBox")
	if mb.Kind() != pdflib.Array || mb.Len() < 4 {
		return Letter
	}
	b := Box{
		LLX: min(mb.Index(0).Float64(), mb.Index(2).Float64()),
		LLY: min(mb.Index(1).Float64(), mb.Index(3).Float64()),
		URX: max(mb.Index(0).Float64(), mb.Index(2).Float64()),
		URY: max(mb.Index(1).Float64(), mb.Index(3).Float64()),
	}
	if b.Width() <= 0 || b.Height() <= 0 {
		return Letter
	}
	return b
}

// ObjectID returns the object number of an indirect value.
func ObjectID(v pdflib.Value) uint32 {
	return uint32(v.GetPtr().GetID())
}
