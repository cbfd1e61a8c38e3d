package pdfink

import (
	"errors"
	"fmt"
	"io"
	"time"

	internalpdf "github.com/digitorus/pdfink/internal/pdf"
	"github.com/digitorus/pdfink/overlay"
	"github.com/digitorus/pdfink/stamp"
)

// Export artifact metadata.
const (
	ExportFilename = "signed.pdf"
	ExportMIMEType = "application/pdf"
)

// ErrInputMissing is returned when exporting without a document or without
// placements.
var ErrInputMissing = errors.New("load a PDF and add at least one signature first")

// ExportError reports a failure while reading the document or writing the
// update. Page is zero when the failure is not tied to a page.
type ExportError struct {
	Op   string
	Page int
	Err  error
}

func (e *ExportError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s page %d: %v", e.Op, e.Page, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Export stamps every placement onto doc. It fails with ErrInputMissing when
// doc is nil or there are no placements.
func Export(doc *Document, placements *overlay.Model, dims overlay.Dimensions) ([]byte, error) {
	if doc == nil || placements == nil || placements.Len() == 0 {
		return nil, ErrInputMissing
	}
	return doc.Export(placements, dims)
}

// Export stamps every placement onto the document and returns the new file.
// Placements on pages the document does not have are skipped. If every
// placement is skipped the original bytes are returned.
func (d *Document) Export(placements *overlay.Model, dims overlay.Dimensions) ([]byte, error) {
	if placements == nil || placements.Len() == 0 {
		return nil, ErrInputMissing
	}

	plan, err := d.Plan(placements, dims)
	if err != nil {
		return nil, err
	}

	if len(plan) == 0 {
		out := make([]byte, d.size)
		if _, err := d.reader.ReadAt(out, 0); err != nil && !errors.Is(err, io.EOF) {
			return nil, &ExportError{Op: "read", Err: err}
		}
		return out, nil
	}

	out, err := stamp.Stamp(d.Source(), d.rdr, plan, stamp.Options{
		Producer: d.producer,
		Date:     time.Now(),
	})
	if err != nil {
		return nil, &ExportError{Op: "stamp", Err: err}
	}
	return out, nil
}

// Write exports the document to w.
func (d *Document) Write(w io.Writer, placements *overlay.Model, dims overlay.Dimensions) error {
	out, err := d.Export(placements, dims)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return &ExportError{Op: "write", Err: err}
	}
	return nil
}

// Plan converts placements into PDF point space. Pages outside the document
// are skipped; display sizes missing from dims fall back to
// overlay.FallbackDisplay.
func (d *Document) Plan(placements *overlay.Model, dims overlay.Dimensions) ([]stamp.Placement, error) {
	var plan []stamp.Placement
	err := placements.Each(func(p overlay.Placement) error {
		if p.Page < 1 || p.Page > d.PageCount() {
			return nil
		}
		page, err := internalpdf.Page(d.rdr, p.Page)
		if err != nil {
			return &ExportError{Op: "load", Page: p.Page, Err: err}
		}
		display := dims.Lookup(p.Page)
		rect := stamp.ToPoints(
			stamp.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height},
			internalpdf.MediaBox(page),
			stamp.Size{Width: display.Width, Height: display.Height},
		)
		plan = append(plan, stamp.Placement{Page: p.Page, Image: p.Image, Rect: rect})
		return nil
	})
	return plan, err
}
