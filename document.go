// Package pdfink places hand drawn signatures onto PDF pages.
//
// Placements are authored in the pixel space of the page as it was rendered
// on screen and converted to PDF points at export time, using the size each
// page was displayed at.
//
// Basic usage:
//
//	doc, err := pdfink.OpenFile("contract.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	model := overlay.New(overlay.DefaultLimits)
//	model.Set(overlay.NewPlacement(1, signaturePNG))
//
//	dims := overlay.Dimensions{}
//	dims.Record(1, 600, 776)
//
//	out, err := doc.Export(model, dims)
package pdfink

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	pdflib "github.com/digitorus/pdf"
	internalpdf "github.com/digitorus/pdfink/internal/pdf"
	"github.com/digitorus/pdfink/overlay"
	"github.com/digitorus/pdfink/stamp"
)

// ErrEncrypted is returned when opening an encrypted document.
var ErrEncrypted = errors.New("encrypted documents are not supported")

// Document is an opened PDF. It is immutable; exports return new bytes.
type Document struct {
	// Name is a display name, usually the base name of the source file.
	Name string

	reader io.ReaderAt
	size   int64
	rdr    *pdflib.Reader

	producer string
}

// Open initializes a Document from an io.ReaderAt (e.g., an open file or
// memory buffer). The size parameter must be the total size of the PDF in
// bytes.
func Open(reader io.ReaderAt, size int64) (*Document, error) {
	rdr, err := pdflib.NewReader(reader, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	if !rdr.Trailer().Key("Encrypt").IsNull() {
		return nil, ErrEncrypted
	}
	if rdr.NumPage() < 1 {
		return nil, fmt.Errorf("failed to open PDF: document has no pages")
	}
	return &Document{
		reader:   reader,
		size:     size,
		rdr:      rdr,
		producer: stamp.DefaultProducer,
	}, nil
}

// OpenFile reads the PDF at path into memory and opens it.
func OpenFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return OpenBytes(filepath.Base(path), data)
}

// OpenBytes opens a PDF held in memory.
func OpenBytes(name string, data []byte) (*Document, error) {
	doc, err := Open(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	doc.Name = name
	return doc, nil
}

// SetProducer sets the /Producer written on export.
func (d *Document) SetProducer(producer string) {
	d.producer = producer
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.rdr.NumPage()
}

// PageSize returns the size of page (1-based) in points.
func (d *Document) PageSize(page int) (overlay.Size, error) {
	v, err := internalpdf.Page(d.rdr, page)
	if err != nil {
		return overlay.Size{}, err
	}
	box := internalpdf.MediaBox(v)
	return overlay.Size{Width: box.Width(), Height: box.Height()}, nil
}

// Size returns the length of the source file in bytes.
func (d *Document) Size() int64 {
	return d.size
}

// Reader returns the low-level PDF reader.
func (d *Document) Reader() *pdflib.Reader {
	return d.rdr
}

// Source returns a fresh reader over the original file bytes.
func (d *Document) Source() io.ReadSeeker {
	return io.NewSectionReader(d.reader, 0, d.size)
}
