// Package stamp draws raster images onto PDF pages as an incremental update.
//
// The original file is copied unchanged; new image XObjects, content streams,
// the rewritten page dictionaries and the document information dictionary are
// appended after it, followed by a cross-reference section of the same kind
// as the source (table or stream) that points back to the previous one.
package stamp

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/digitorus/pdf"
	"github.com/mattetti/filebuffer"
)

// ErrNoPlacements is returned when there is nothing to draw.
var ErrNoPlacements = errors.New("no placements")

// Stamp draws placements on the document read by rdr from input and returns
// the updated file.
func Stamp(input io.ReadSeeker, rdr *pdf.Reader, placements []Placement, opts Options) ([]byte, error) {
	if len(placements) == 0 {
		return nil, ErrNoPlacements
	}

	context := StampContext{
		InputFile: input,
		PDFReader: rdr,
		Options:   opts,
	}
	if err := context.StampPDF(placements); err != nil {
		return nil, err
	}
	return context.OutputBuffer.Buff.Bytes(), nil
}

// StampPDF runs the update. It can be called again after a failure.
func (context *StampContext) StampPDF(placements []Placement) error {
	// Reset state that accumulates during stamping (important for retry)
	context.newXrefEntries = nil
	context.updatedXrefEntries = nil
	context.images = nil
	context.names = 0
	context.infoID = 0
	context.NewXrefStart = 0
	context.lastXrefID = context.size() - 1

	context.OutputBuffer = filebuffer.New([]byte{})

	// Copy old file into new buffer.
	if _, err := context.InputFile.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.Copy(context.OutputBuffer, context.InputFile); err != nil {
		return err
	}

	// File always needs an empty line after %%EOF.
	if _, err := context.OutputBuffer.Write([]byte("\n")); err != nil {
		return err
	}

	byPage := make(map[int][]Placement)
	for _, p := range placements {
		byPage[p.Page] = append(byPage[p.Page], p)
	}
	pages := make([]int, 0, len(byPage))
	for page := range byPage {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	for _, page := range pages {
		if err := context.stampPage(page, byPage[page]); err != nil {
			return fmt.Errorf("failed to stamp page %d: %w", page, err)
		}
	}

	infoID, err := context.writeInfo()
	if err != nil {
		return fmt.Errorf("failed to write info: %w", err)
	}
	context.infoID = infoID

	if err := context.writeXref(); err != nil {
		return err
	}
	return context.writeTrailer()
}

// size returns the number of object slots the source file declares.
func (context *StampContext) size() uint32 {
	size := context.PDFReader.Trailer().Key("Size").Int64()
	size = max(size, context.PDFReader.XrefInformation.ItemCount)
	return uint32(max(size, 1))
}
